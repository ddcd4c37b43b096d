package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// commitProgress returns a progress callback that draws a bar on w while
// plan parts are saved.
func commitProgress(w io.Writer, total int) (*progressbar.ProgressBar, func(done, total int)) {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription(
			color.CyanString("Saving: ")+
				color.GreenString("[0/%d]", total),
		),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return bar, func(done, total int) {
		_ = bar.Set(done)
		bar.Describe(color.CyanString("Saving: ") + color.GreenString("[%d/%d]", done, total))
	}
}
