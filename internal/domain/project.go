package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Short codes are what site teams write on drawings and daily reports:
// 3-6 uppercase letters followed by 2-4 digits (RES01, TORRE12).
var shortIDPattern = regexp.MustCompile(`^[A-Z]{3,6}[0-9]{2,4}$`)

// Project is a construction project (empreendimento). Activities reference
// it by ID.
type Project struct {
	ID         string
	ShortID    string
	Name       string
	Address    string
	StartDate  Date
	TargetDate *Date
	Status     ProjectStatus
	ArchivedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NormalizeShortID trims and upper-cases a short code as typed by a user.
func NormalizeShortID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Validate reports every problem with the project's identity and dates.
func (p *Project) Validate() error {
	var errs []error
	if err := p.ValidateShortID(); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, fmt.Errorf("project name is required"))
	}
	if p.TargetDate != nil && !p.StartDate.IsZero() && p.TargetDate.Before(p.StartDate) {
		errs = append(errs, fmt.Errorf("target date %s is before start date %s", p.TargetDate, p.StartDate))
	}
	return errors.Join(errs...)
}

func (p *Project) ValidateShortID() error {
	switch {
	case p.ShortID == "":
		return fmt.Errorf("short ID is required")
	case !shortIDPattern.MatchString(p.ShortID):
		return fmt.Errorf("short ID %q must be 3-6 uppercase letters followed by 2-4 digits (e.g. RES01)", p.ShortID)
	}
	return nil
}

func (p *Project) IsArchived() bool {
	return p.Status == ProjectArchived
}

// DisplayID is the short code, or the first 8 characters of the ID for
// projects created before short codes existed.
func (p *Project) DisplayID() string {
	if p.ShortID != "" {
		return p.ShortID
	}
	if len(p.ID) > 8 {
		return p.ID[:8]
	}
	return p.ID
}
