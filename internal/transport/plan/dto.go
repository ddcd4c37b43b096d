package plan

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/obra/internal/contract"
	"github.com/alexanderramin/obra/internal/domain"
	"github.com/alexanderramin/obra/internal/transport/activity"
)

// TemplateReq is one activity template of a plan request.
type TemplateReq struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	EstimatedHours float64  `json:"estimated_hours"`
	Type           string   `json:"type,omitempty"`
	Priority       string   `json:"priority,omitempty"`
	Recurrence     string   `json:"recurrence,omitempty"`
	WeeklyDays     []string `json:"weekly_days,omitempty"`
}

type RecurrenceReq struct {
	Days  []string `json:"days"`
	Weeks int      `json:"weeks"`
}

// Request is a plan as sent over the wire. Mode selects which of Activity
// or Templates is read.
type Request struct {
	Mode        string         `json:"mode" binding:"required"`
	ProjectID   string         `json:"project_id"`
	Responsible string         `json:"responsible"`
	StartDate   domain.Date    `json:"start_date"`
	Activity    *TemplateReq   `json:"activity,omitempty"`
	WindowWeeks int            `json:"window_weeks,omitempty"`
	Templates   []TemplateReq  `json:"templates,omitempty"`
	Recurrence  *RecurrenceReq `json:"recurrence,omitempty"`
}

// ToDomain converts the request into a plan. It fails only on shapes the
// plan cannot represent; field-level problems are left to Plan.Validate.
func (r Request) ToDomain() (domain.Plan, error) {
	header := domain.PlanHeader{
		ProjectID:   r.ProjectID,
		Responsible: strings.TrimSpace(r.Responsible),
		StartDate:   r.StartDate,
	}
	switch domain.PlanMode(strings.ToLower(r.Mode)) {
	case domain.PlanSingle:
		if r.Activity == nil {
			return nil, fmt.Errorf("single plan needs an activity")
		}
		t, err := r.Activity.toDomain(0)
		if err != nil {
			return nil, err
		}
		if t.ID == "" {
			t.ID = "t1"
		}
		return domain.SingleActivityPlan{PlanHeader: header, Activity: t, WindowWeeks: r.WindowWeeks}, nil
	case domain.PlanBatch:
		templates := make([]domain.ActivityTemplate, 0, len(r.Templates))
		for i, tr := range r.Templates {
			t, err := tr.toDomain(i)
			if err != nil {
				return nil, err
			}
			templates = append(templates, t)
		}
		fillTemplateIDs(templates)
		p := domain.BatchTemplatePlan{PlanHeader: header, Templates: templates}
		if r.Recurrence != nil {
			days, err := parseDays(r.Recurrence.Days)
			if err != nil {
				return nil, fmt.Errorf("recurrence: %w", err)
			}
			p.Recurrence = &domain.WeeklyRule{Days: days, Weeks: r.Recurrence.Weeks}
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown plan mode %q (want single or batch)", r.Mode)
	}
}

func (t TemplateReq) toDomain(i int) (domain.ActivityTemplate, error) {
	out := domain.ActivityTemplate{
		ID:             t.ID,
		Title:          strings.TrimSpace(t.Title),
		EstimatedHours: t.EstimatedHours,
		Type:           t.Type,
		Priority:       domain.Priority(t.Priority),
		Recurrence:     domain.RecurrenceNone,
	}
	label := out.ID
	if label == "" {
		label = fmt.Sprintf("#%d", i+1)
	}
	switch strings.ToLower(t.Recurrence) {
	case "", "none":
	case "weekly":
		days, err := parseDays(t.WeeklyDays)
		if err != nil {
			return out, fmt.Errorf("activity %s: %w", label, err)
		}
		out.Recurrence = domain.RecurrenceWeekly
		out.WeeklyDays = days
	default:
		return out, fmt.Errorf("activity %s: unknown recurrence %q", label, t.Recurrence)
	}
	return out, nil
}

// fillTemplateIDs names unnamed templates "t<n>" after their position,
// moving past numbers a caller already used as an explicit id.
func fillTemplateIDs(templates []domain.ActivityTemplate) {
	taken := make(map[string]bool, len(templates))
	for _, t := range templates {
		if t.ID != "" {
			taken[t.ID] = true
		}
	}
	for i := range templates {
		if templates[i].ID != "" {
			continue
		}
		n := i + 1
		for taken[fmt.Sprintf("t%d", n)] {
			n++
		}
		templates[i].ID = fmt.Sprintf("t%d", n)
		taken[templates[i].ID] = true
	}
}

func parseDays(names []string) ([]time.Weekday, error) {
	return domain.ParseWeekdays(strings.Join(names, ","))
}

type PartResp struct {
	SourceActivityID     string      `json:"source_activity_id"`
	OriginRecurrenceDate domain.Date `json:"origin_recurrence_date"`
	Date                 domain.Date `json:"date"`
	Hours                float64     `json:"hours"`
	Title                string      `json:"title"`
	IsPartial            bool        `json:"is_partial"`
	PartIndex            int         `json:"part_index"`
	PartCount            int         `json:"part_count"`
	Type                 string      `json:"type,omitempty"`
	Priority             string      `json:"priority,omitempty"`
}

type DayResp struct {
	Date          domain.Date `json:"date"`
	ExistingHours float64     `json:"existing_hours"`
	NewHours      float64     `json:"new_hours"`
	TotalHours    float64     `json:"total_hours"`
}

type UnscheduledResp struct {
	SourceActivityID     string      `json:"source_activity_id"`
	OriginRecurrenceDate domain.Date `json:"origin_recurrence_date"`
	Hours                float64     `json:"hours"`
}

type PreviewResponse struct {
	GeneratedAt     time.Time         `json:"generated_at"`
	Mode            string            `json:"mode"`
	ProjectID       string            `json:"project_id,omitempty"`
	Responsible     string            `json:"responsible"`
	StartDate       domain.Date       `json:"start_date"`
	RecurrenceDates []domain.Date     `json:"recurrence_dates,omitempty"`
	Parts           []PartResp        `json:"parts"`
	Days            []DayResp         `json:"days"`
	TotalHours      float64           `json:"total_hours"`
	Incomplete      bool              `json:"incomplete"`
	Unscheduled     []UnscheduledResp `json:"unscheduled,omitempty"`
	LoadUnavailable bool              `json:"load_unavailable"`
	Skipped         []string          `json:"skipped,omitempty"`
	Warnings        []string          `json:"warnings,omitempty"`
}

func NewPreviewResponse(p *contract.PlanPreview) PreviewResponse {
	out := PreviewResponse{
		GeneratedAt:     p.GeneratedAt,
		Mode:            string(p.Mode),
		ProjectID:       p.ProjectID,
		Responsible:     p.Responsible,
		StartDate:       p.StartDate,
		RecurrenceDates: p.RecurrenceDates,
		Parts:           make([]PartResp, 0, len(p.Parts)),
		Days:            make([]DayResp, 0, len(p.Days)),
		TotalHours:      p.TotalHours,
		Incomplete:      p.Incomplete,
		LoadUnavailable: p.LoadUnavailable,
		Skipped:         p.Skipped,
		Warnings:        p.Warnings,
	}
	for _, part := range p.Parts {
		out.Parts = append(out.Parts, newPartResp(part))
	}
	for _, d := range p.Days {
		out.Days = append(out.Days, DayResp{
			Date:          d.Date,
			ExistingHours: d.ExistingHours,
			NewHours:      d.NewHours,
			TotalHours:    domain.RoundHours(d.Total()),
		})
	}
	for _, u := range p.Unscheduled {
		out.Unscheduled = append(out.Unscheduled, UnscheduledResp(u))
	}
	return out
}

func newPartResp(part domain.ScheduledPart) PartResp {
	return PartResp{
		SourceActivityID:     part.SourceActivityID,
		OriginRecurrenceDate: part.OriginRecurrenceDate,
		Date:                 part.Date,
		Hours:                domain.RoundHours(part.Hours),
		Title:                part.DisplayTitle(),
		IsPartial:            part.IsPartial,
		PartIndex:            part.PartIndex,
		PartCount:            part.PartCount,
		Type:                 part.Type,
		Priority:             string(part.Priority),
	}
}

type FailureResp struct {
	Part  PartResp `json:"part"`
	Error string   `json:"error"`
}

type CommitResponse struct {
	Preview PreviewResponse     `json:"preview"`
	Created []activity.Response `json:"created"`
	Failed   []FailureResp       `json:"failed"`
	Partial  bool                `json:"partial"`
	Warnings []string            `json:"warnings,omitempty"`
}

func NewCommitResponse(r *contract.CommitResult) CommitResponse {
	out := CommitResponse{
		Preview:  NewPreviewResponse(r.Preview),
		Created:  make([]activity.Response, 0, len(r.Created)),
		Failed:   make([]FailureResp, 0, len(r.Failed)),
		Partial:  r.Partial(),
		Warnings: r.Warnings,
	}
	for _, a := range r.Created {
		out.Created = append(out.Created, activity.NewResponse(a))
	}
	for _, f := range r.Failed {
		out.Failed = append(out.Failed, FailureResp{Part: newPartResp(f.Part), Error: f.Error})
	}
	return out
}
