package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/obra/internal/domain"
)

const SchemaVersion = "1"

// Catalog groups reusable activity templates by construction discipline.
type Catalog struct {
	SchemaVersion string       `yaml:"schema_version" json:"schema_version"`
	Disciplines   []Discipline `yaml:"disciplines" json:"disciplines"`
}

type Discipline struct {
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Templates   []Template `yaml:"templates" json:"templates"`
}

// Template is the YAML form of domain.ActivityTemplate.
type Template struct {
	ID             string   `yaml:"id" json:"id"`
	Title          string   `yaml:"title" json:"title"`
	EstimatedHours float64  `yaml:"estimated_hours" json:"estimated_hours"`
	Type           string   `yaml:"type,omitempty" json:"type,omitempty"`
	Priority       string   `yaml:"priority,omitempty" json:"priority,omitempty"`
	Recurrence     string   `yaml:"recurrence,omitempty" json:"recurrence,omitempty"`
	WeeklyDays     []string `yaml:"weekly_days,omitempty" json:"weekly_days,omitempty"`
}

// Load reads and validates the catalog at path. A missing file yields an
// empty catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Catalog{SchemaVersion: SchemaVersion}, nil
		}
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return c, nil
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if c.SchemaVersion == "" {
		c.SchemaVersion = SchemaVersion
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate reports every problem found, not just the first.
func (c *Catalog) Validate() error {
	var errs []error
	if c.SchemaVersion != SchemaVersion {
		errs = append(errs, fmt.Errorf("unsupported schema version: %s", c.SchemaVersion))
	}

	names := make(map[string]bool)
	for _, d := range c.Disciplines {
		key := strings.ToLower(d.Name)
		if d.Name == "" {
			errs = append(errs, fmt.Errorf("discipline name is required"))
		} else if names[key] {
			errs = append(errs, fmt.Errorf("duplicate discipline %q", d.Name))
		}
		names[key] = true

		ids := make(map[string]bool)
		for i, t := range d.Templates {
			where := fmt.Sprintf("%s template %d", d.Name, i+1)
			if t.ID == "" {
				errs = append(errs, fmt.Errorf("%s: id is required", where))
			} else if ids[t.ID] {
				errs = append(errs, fmt.Errorf("%s: duplicate id %q", where, t.ID))
			}
			ids[t.ID] = true
			if _, err := t.toDomain(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", where, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Names returns the discipline names in alphabetical order.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.Disciplines))
	for _, d := range c.Disciplines {
		out = append(out, d.Name)
	}
	sort.Strings(out)
	return out
}

// Discipline looks a discipline up by name, ignoring case.
func (c *Catalog) Discipline(name string) (*Discipline, bool) {
	for i := range c.Disciplines {
		if strings.EqualFold(c.Disciplines[i].Name, name) {
			return &c.Disciplines[i], true
		}
	}
	return nil, false
}

// Templates returns the discipline's templates in file order, which is the
// order they will be distributed in.
func (c *Catalog) Templates(discipline string) ([]domain.ActivityTemplate, error) {
	d, ok := c.Discipline(discipline)
	if !ok {
		return nil, fmt.Errorf("unknown discipline %q (available: %s)", discipline, strings.Join(c.Names(), ", "))
	}
	out := make([]domain.ActivityTemplate, 0, len(d.Templates))
	for _, t := range d.Templates {
		at, err := t.toDomain()
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", t.ID, err)
		}
		out = append(out, at)
	}
	return out, nil
}

func (t Template) toDomain() (domain.ActivityTemplate, error) {
	at := domain.ActivityTemplate{
		ID:             t.ID,
		Title:          t.Title,
		EstimatedHours: t.EstimatedHours,
		Type:           t.Type,
		Priority:       domain.PriorityMedium,
		Recurrence:     domain.RecurrenceNone,
	}
	if t.Title == "" {
		return at, fmt.Errorf("title is required")
	}
	if t.EstimatedHours <= 0 {
		return at, fmt.Errorf("estimated_hours must be positive")
	}
	if t.Type != "" && !domain.ValidActivityTypes[t.Type] {
		return at, fmt.Errorf("unknown type %q", t.Type)
	}
	if t.Priority != "" {
		at.Priority = domain.Priority(t.Priority)
		if !domain.ValidPriorities[at.Priority] {
			return at, fmt.Errorf("unknown priority %q", t.Priority)
		}
	}

	switch strings.ToLower(t.Recurrence) {
	case "", "none":
		if len(t.WeeklyDays) > 0 {
			return at, fmt.Errorf("weekly_days needs recurrence: Weekly")
		}
	case "weekly":
		at.Recurrence = domain.RecurrenceWeekly
		days, err := domain.ParseWeekdays(strings.Join(t.WeeklyDays, ","))
		if err != nil {
			return at, err
		}
		if len(days) == 0 {
			return at, fmt.Errorf("weekly recurrence needs at least one weekday")
		}
		at.WeeklyDays = days
	default:
		return at, fmt.Errorf("unknown recurrence %q", t.Recurrence)
	}
	return at, nil
}
