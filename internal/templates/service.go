// Package templates manages named recurring-entry templates: one keystroke
// adds today's salary, rent, or VAT row with its usual amount.
package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bankentry-dev/bankentry/internal/model"
	"github.com/bankentry-dev/bankentry/internal/money"
)

// Template is a named prototype for a recurring transaction.
type Template struct {
	Name     string
	Category string
	Amount   decimal.Decimal
	Verified bool
}

// Draft fills a model draft for the given date. The template name doubles
// as the description.
func (t Template) Draft(date string) model.Draft {
	return model.Draft{
		Date:        date,
		Description: t.Name,
		Category:    t.Category,
		Amount:      money.Format(t.Amount),
		Verified:    t.Verified,
	}
}

// Service provides name lookup over the template set.
type Service struct {
	templates []Template
	byName    map[string]Template
}

// NewService creates a Service from a slice of templates.
func NewService(templates []Template) *Service {
	byName := make(map[string]Template, len(templates))
	for _, t := range templates {
		byName[strings.ToLower(t.Name)] = t
	}
	return &Service{templates: templates, byName: byName}
}

// Load reads templates/recurring.csv from a workspace and returns a
// Service. A missing file yields an empty service.
func Load(workspace string) (*Service, error) {
	path := filepath.Join(workspace, "templates", "recurring.csv")
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewService(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening templates: %w", err)
	}
	defer f.Close()

	tmpls, err := ReadTemplates(f)
	if err != nil {
		return nil, fmt.Errorf("reading templates: %w", err)
	}
	return NewService(tmpls), nil
}

// All returns all templates.
func (s *Service) All() []Template {
	return s.templates
}

// Get returns a template by name, case-insensitively.
func (s *Service) Get(name string) (Template, bool) {
	t, ok := s.byName[strings.ToLower(name)]
	return t, ok
}

// Save writes the templates to <workspace>/templates/recurring.csv.
func (s *Service) Save(workspace string) error {
	dir := filepath.Join(workspace, "templates")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating templates dir: %w", err)
	}

	path := filepath.Join(dir, "recurring.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating templates file: %w", err)
	}
	defer f.Close()

	if err := WriteTemplates(f, s.templates); err != nil {
		return fmt.Errorf("writing templates: %w", err)
	}
	return nil
}
