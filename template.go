package servicedoc

import (
	"context"
	"strings"
	"time"
)

// TemplateItem describes one expected bulletin slot.
type TemplateItem struct {
	ItemName       string   `json:"item_name" yaml:"item_name"`
	ItemAliases    []string `json:"item_aliases" yaml:"item_aliases"`
	DefaultPerson  string   `json:"default_person" yaml:"default_person"`
	StandIndicator bool     `json:"stand_indicator" yaml:"stand_indicator"`

	// Role lists the comma-separated roles responsible for the item.
	// It is carried for clients and ignored by matching.
	Role string `json:"role,omitempty" yaml:"role,omitempty"`
}

// Template is a named, ordered list of template items.
type Template struct {
	ID        string         `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string         `json:"name" yaml:"name"`
	Items     []TemplateItem `json:"items" yaml:"items"`
	CreatedAt time.Time      `json:"createdAt,omitzero" yaml:"-"`
	UpdatedAt time.Time      `json:"updatedAt,omitzero" yaml:"-"`
}

// Validate returns an error if the template contains invalid fields.
// Templates supplied with a parse request are not validated; only stored
// templates are.
func (t *Template) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return Errorf(EINVALID, "template name required")
	}
	for i, item := range t.Items {
		if strings.TrimSpace(item.ItemName) == "" {
			return Errorf(EINVALID, "template item %d: item name required", i+1)
		}
	}
	return nil
}

// Roles returns the distinct role names used by the template, in first-seen order.
func (t *Template) Roles() []string {
	var roles []string
	seen := make(map[string]bool)
	for _, item := range t.Items {
		for _, role := range strings.Split(item.Role, ",") {
			role = strings.TrimSpace(role)
			if role == "" || seen[role] {
				continue
			}
			seen[role] = true
			roles = append(roles, role)
		}
	}
	return roles
}

// BaseTemplate picks the template used for matching: the first whose name
// contains "base", else the first template, else nil.
func BaseTemplate(templates []*Template) *Template {
	for _, t := range templates {
		if t != nil && strings.Contains(strings.ToLower(t.Name), "base") {
			return t
		}
	}
	if len(templates) > 0 {
		return templates[0]
	}
	return nil
}

// TemplateService represents a service for managing stored templates.
type TemplateService interface {
	// CreateTemplate creates a new template.
	// Returns ECONFLICT if a template with the same name exists.
	CreateTemplate(ctx context.Context, template *Template) error

	// FindTemplateByID retrieves a template by ID.
	// Returns ENOTFOUND if template does not exist.
	FindTemplateByID(ctx context.Context, id string) (*Template, error)

	// FindTemplates retrieves templates matching the filter.
	FindTemplates(ctx context.Context, filter TemplateFilter) ([]*Template, error)

	// UpdateTemplate updates an existing template.
	// Returns ENOTFOUND if template does not exist.
	UpdateTemplate(ctx context.Context, id string, upd TemplateUpdate) (*Template, error)

	// DeleteTemplate permanently removes a template.
	// Returns ENOTFOUND if template does not exist.
	DeleteTemplate(ctx context.Context, id string) error
}

// TemplateFilter represents a filter for FindTemplates.
type TemplateFilter struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// TemplateUpdate represents fields that can be updated on a template.
type TemplateUpdate struct {
	Name  *string         `json:"name"`
	Items *[]TemplateItem `json:"items"`
}
