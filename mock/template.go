package mock

import (
	"context"

	"github.com/fwojciec/servicedoc"
)

var _ servicedoc.TemplateService = (*TemplateService)(nil)

// TemplateService is a mock implementation of servicedoc.TemplateService.
type TemplateService struct {
	CreateTemplateFn   func(ctx context.Context, template *servicedoc.Template) error
	FindTemplateByIDFn func(ctx context.Context, id string) (*servicedoc.Template, error)
	FindTemplatesFn    func(ctx context.Context, filter servicedoc.TemplateFilter) ([]*servicedoc.Template, error)
	UpdateTemplateFn   func(ctx context.Context, id string, upd servicedoc.TemplateUpdate) (*servicedoc.Template, error)
	DeleteTemplateFn   func(ctx context.Context, id string) error
}

func (s *TemplateService) CreateTemplate(ctx context.Context, template *servicedoc.Template) error {
	return s.CreateTemplateFn(ctx, template)
}

func (s *TemplateService) FindTemplateByID(ctx context.Context, id string) (*servicedoc.Template, error) {
	return s.FindTemplateByIDFn(ctx, id)
}

func (s *TemplateService) FindTemplates(ctx context.Context, filter servicedoc.TemplateFilter) ([]*servicedoc.Template, error) {
	return s.FindTemplatesFn(ctx, filter)
}

func (s *TemplateService) UpdateTemplate(ctx context.Context, id string, upd servicedoc.TemplateUpdate) (*servicedoc.Template, error) {
	return s.UpdateTemplateFn(ctx, id, upd)
}

func (s *TemplateService) DeleteTemplate(ctx context.Context, id string) error {
	return s.DeleteTemplateFn(ctx, id)
}

var _ servicedoc.PersonnelService = (*PersonnelService)(nil)

// PersonnelService is a mock implementation of servicedoc.PersonnelService.
type PersonnelService struct {
	RosterFn        func(ctx context.Context) ([]string, error)
	ReplaceRosterFn func(ctx context.Context, names []string) error
}

func (s *PersonnelService) Roster(ctx context.Context) ([]string, error) {
	return s.RosterFn(ctx)
}

func (s *PersonnelService) ReplaceRoster(ctx context.Context, names []string) error {
	return s.ReplaceRosterFn(ctx, names)
}
