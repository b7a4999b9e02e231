package services

import (
	"context"
	"fmt"

	"patrimonio/internal/core"
	"patrimonio/internal/records"
)

// TemplateService fronts the template store with validation. Templates never
// touch the mirror or the change feed; they only become dashboard data once
// instantiated into a period as real records.
type TemplateService struct {
	store records.TemplateStore
}

func NewTemplateService(store records.TemplateStore) *TemplateService {
	return &TemplateService{store: store}
}

func (s *TemplateService) List(ctx context.Context, kind records.Kind) ([]core.Template, error) {
	return s.store.ListTemplates(ctx, kind)
}

func (s *TemplateService) Get(ctx context.Context, kind records.Kind, id int64) (core.Template, error) {
	return s.store.GetTemplate(ctx, kind, id)
}

func (s *TemplateService) Create(ctx context.Context, kind records.Kind, t core.Template) (core.Template, error) {
	if err := t.Validate(); err != nil {
		return core.Template{}, err
	}
	id, err := s.store.CreateTemplate(ctx, kind, t)
	if err != nil {
		return core.Template{}, fmt.Errorf("create template: %w", err)
	}
	t.ID = id
	t.Active = true
	return t, nil
}

func (s *TemplateService) Update(ctx context.Context, kind records.Kind, t core.Template) error {
	if t.ID <= 0 {
		return ErrMissingID
	}
	if err := t.Validate(); err != nil {
		return err
	}
	return s.store.UpdateTemplate(ctx, kind, t)
}

func (s *TemplateService) Delete(ctx context.Context, kind records.Kind, id int64) error {
	return s.store.SoftDeleteTemplate(ctx, kind, id)
}
