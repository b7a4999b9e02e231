package memory

import (
	"context"
	"sort"

	"patrimonio/internal/core"
	"patrimonio/internal/records"
)

// TemplateStore implementation. Templates are not mirrored from a primary;
// the memory backend owns them outright, so missing IDs are real errors
// rather than warm-up gaps.

func (m *Mirror) ListTemplates(_ context.Context, kind records.Kind) ([]core.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []core.Template
	for _, t := range m.templates[kind] {
		if t.Active {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Mirror) GetTemplate(_ context.Context, kind records.Kind, id int64) (core.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.templates[kind] {
		if t.ID == id && t.Active {
			return t, nil
		}
	}
	return core.Template{}, records.ErrNotFound
}

func (m *Mirror) CreateTemplate(_ context.Context, kind records.Kind, t core.Template) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t.ID = m.assignID(t.ID)
	t.Active = true
	m.templates[kind] = append(m.templates[kind], t)
	return t.ID, nil
}

func (m *Mirror) UpdateTemplate(_ context.Context, kind records.Kind, t core.Template) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.templates[kind] {
		if existing.ID == t.ID && existing.Active {
			t.Active = true
			m.templates[kind][i] = t
			return nil
		}
	}
	return records.ErrNotFound
}

func (m *Mirror) SoftDeleteTemplate(_ context.Context, kind records.Kind, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.templates[kind] {
		if existing.ID == id && existing.Active {
			m.templates[kind][i].Active = false
			return nil
		}
	}
	return records.ErrNotFound
}
