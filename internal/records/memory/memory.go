// Package memory keeps record collections per period. New builds the
// lenient mirror the dashboard falls back to when the primary store errors;
// NewStrict builds the store the memory backend uses as its primary, with
// the same not-found semantics as the SQLite repository.
package memory

import (
	"context"
	"sync"

	"patrimonio/internal/core"
	"patrimonio/internal/records"
)

type Mirror struct {
	mu          sync.Mutex
	strict      bool
	nextID      int64
	incomes     map[core.Period][]core.Income
	costs       map[core.Period][]core.Cost
	investments map[core.Period][]core.Investment
	assets      map[core.Period][]core.Asset
	liabilities map[core.Period][]core.Liability
	templates   map[records.Kind][]core.Template
}

// New builds a lenient mirror: updates upsert and deletes are no-ops when
// the (id, period) pair is unknown, since the mirror may simply not have
// seen the record yet.
func New() *Mirror {
	return &Mirror{
		nextID:      1,
		incomes:     make(map[core.Period][]core.Income),
		costs:       make(map[core.Period][]core.Cost),
		investments: make(map[core.Period][]core.Investment),
		assets:      make(map[core.Period][]core.Asset),
		liabilities: make(map[core.Period][]core.Liability),
		templates:   make(map[records.Kind][]core.Template),
	}
}

// NewStrict builds a store with primary-store semantics: updates and
// deletes against a missing (id, period) pair fail with
// records.ErrNotFound, matching the SQLite repository.
func NewStrict() *Mirror {
	m := New()
	m.strict = true
	return m
}

// Ensure interface conformance
var (
	_ records.Store         = (*Mirror)(nil)
	_ records.TemplateStore = (*Mirror)(nil)
)

// Source implementation. Returned slices are copies so callers can't mutate
// mirror state.

func (m *Mirror) Incomes(_ context.Context, period core.Period) ([]core.Income, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Income(nil), m.incomes[period]...), nil
}

func (m *Mirror) Costs(_ context.Context, period core.Period) ([]core.Cost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Cost(nil), m.costs[period]...), nil
}

func (m *Mirror) Investments(_ context.Context, period core.Period) ([]core.Investment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Investment(nil), m.investments[period]...), nil
}

func (m *Mirror) Assets(_ context.Context, period core.Period) ([]core.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Asset(nil), m.assets[period]...), nil
}

func (m *Mirror) Liabilities(_ context.Context, period core.Period) ([]core.Liability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Liability(nil), m.liabilities[period]...), nil
}

// Warm replaces every collection the mirror holds for a period with a fresh
// snapshot from the primary store. Minted IDs stay ahead of mirrored ones.
func (m *Mirror) Warm(period core.Period, c core.Collections) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.incomes[period] = append([]core.Income(nil), c.Incomes...)
	m.costs[period] = append([]core.Cost(nil), c.Costs...)
	m.investments[period] = append([]core.Investment(nil), c.Investments...)
	m.assets[period] = append([]core.Asset(nil), c.Assets...)
	m.liabilities[period] = append([]core.Liability(nil), c.Liabilities...)

	for _, in := range c.Incomes {
		m.bumpID(in.ID)
	}
	for _, co := range c.Costs {
		m.bumpID(co.ID)
	}
	for _, inv := range c.Investments {
		m.bumpID(inv.ID)
	}
	for _, a := range c.Assets {
		m.bumpID(a.ID)
	}
	for _, l := range c.Liabilities {
		m.bumpID(l.ID)
	}
}

// Store implementation. Creates assign their own IDs when the record has
// none, so the same code serves both the mirror and the memory backend.

func (m *Mirror) CreateIncome(_ context.Context, in core.Income) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in.ID = m.assignID(in.ID)
	m.incomes[in.Period], _ = upsert(m.incomes[in.Period], in, func(x core.Income) int64 { return x.ID })
	return in.ID, nil
}

func (m *Mirror) UpdateIncome(_ context.Context, in core.Income) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found bool
	m.incomes[in.Period], found = upsert(m.incomes[in.Period], in, func(x core.Income) int64 { return x.ID })
	return m.writeResult(found)
}

func (m *Mirror) DeleteIncome(_ context.Context, id int64, period core.Period) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found bool
	m.incomes[period], found = remove(m.incomes[period], id, func(x core.Income) int64 { return x.ID })
	return m.writeResult(found)
}

func (m *Mirror) CreateCost(_ context.Context, c core.Cost) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.assignID(c.ID)
	m.costs[c.Period], _ = upsert(m.costs[c.Period], c, func(x core.Cost) int64 { return x.ID })
	return c.ID, nil
}

func (m *Mirror) UpdateCost(_ context.Context, c core.Cost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found bool
	m.costs[c.Period], found = upsert(m.costs[c.Period], c, func(x core.Cost) int64 { return x.ID })
	return m.writeResult(found)
}

func (m *Mirror) DeleteCost(_ context.Context, id int64, period core.Period) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found bool
	m.costs[period], found = remove(m.costs[period], id, func(x core.Cost) int64 { return x.ID })
	return m.writeResult(found)
}

func (m *Mirror) CreateInvestment(_ context.Context, inv core.Investment) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv.ID = m.assignID(inv.ID)
	m.investments[inv.Period], _ = upsert(m.investments[inv.Period], inv, func(x core.Investment) int64 { return x.ID })
	return inv.ID, nil
}

func (m *Mirror) UpdateInvestment(_ context.Context, inv core.Investment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found bool
	m.investments[inv.Period], found = upsert(m.investments[inv.Period], inv, func(x core.Investment) int64 { return x.ID })
	return m.writeResult(found)
}

func (m *Mirror) DeleteInvestment(_ context.Context, id int64, period core.Period) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found bool
	m.investments[period], found = remove(m.investments[period], id, func(x core.Investment) int64 { return x.ID })
	return m.writeResult(found)
}

func (m *Mirror) CreateAsset(_ context.Context, a core.Asset) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.assignID(a.ID)
	m.assets[a.Period], _ = upsert(m.assets[a.Period], a, func(x core.Asset) int64 { return x.ID })
	return a.ID, nil
}

func (m *Mirror) UpdateAsset(_ context.Context, a core.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found bool
	m.assets[a.Period], found = upsert(m.assets[a.Period], a, func(x core.Asset) int64 { return x.ID })
	return m.writeResult(found)
}

func (m *Mirror) DeleteAsset(_ context.Context, id int64, period core.Period) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found bool
	m.assets[period], found = remove(m.assets[period], id, func(x core.Asset) int64 { return x.ID })
	return m.writeResult(found)
}

func (m *Mirror) CreateLiability(_ context.Context, l core.Liability) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = m.assignID(l.ID)
	m.liabilities[l.Period], _ = upsert(m.liabilities[l.Period], l, func(x core.Liability) int64 { return x.ID })
	return l.ID, nil
}

func (m *Mirror) UpdateLiability(_ context.Context, l core.Liability) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found bool
	m.liabilities[l.Period], found = upsert(m.liabilities[l.Period], l, func(x core.Liability) int64 { return x.ID })
	return m.writeResult(found)
}

func (m *Mirror) DeleteLiability(_ context.Context, id int64, period core.Period) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found bool
	m.liabilities[period], found = remove(m.liabilities[period], id, func(x core.Liability) int64 { return x.ID })
	return m.writeResult(found)
}

// writeResult maps a missed write onto ErrNotFound in strict mode. The
// lenient mirror swallows misses: an update it never saw becomes an insert
// and a delete of an unknown record is already done.
func (m *Mirror) writeResult(found bool) error {
	if m.strict && !found {
		return records.ErrNotFound
	}
	return nil
}

// assignID keeps mirrored IDs from the primary store and mints new ones
// only for records that arrive without one. nextID stays ahead of any
// mirrored ID so the two never collide.
func (m *Mirror) assignID(id int64) int64 {
	if id > 0 {
		m.bumpID(id)
		return id
	}
	id = m.nextID
	m.nextID++
	return id
}

func (m *Mirror) bumpID(id int64) {
	if id >= m.nextID {
		m.nextID = id + 1
	}
}

func upsert[T any](items []T, item T, idOf func(T) int64) ([]T, bool) {
	id := idOf(item)
	for i := range items {
		if idOf(items[i]) == id {
			items[i] = item
			return items, true
		}
	}
	return append(items, item), false
}

func remove[T any](items []T, id int64, idOf func(T) int64) ([]T, bool) {
	for i := range items {
		if idOf(items[i]) == id {
			return append(items[:i], items[i+1:]...), true
		}
	}
	return items, false
}
