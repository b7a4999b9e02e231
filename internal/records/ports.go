package records

import (
	"context"
	"errors"

	"patrimonio/internal/core"
)

// ErrNotFound is returned by any store when an (id, period) pair or a
// template ID matches no row.
var ErrNotFound = errors.New("record not found")

// Ports for the record store. The dashboard only needs Source; both the
// SQLite repository and the in-memory mirror satisfy it, which is what lets
// the online and fallback paths share one aggregation core.
type (
	// Source fetches one period's collection per entity kind.
	Source interface {
		Incomes(ctx context.Context, period core.Period) ([]core.Income, error)
		Costs(ctx context.Context, period core.Period) ([]core.Cost, error)
		Investments(ctx context.Context, period core.Period) ([]core.Investment, error)
		Assets(ctx context.Context, period core.Period) ([]core.Asset, error)
		Liabilities(ctx context.Context, period core.Period) ([]core.Liability, error)
	}

	// Store adds the per-kind write operations. Creates return the new
	// record ID; updates and deletes are scoped by (id, period).
	Store interface {
		Source

		CreateIncome(ctx context.Context, in core.Income) (int64, error)
		UpdateIncome(ctx context.Context, in core.Income) error
		DeleteIncome(ctx context.Context, id int64, period core.Period) error

		CreateCost(ctx context.Context, c core.Cost) (int64, error)
		UpdateCost(ctx context.Context, c core.Cost) error
		DeleteCost(ctx context.Context, id int64, period core.Period) error

		CreateInvestment(ctx context.Context, inv core.Investment) (int64, error)
		UpdateInvestment(ctx context.Context, inv core.Investment) error
		DeleteInvestment(ctx context.Context, id int64, period core.Period) error

		CreateAsset(ctx context.Context, a core.Asset) (int64, error)
		UpdateAsset(ctx context.Context, a core.Asset) error
		DeleteAsset(ctx context.Context, id int64, period core.Period) error

		CreateLiability(ctx context.Context, l core.Liability) (int64, error)
		UpdateLiability(ctx context.Context, l core.Liability) error
		DeleteLiability(ctx context.Context, id int64, period core.Period) error
	}

	// TemplateStore manages reusable record templates, one namespace per
	// kind. Deletes are soft: the row survives with its active flag cleared
	// and stops appearing in listings and gets.
	TemplateStore interface {
		ListTemplates(ctx context.Context, kind Kind) ([]core.Template, error)
		GetTemplate(ctx context.Context, kind Kind, id int64) (core.Template, error)
		CreateTemplate(ctx context.Context, kind Kind, t core.Template) (int64, error)
		UpdateTemplate(ctx context.Context, kind Kind, t core.Template) error
		SoftDeleteTemplate(ctx context.Context, kind Kind, id int64) error
	}
)

// Kind names an entity collection on the wire and in change events.
type Kind string

const (
	KindIncome     Kind = "receitas"
	KindCost       Kind = "custos"
	KindInvestment Kind = "investimentos"
	KindAsset      Kind = "ativos"
	KindLiability  Kind = "passivos"
)

// Kinds lists every entity kind in wire order.
var Kinds = []Kind{KindIncome, KindCost, KindInvestment, KindAsset, KindLiability}

// Valid reports whether k names a known entity kind.
func (k Kind) Valid() bool {
	switch k {
	case KindIncome, KindCost, KindInvestment, KindAsset, KindLiability:
		return true
	}
	return false
}

func (k Kind) String() string { return string(k) }
