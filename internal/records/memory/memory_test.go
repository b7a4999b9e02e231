package memory

import (
	"context"
	"errors"
	"testing"

	"patrimonio/internal/core"
	"patrimonio/internal/records"
)

func TestMirrorCreateAndList(t *testing.T) {
	m := New()
	ctx := context.Background()
	period := core.Period("2025-10")

	id, err := m.CreateIncome(ctx, core.Income{Name: "salário", Amount: 5000, Currency: core.BRL, Period: period})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == 0 {
		t.Fatal("expected assigned id")
	}

	items, err := m.Incomes(ctx, period)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ID != id {
		t.Fatalf("items = %+v", items)
	}

	other, _ := m.Incomes(ctx, core.Period("2025-11"))
	if len(other) != 0 {
		t.Fatalf("period isolation broken: %+v", other)
	}
}

func TestMirrorUpdateReplacesByID(t *testing.T) {
	m := New()
	ctx := context.Background()
	period := core.Period("2025-10")

	id, _ := m.CreateCost(ctx, core.Cost{Name: "mercado", Amount: 100, Currency: core.BRL, Period: period})
	if err := m.UpdateCost(ctx, core.Cost{ID: id, Name: "mercado", Amount: 150, Currency: core.BRL, Period: period}); err != nil {
		t.Fatalf("update: %v", err)
	}

	items, _ := m.Costs(ctx, period)
	if len(items) != 1 || items[0].Amount != 150 {
		t.Fatalf("items = %+v", items)
	}
}

func TestMirrorDelete(t *testing.T) {
	m := New()
	ctx := context.Background()
	period := core.Period("2025-10")

	id, _ := m.CreateLiability(ctx, core.Liability{Name: "cartão", Value: 900, Period: period})
	if err := m.DeleteLiability(ctx, id, period); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items, _ := m.Liabilities(ctx, period)
	if len(items) != 0 {
		t.Fatalf("items = %+v", items)
	}
	// Deleting an absent record is a no-op, matching hard-delete semantics.
	if err := m.DeleteLiability(ctx, 999, period); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestMirrorWarmReplacesSnapshot(t *testing.T) {
	m := New()
	ctx := context.Background()
	period := core.Period("2025-10")

	_, _ = m.CreateAsset(ctx, core.Asset{Name: "velho", Value: 1, Period: period})
	m.Warm(period, core.Collections{
		Assets: []core.Asset{{ID: 7, Name: "carro", Value: 30000, Period: period}},
	})

	assets, _ := m.Assets(ctx, period)
	if len(assets) != 1 || assets[0].ID != 7 {
		t.Fatalf("assets = %+v", assets)
	}

	// IDs minted after warming must not collide with mirrored ones.
	id, _ := m.CreateAsset(ctx, core.Asset{Name: "moto", Value: 15000, Period: period})
	if id <= 7 {
		t.Fatalf("id %d collides with mirrored id", id)
	}
}

func TestMirrorReturnsCopies(t *testing.T) {
	m := New()
	ctx := context.Background()
	period := core.Period("2025-10")

	_, _ = m.CreateInvestment(ctx, core.Investment{Institution: "corretora", Balance: 1000, Currency: core.BRL, Period: period})
	items, _ := m.Investments(ctx, period)
	items[0].Balance = 0

	again, _ := m.Investments(ctx, period)
	if again[0].Balance != 1000 {
		t.Fatal("mirror state was mutated through a returned slice")
	}
}

func TestStrictStoreRejectsUnknownWrites(t *testing.T) {
	m := NewStrict()
	ctx := context.Background()
	period := core.Period("2025-10")

	id, _ := m.CreateCost(ctx, core.Cost{Name: "mercado", Amount: 100, Currency: core.BRL, Period: period})

	if err := m.UpdateCost(ctx, core.Cost{ID: 999, Name: "fantasma", Amount: 1, Currency: core.BRL, Period: period}); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("update unknown id: err = %v, want ErrNotFound", err)
	}
	if err := m.DeleteCost(ctx, id, core.Period("2025-11")); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("delete wrong period: err = %v, want ErrNotFound", err)
	}

	// The miss above must not have touched the stored record.
	items, _ := m.Costs(ctx, period)
	if len(items) != 1 || items[0].Amount != 100 {
		t.Fatalf("items = %+v", items)
	}

	if err := m.DeleteCost(ctx, id, period); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestLenientMirrorKeepsUpsertSemantics(t *testing.T) {
	m := New()
	ctx := context.Background()
	period := core.Period("2025-10")

	// An update the mirror never saw becomes an insert.
	if err := m.UpdateAsset(ctx, core.Asset{ID: 42, Name: "carro", Value: 30000, Period: period}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	items, _ := m.Assets(ctx, period)
	if len(items) != 1 || items[0].ID != 42 {
		t.Fatalf("items = %+v", items)
	}

	// Deleting an unknown record stays a no-op.
	if err := m.DeleteAsset(ctx, 7, period); err != nil {
		t.Fatalf("delete unknown: %v", err)
	}
}
