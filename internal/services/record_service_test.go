package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"patrimonio/internal/cache"
	"patrimonio/internal/core"
	"patrimonio/internal/records/memory"
)

func TestRecordService_CreateMirrorsAndInvalidates(t *testing.T) {
	ctx := context.Background()
	period := core.Period("2024-05")
	store := memory.New()
	mirror := memory.New()
	dashCache := cache.NewDashboardCache[DashboardPayload](8, time.Minute)
	dashCache.Set(period.String(), 5.0, DashboardPayload{})

	svc := NewRecordService(store, mirror, nil, dashCache)

	created, err := svc.CreateIncome(ctx, core.Income{
		Name: "Salário", Category: core.SalaryCategory, Amount: 5000,
		Currency: core.BRL, Reliability: core.ReliabilityHigh, Period: period,
	})
	if err != nil {
		t.Fatalf("CreateIncome() error = %v", err)
	}
	if created.ID <= 0 {
		t.Fatalf("CreateIncome() ID = %d, want positive", created.ID)
	}

	mirrored, err := mirror.Incomes(ctx, period)
	if err != nil {
		t.Fatalf("mirror Incomes() error = %v", err)
	}
	if len(mirrored) != 1 || mirrored[0].ID != created.ID {
		t.Errorf("mirror holds %+v, want the created income", mirrored)
	}

	if _, ok := dashCache.Get(period.String(), 5.0); ok {
		t.Error("dashboard cache entry survived a write to its period")
	}
}

func TestRecordService_UpdateRequiresID(t *testing.T) {
	svc := NewRecordService(memory.New(), nil, nil, nil)

	err := svc.UpdateCost(context.Background(), core.Cost{
		Name: "Aluguel", Amount: 2000, Currency: core.BRL, Period: core.Period("2024-05"),
	})
	if !errors.Is(err, ErrMissingID) {
		t.Errorf("UpdateCost() error = %v, want ErrMissingID", err)
	}
}

func TestRecordService_ValidationRejected(t *testing.T) {
	svc := NewRecordService(memory.New(), nil, nil, nil)

	if _, err := svc.CreateCost(context.Background(), core.Cost{
		Name: "", Amount: 10, Currency: core.BRL, Period: core.Period("2024-05"),
	}); !errors.Is(err, core.ErrEmptyName) {
		t.Errorf("CreateCost() error = %v, want ErrEmptyName", err)
	}

	if _, err := svc.CreateIncome(context.Background(), core.Income{
		Name: "X", Amount: 10, Currency: core.Currency("EUR"), Period: core.Period("2024-05"),
	}); !errors.Is(err, core.ErrInvalidCurrency) {
		t.Errorf("CreateIncome() error = %v, want ErrInvalidCurrency", err)
	}
}

func TestRecordService_DeleteScopedByPeriod(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewRecordService(store, nil, nil, nil)

	created, err := svc.CreateLiability(ctx, core.Liability{
		Name: "Financiamento", Value: 10000, Period: core.Period("2024-05"),
	})
	if err != nil {
		t.Fatalf("CreateLiability() error = %v", err)
	}

	// Wrong period: the record must survive.
	if err := svc.DeleteLiability(ctx, created.ID, core.Period("2024-06")); err != nil {
		t.Fatalf("DeleteLiability() error = %v", err)
	}
	left, _ := store.Liabilities(ctx, core.Period("2024-05"))
	if len(left) != 1 {
		t.Fatalf("liability deleted through the wrong period")
	}

	if err := svc.DeleteLiability(ctx, created.ID, core.Period("2024-05")); err != nil {
		t.Fatalf("DeleteLiability() error = %v", err)
	}
	left, _ = store.Liabilities(ctx, core.Period("2024-05"))
	if len(left) != 0 {
		t.Fatalf("liability not deleted in its own period")
	}
}

func TestRecordService_SharedStoreSkipsMirrorWrite(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	// Memory backend: primary and mirror are the same object.
	svc := NewRecordService(store, store, nil, nil)

	created, err := svc.CreateAsset(ctx, core.Asset{
		Name: "Carro", Value: 30000, Period: core.Period("2024-05"),
	})
	if err != nil {
		t.Fatalf("CreateAsset() error = %v", err)
	}

	assets, _ := store.Assets(ctx, core.Period("2024-05"))
	if len(assets) != 1 || assets[0].ID != created.ID {
		t.Errorf("store holds %+v, want exactly the created asset", assets)
	}
}

func TestTemplateService_CRUD(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewTemplateService(store)

	created, err := svc.Create(ctx, "receitas", core.Template{
		Name: "Salário mensal", Category: core.SalaryCategory, Value: 5000,
		Currency: core.BRL, Reliability: core.ReliabilityHigh,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !created.Active || created.ID <= 0 {
		t.Fatalf("Create() = %+v, want active template with ID", created)
	}

	created.Value = 5500
	if err := svc.Update(ctx, "receitas", created); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := svc.Get(ctx, "receitas", created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Value != 5500 {
		t.Errorf("Get() Value = %v, want 5500", got.Value)
	}

	listed, err := svc.List(ctx, "receitas")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("List() returned %d templates, want 1", len(listed))
	}

	if err := svc.Delete(ctx, "receitas", created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	listed, _ = svc.List(ctx, "receitas")
	if len(listed) != 0 {
		t.Errorf("List() after delete returned %d templates, want 0", len(listed))
	}
	if _, err := svc.Get(ctx, "receitas", created.ID); err == nil {
		t.Error("Get() after soft delete returned a template")
	}
}

func TestTemplateService_UpdateMissingID(t *testing.T) {
	svc := NewTemplateService(memory.New())

	err := svc.Update(context.Background(), "custos", core.Template{Name: "Aluguel"})
	if !errors.Is(err, ErrMissingID) {
		t.Errorf("Update() error = %v, want ErrMissingID", err)
	}
}
