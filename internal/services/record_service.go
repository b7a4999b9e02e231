package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"patrimonio/internal/amqp"
	"patrimonio/internal/cache"
	"patrimonio/internal/core"
	applog "patrimonio/internal/log"
	"patrimonio/internal/records"
)

// ErrMissingID is returned when an update names no record.
var ErrMissingID = errors.New("missing record id")

// RecordService orchestrates record writes: primary store first, then the
// in-memory mirror, the AMQP change feed, and dashboard cache invalidation.
// Mirror and feed failures never fail the request; the store is the source
// of truth and the mirror re-warms on the next successful dashboard fetch.
type RecordService struct {
	store      records.Store
	mirror     records.Store
	amqpClient *amqp.Client
	cache      *cache.DashboardCache[DashboardPayload]
	audit      *applog.StructuredLogger
}

func NewRecordService(store records.Store, mirror records.Store, amqpClient *amqp.Client, c *cache.DashboardCache[DashboardPayload]) *RecordService {
	return &RecordService{
		store:      store,
		mirror:     mirror,
		amqpClient: amqpClient,
		cache:      c,
		audit:      applog.NewStructuredLogger(applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentRecords)),
	}
}

func (s *RecordService) CreateIncome(ctx context.Context, in core.Income) (core.Income, error) {
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}
	id, err := s.store.CreateIncome(ctx, in)
	if err != nil {
		return core.Income{}, fmt.Errorf("create income: %w", err)
	}
	in.ID = id
	s.mirrorWrite(ctx, records.KindIncome, func(m records.Store) error {
		return m.UpdateIncome(ctx, in)
	})
	s.afterWrite(ctx, records.KindIncome, in.ID, in.Period, amqp.OpCreated)
	return in, nil
}

func (s *RecordService) UpdateIncome(ctx context.Context, in core.Income) error {
	if in.ID <= 0 {
		return ErrMissingID
	}
	if err := in.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateIncome(ctx, in); err != nil {
		return fmt.Errorf("update income: %w", err)
	}
	s.mirrorWrite(ctx, records.KindIncome, func(m records.Store) error {
		return m.UpdateIncome(ctx, in)
	})
	s.afterWrite(ctx, records.KindIncome, in.ID, in.Period, amqp.OpUpdated)
	return nil
}

func (s *RecordService) DeleteIncome(ctx context.Context, id int64, period core.Period) error {
	if err := s.store.DeleteIncome(ctx, id, period); err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	s.mirrorWrite(ctx, records.KindIncome, func(m records.Store) error {
		return m.DeleteIncome(ctx, id, period)
	})
	s.afterWrite(ctx, records.KindIncome, id, period, amqp.OpDeleted)
	return nil
}

func (s *RecordService) CreateCost(ctx context.Context, c core.Cost) (core.Cost, error) {
	if err := c.Validate(); err != nil {
		return core.Cost{}, err
	}
	id, err := s.store.CreateCost(ctx, c)
	if err != nil {
		return core.Cost{}, fmt.Errorf("create cost: %w", err)
	}
	c.ID = id
	s.mirrorWrite(ctx, records.KindCost, func(m records.Store) error {
		return m.UpdateCost(ctx, c)
	})
	s.afterWrite(ctx, records.KindCost, c.ID, c.Period, amqp.OpCreated)
	return c, nil
}

func (s *RecordService) UpdateCost(ctx context.Context, c core.Cost) error {
	if c.ID <= 0 {
		return ErrMissingID
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateCost(ctx, c); err != nil {
		return fmt.Errorf("update cost: %w", err)
	}
	s.mirrorWrite(ctx, records.KindCost, func(m records.Store) error {
		return m.UpdateCost(ctx, c)
	})
	s.afterWrite(ctx, records.KindCost, c.ID, c.Period, amqp.OpUpdated)
	return nil
}

func (s *RecordService) DeleteCost(ctx context.Context, id int64, period core.Period) error {
	if err := s.store.DeleteCost(ctx, id, period); err != nil {
		return fmt.Errorf("delete cost: %w", err)
	}
	s.mirrorWrite(ctx, records.KindCost, func(m records.Store) error {
		return m.DeleteCost(ctx, id, period)
	})
	s.afterWrite(ctx, records.KindCost, id, period, amqp.OpDeleted)
	return nil
}

func (s *RecordService) CreateInvestment(ctx context.Context, inv core.Investment) (core.Investment, error) {
	if err := inv.Validate(); err != nil {
		return core.Investment{}, err
	}
	id, err := s.store.CreateInvestment(ctx, inv)
	if err != nil {
		return core.Investment{}, fmt.Errorf("create investment: %w", err)
	}
	inv.ID = id
	s.mirrorWrite(ctx, records.KindInvestment, func(m records.Store) error {
		return m.UpdateInvestment(ctx, inv)
	})
	s.afterWrite(ctx, records.KindInvestment, inv.ID, inv.Period, amqp.OpCreated)
	return inv, nil
}

func (s *RecordService) UpdateInvestment(ctx context.Context, inv core.Investment) error {
	if inv.ID <= 0 {
		return ErrMissingID
	}
	if err := inv.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateInvestment(ctx, inv); err != nil {
		return fmt.Errorf("update investment: %w", err)
	}
	s.mirrorWrite(ctx, records.KindInvestment, func(m records.Store) error {
		return m.UpdateInvestment(ctx, inv)
	})
	s.afterWrite(ctx, records.KindInvestment, inv.ID, inv.Period, amqp.OpUpdated)
	return nil
}

func (s *RecordService) DeleteInvestment(ctx context.Context, id int64, period core.Period) error {
	if err := s.store.DeleteInvestment(ctx, id, period); err != nil {
		return fmt.Errorf("delete investment: %w", err)
	}
	s.mirrorWrite(ctx, records.KindInvestment, func(m records.Store) error {
		return m.DeleteInvestment(ctx, id, period)
	})
	s.afterWrite(ctx, records.KindInvestment, id, period, amqp.OpDeleted)
	return nil
}

func (s *RecordService) CreateAsset(ctx context.Context, a core.Asset) (core.Asset, error) {
	if err := a.Validate(); err != nil {
		return core.Asset{}, err
	}
	id, err := s.store.CreateAsset(ctx, a)
	if err != nil {
		return core.Asset{}, fmt.Errorf("create asset: %w", err)
	}
	a.ID = id
	s.mirrorWrite(ctx, records.KindAsset, func(m records.Store) error {
		return m.UpdateAsset(ctx, a)
	})
	s.afterWrite(ctx, records.KindAsset, a.ID, a.Period, amqp.OpCreated)
	return a, nil
}

func (s *RecordService) UpdateAsset(ctx context.Context, a core.Asset) error {
	if a.ID <= 0 {
		return ErrMissingID
	}
	if err := a.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateAsset(ctx, a); err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	s.mirrorWrite(ctx, records.KindAsset, func(m records.Store) error {
		return m.UpdateAsset(ctx, a)
	})
	s.afterWrite(ctx, records.KindAsset, a.ID, a.Period, amqp.OpUpdated)
	return nil
}

func (s *RecordService) DeleteAsset(ctx context.Context, id int64, period core.Period) error {
	if err := s.store.DeleteAsset(ctx, id, period); err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	s.mirrorWrite(ctx, records.KindAsset, func(m records.Store) error {
		return m.DeleteAsset(ctx, id, period)
	})
	s.afterWrite(ctx, records.KindAsset, id, period, amqp.OpDeleted)
	return nil
}

func (s *RecordService) CreateLiability(ctx context.Context, l core.Liability) (core.Liability, error) {
	if err := l.Validate(); err != nil {
		return core.Liability{}, err
	}
	id, err := s.store.CreateLiability(ctx, l)
	if err != nil {
		return core.Liability{}, fmt.Errorf("create liability: %w", err)
	}
	l.ID = id
	s.mirrorWrite(ctx, records.KindLiability, func(m records.Store) error {
		return m.UpdateLiability(ctx, l)
	})
	s.afterWrite(ctx, records.KindLiability, l.ID, l.Period, amqp.OpCreated)
	return l, nil
}

func (s *RecordService) UpdateLiability(ctx context.Context, l core.Liability) error {
	if l.ID <= 0 {
		return ErrMissingID
	}
	if err := l.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateLiability(ctx, l); err != nil {
		return fmt.Errorf("update liability: %w", err)
	}
	s.mirrorWrite(ctx, records.KindLiability, func(m records.Store) error {
		return m.UpdateLiability(ctx, l)
	})
	s.afterWrite(ctx, records.KindLiability, l.ID, l.Period, amqp.OpUpdated)
	return nil
}

func (s *RecordService) DeleteLiability(ctx context.Context, id int64, period core.Period) error {
	if err := s.store.DeleteLiability(ctx, id, period); err != nil {
		return fmt.Errorf("delete liability: %w", err)
	}
	s.mirrorWrite(ctx, records.KindLiability, func(m records.Store) error {
		return m.DeleteLiability(ctx, id, period)
	})
	s.afterWrite(ctx, records.KindLiability, id, period, amqp.OpDeleted)
	return nil
}

// mirrorWrite applies a write to the mirror, skipping it when the mirror is
// absent or is the primary store itself (memory backend).
func (s *RecordService) mirrorWrite(ctx context.Context, kind records.Kind, apply func(records.Store) error) {
	if s.mirror == nil || s.mirror == s.store {
		return
	}
	if err := apply(s.mirror); err != nil {
		slog.WarnContext(ctx, "Mirror write failed",
			"record_kind", kind.String(), "error", err)
	}
}

// afterWrite publishes the change event and drops cached dashboards for the
// period. Neither step can fail the request.
func (s *RecordService) afterWrite(ctx context.Context, kind records.Kind, id int64, period core.Period, op string) {
	s.audit.LogRecordChange(ctx, op, kind.String(), id, period.String())
	if s.cache != nil {
		s.cache.InvalidatePeriod(period.String())
	}
	if s.amqpClient == nil {
		return
	}
	msg := amqp.NewRecordChangeMessage(kind, id, period, op)
	if err := s.amqpClient.PublishRecordChange(ctx, msg); err != nil {
		s.audit.LogError(ctx, "Failed to publish record change", err, op,
			applog.NewFields().WithRecord(kind.String(), id, period.String()))
	}
}
