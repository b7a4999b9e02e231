package worker

import (
	"context"
	"fmt"
	"log/slog"

	"patrimonio/internal/amqp"
	"patrimonio/internal/core"
	"patrimonio/internal/export"
	"patrimonio/internal/records"
)

// RowAppender is the sheet side of the export pipeline.
type RowAppender interface {
	Append(ctx context.Context, row export.Row) (string, error)
}

// ExportWorker consumes record change messages and appends them to the
// export sheet. Messages carry only the record key; the worker reads the
// current row from the store, so replayed or reordered messages resolve to
// the latest state.
type ExportWorker struct {
	source records.Source
	sheets RowAppender
}

func NewExportWorker(source records.Source, sheets RowAppender) *ExportWorker {
	return &ExportWorker{
		source: source,
		sheets: sheets,
	}
}

// HandleRecordChange processes a single change message. Returning an error
// makes the consumer nack and requeue, so only retryable failures (sheet or
// store unavailable) should propagate.
func (w *ExportWorker) HandleRecordChange(ctx context.Context, msg *amqp.RecordChangeMessage) error {
	if !msg.Kind.Valid() {
		slog.WarnContext(ctx, "Dropping change message with unknown kind",
			"record_kind", msg.Kind.String(), "record_id", msg.ID)
		return nil
	}

	slog.InfoContext(ctx, "Processing record change",
		"record_kind", msg.Kind.String(),
		"record_id", msg.ID,
		"period", msg.Period.String(),
		"op", msg.Op)

	row := export.Row{
		Timestamp: msg.Timestamp,
		Op:        msg.Op,
		Kind:      msg.Kind,
		ID:        msg.ID,
		Period:    msg.Period,
	}

	// Deletes export as metadata only; the row no longer exists to look up.
	if msg.Op != amqp.OpDeleted {
		name, value, currency, found, err := w.lookup(ctx, msg.Kind, msg.ID, msg.Period)
		if err != nil {
			return fmt.Errorf("look up %s %d: %w", msg.Kind, msg.ID, err)
		}
		if !found {
			// Deleted between publish and consume. Export what the message
			// carries rather than failing the delivery.
			slog.WarnContext(ctx, "Record vanished before export",
				"record_kind", msg.Kind.String(), "record_id", msg.ID)
		} else {
			row.Name = name
			row.Value = value
			row.Currency = currency
		}
	}

	ref, err := w.sheets.Append(ctx, row)
	if err != nil {
		return fmt.Errorf("append to sheet: %w", err)
	}

	slog.InfoContext(ctx, "Exported record change",
		"record_kind", msg.Kind.String(),
		"record_id", msg.ID,
		"sheets_ref", ref)

	return nil
}

func (w *ExportWorker) lookup(ctx context.Context, kind records.Kind, id int64, period core.Period) (string, float64, core.Currency, bool, error) {
	switch kind {
	case records.KindIncome:
		items, err := w.source.Incomes(ctx, period)
		if err != nil {
			return "", 0, "", false, err
		}
		for _, it := range items {
			if it.ID == id {
				return it.Name, it.Amount, it.Currency, true, nil
			}
		}
	case records.KindCost:
		items, err := w.source.Costs(ctx, period)
		if err != nil {
			return "", 0, "", false, err
		}
		for _, it := range items {
			if it.ID == id {
				return it.Name, it.Amount, it.Currency, true, nil
			}
		}
	case records.KindInvestment:
		items, err := w.source.Investments(ctx, period)
		if err != nil {
			return "", 0, "", false, err
		}
		for _, it := range items {
			if it.ID == id {
				return it.Institution, it.Balance, it.Currency, true, nil
			}
		}
	case records.KindAsset:
		items, err := w.source.Assets(ctx, period)
		if err != nil {
			return "", 0, "", false, err
		}
		for _, it := range items {
			if it.ID == id {
				return it.Name, it.Value, it.Currency, true, nil
			}
		}
	case records.KindLiability:
		items, err := w.source.Liabilities(ctx, period)
		if err != nil {
			return "", 0, "", false, err
		}
		for _, it := range items {
			if it.ID == id {
				return it.Name, it.Value, core.BRL, true, nil
			}
		}
	}
	return "", 0, "", false, nil
}
