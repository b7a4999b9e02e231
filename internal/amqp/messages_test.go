package amqp

import (
	"testing"

	"patrimonio/internal/records"
)

func TestRecordChangeMessageRoundTrip(t *testing.T) {
	msg := NewRecordChangeMessage(records.KindCost, 42, "2025-10", OpUpdated)

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := RecordChangeMessageFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Kind != records.KindCost || got.ID != 42 || got.Period != "2025-10" || got.Op != OpUpdated {
		t.Fatalf("got %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Fatal("timestamp not set")
	}
}

func TestRecordChangeMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := RecordChangeMessageFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error")
	}
}
