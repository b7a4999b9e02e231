package amqp

import (
	"encoding/json"
	"time"

	"patrimonio/internal/core"
	"patrimonio/internal/records"
)

// Change operations carried on the wire.
const (
	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
)

// RecordChangeMessage announces a mutation of one record. Only the key
// travels; consumers fetch the current row from the store, so stale
// messages resolve to the latest state.
type RecordChangeMessage struct {
	Kind      records.Kind `json:"kind"`
	ID        int64        `json:"id"`
	Period    core.Period  `json:"mes_ano"`
	Op        string       `json:"op"`
	Timestamp time.Time    `json:"timestamp"`
}

func NewRecordChangeMessage(kind records.Kind, id int64, period core.Period, op string) *RecordChangeMessage {
	return &RecordChangeMessage{
		Kind:      kind,
		ID:        id,
		Period:    period,
		Op:        op,
		Timestamp: time.Now(),
	}
}

func (m *RecordChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordChangeMessageFromJSON(data []byte) (*RecordChangeMessage, error) {
	var msg RecordChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
