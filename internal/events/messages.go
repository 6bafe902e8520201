package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/paulobarcelos/runway-compass-sub001/internal/core"
)

// PlanSavedMessage announces that a full plan rewrite completed. Consumers
// re-read the sheet themselves; the message carries only the horizon shape.
type PlanSavedMessage struct {
	MessageID  string    `json:"message_id"`
	Start      string    `json:"start"` // "YYYY-MM"
	MonthCount int       `json:"month_count"`
	Records    int       `json:"records"`
	Timestamp  time.Time `json:"timestamp"`
}

// HorizonChangedMessage announces a horizon resize.
type HorizonChangedMessage struct {
	MessageID  string    `json:"message_id"`
	Start      string    `json:"start"` // "YYYY-MM"
	MonthCount int       `json:"month_count"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewPlanSavedMessage(meta core.HorizonMetadata, records int) *PlanSavedMessage {
	return &PlanSavedMessage{
		MessageID:  uuid.NewString(),
		Start:      core.MonthKey(meta.Start.Year(), meta.Start.Month()),
		MonthCount: meta.MonthCount,
		Records:    records,
		Timestamp:  time.Now(),
	}
}

func NewHorizonChangedMessage(meta core.HorizonMetadata) *HorizonChangedMessage {
	return &HorizonChangedMessage{
		MessageID:  uuid.NewString(),
		Start:      core.MonthKey(meta.Start.Year(), meta.Start.Month()),
		MonthCount: meta.MonthCount,
		Timestamp:  time.Now(),
	}
}

func (m *PlanSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func (m *HorizonChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func PlanSavedMessageFromJSON(data []byte) (*PlanSavedMessage, error) {
	var msg PlanSavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func HorizonChangedMessageFromJSON(data []byte) (*HorizonChangedMessage, error) {
	var msg HorizonChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
