package types

import (
	"encoding/json"
	"time"

	"github.com/educart-ph/educart-backend/pkg/enums"
)

// Envelope is the normalized analytics view of one domain event.
type Envelope struct {
	EventID       string
	EventType     enums.OutboxEventType
	AggregateType enums.OutboxAggregateType
	AggregateID   string
	OccurredAt    time.Time
	Payload       json.RawMessage
}
