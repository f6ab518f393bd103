package models

import "time"

// GatewayEventStatus tracks what happened to a received webhook event
type GatewayEventStatus string

const (
	GatewayEventReceived  GatewayEventStatus = "received"
	GatewayEventProcessed GatewayEventStatus = "processed"
	GatewayEventIgnored   GatewayEventStatus = "ignored"
	GatewayEventFailed    GatewayEventStatus = "failed"
)

// GatewayEvent is a verified webhook delivery kept for diagnostics and replay
type GatewayEvent struct {
	ID          int64              `json:"id" db:"id"`
	Provider    string             `json:"provider" db:"provider"`
	EventID     string             `json:"eventId" db:"event_id"`
	EventType   string             `json:"eventType" db:"event_type"`
	ExternalID  *string            `json:"externalId,omitempty" db:"external_id"`
	PurchaseID  *int64             `json:"purchaseId,omitempty" db:"purchase_id"`
	Status      GatewayEventStatus `json:"status" db:"status"`
	Error       *string            `json:"error,omitempty" db:"error"`
	Payload     []byte             `json:"-" db:"payload"`
	ReceivedAt  time.Time          `json:"receivedAt" db:"received_at"`
	ProcessedAt *time.Time         `json:"processedAt,omitempty" db:"processed_at"`
}
