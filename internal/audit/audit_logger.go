package audit

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	SeverityInfo = "INFO"
	SeverityHigh = "HIGH"
)

// Event types emitted by the settlement engines
const (
	EventDepositInitiated = "DEPOSIT_INITIATED"
	EventDepositSettled   = "DEPOSIT_SETTLED"
	EventDepositFailed    = "DEPOSIT_FAILED"
	EventManualCredit     = "MANUAL_CREDIT"
	EventOrderPlaced      = "ORDER_PLACED"
	EventOrderCompleted   = "ORDER_COMPLETED"
	EventOrderRefunded    = "ORDER_REFUNDED"
	EventWebhookReceived  = "WEBHOOK_RECEIVED"
	EventSecurity         = "SECURITY"
	EventError            = "ERROR"
)

// EventsKey is the Redis list settlement events are mirrored to
const EventsKey = "settlement_events"

type AuditEvent struct {
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	Severity  string    `json:"severity"`
	Reference string    `json:"reference"`
	AccountID string    `json:"account_id,omitempty"`
	Amount    string    `json:"amount,omitempty"`
	Status    string    `json:"status,omitempty"`
	Details   any       `json:"details,omitempty"`
}

// Emitter receives structured settlement events
type Emitter interface {
	Emit(ctx context.Context, event AuditEvent)
}

// AuditLogger writes events as JSON log lines and, when a Redis client is
// configured, pushes them onto EventsKey for downstream consumers.
type AuditLogger struct {
	redis *redis.Client
}

func NewAuditLogger(redisClient *redis.Client) *AuditLogger {
	return &AuditLogger{redis: redisClient}
}

func (a *AuditLogger) Emit(ctx context.Context, event AuditEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Severity == "" {
		event.Severity = SeverityInfo
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[AUDIT] Failed to encode event %s: %v", event.EventType, err)
		return
	}

	if event.Severity == SeverityHigh {
		log.Printf("AUDIT ALERT: %s", string(data))
	} else {
		log.Printf("AUDIT: %s", string(data))
	}

	if a.redis == nil {
		return
	}
	if err := a.redis.RPush(ctx, EventsKey, string(data)).Err(); err != nil {
		log.Printf("[AUDIT] Failed to publish event %s for %s: %v", event.EventType, event.Reference, err)
	}
}

// SecurityEvent builds a HIGH severity event for a rejected or suspicious
// settlement attempt
func SecurityEvent(reference, accountID, reason string, details map[string]string) AuditEvent {
	if details == nil {
		details = map[string]string{}
	}
	details["reason"] = reason
	return AuditEvent{
		EventType: EventSecurity,
		Severity:  SeverityHigh,
		Reference: reference,
		AccountID: accountID,
		Status:    "REJECTED",
		Details:   details,
	}
}

func ErrorEvent(reference, accountID string, err error) AuditEvent {
	return AuditEvent{
		EventType: EventError,
		Reference: reference,
		AccountID: accountID,
		Status:    "FAILED",
		Details:   map[string]string{"error": err.Error()},
	}
}
