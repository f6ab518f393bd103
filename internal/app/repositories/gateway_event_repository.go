package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/pkg/dberrors"
)

// GatewayEventRepository logs verified inbound payment gateway events
type GatewayEventRepository struct {
	store
}

// NewGatewayEventRepository creates a new GatewayEventRepository
func NewGatewayEventRepository(pool *pgxpool.Pool) *GatewayEventRepository {
	return &GatewayEventRepository{store: newStore(pool)}
}

// Record stores an event. It reports false when (provider, event id) was already logged.
func (r *GatewayEventRepository) Record(ctx context.Context, event *models.GatewayEvent) (bool, error) {
	if event.Status == "" {
		event.Status = models.GatewayEventReceived
	}

	sql, args, err := r.sb.Insert("payment_gateway_events").
		Columns("provider", "event_id", "event_type", "external_id", "status", "payload").
		Values(event.Provider, event.EventID, event.EventType, event.ExternalID, event.Status, string(event.Payload)).
		Suffix("ON CONFLICT ON CONSTRAINT payment_gateway_events_provider_event_key DO NOTHING RETURNING id, received_at").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build record event query: %w", err)
	}

	err = r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&event.ID, &event.ReceivedAt)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("error recording gateway event %s: %w", event.EventID, err)
	}
	return true, nil
}

// UpdateStatus stores the processing outcome of an event
func (r *GatewayEventRepository) UpdateStatus(ctx context.Context, provider, eventID string, status models.GatewayEventStatus, purchaseID *int64, errMsg *string) error {
	sql, args, err := r.sb.Update("payment_gateway_events").
		Set("status", status).
		Set("purchase_id", purchaseID).
		Set("error", errMsg).
		Set("processed_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"provider": provider, "event_id": eventID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update event query: %w", err)
	}

	if _, err := r.conn(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error updating gateway event %s: %w", eventID, err)
	}
	return nil
}
