package repository

import (
	"context"

	"meetslot/internal/infra"
	"meetslot/internal/usecase"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventTypeRepository struct {
	db DBTX
}

func NewEventTypeRepository(pool *pgxpool.Pool) *EventTypeRepository {
	return &EventTypeRepository{db: pool}
}

const findEventTypeByHandleSQL = `
SELECT e.id, e.user_id, e.name, e.slug,
       e.duration_minutes, e.buffer_before_min, e.buffer_after_min,
       e.max_bookings_per_day, e.location_type, e.is_active,
       u.username, u.display_name, u.timezone
FROM event_types e
JOIN users u ON u.id = e.user_id
WHERE u.username = $1 AND e.slug = $2`

func (r *EventTypeRepository) FindByHandle(ctx context.Context, username, slug string) (*usecase.EventTypeWithHost, error) {
	var out usecase.EventTypeWithHost
	err := r.db.QueryRow(ctx, findEventTypeByHandleSQL, username, slug).Scan(
		&out.EventType.ID,
		&out.EventType.HostID,
		&out.EventType.Name,
		&out.EventType.Slug,
		&out.EventType.DurationMin,
		&out.EventType.BufferBeforeMin,
		&out.EventType.BufferAfterMin,
		&out.EventType.MaxBookingsPerDay,
		&out.EventType.LocationType,
		&out.EventType.Active,
		&out.HostUsername,
		&out.HostName,
		&out.HostTimezone,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "event type not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find event type", err)
	}
	return &out, nil
}
