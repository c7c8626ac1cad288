package repository

import (
	"context"
	"time"

	"meetslot/internal/domain/availability"
	"meetslot/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AvailabilityRepository struct {
	pool *pgxpool.Pool
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{pool: pool}
}

const listWeeklyRulesSQL = `
SELECT id, user_id, weekday,
       to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'),
       is_available
FROM user_weekly_availability
WHERE user_id = $1
ORDER BY weekday, start_time`

func (r *AvailabilityRepository) WeeklyRules(ctx context.Context, hostID uuid.UUID) ([]availability.WeeklyRule, error) {
	rows, err := r.pool.Query(ctx, listWeeklyRulesSQL, hostID)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list weekly rules", err)
	}
	defer rows.Close()

	var out []availability.WeeklyRule
	for rows.Next() {
		var (
			rule       availability.WeeklyRule
			weekday    int
			start, end string
		)
		if err := rows.Scan(&rule.ID, &rule.HostID, &weekday, &start, &end, &rule.Available); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan weekly rule", err)
		}
		rule.Weekday = time.Weekday(weekday)
		if rule.Window.Start, err = availability.ParseMinuteOfDay(start); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "corrupt weekly rule start time", err)
		}
		if rule.Window.End, err = availability.ParseMinuteOfDay(end); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "corrupt weekly rule end time", err)
		}
		out = append(out, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read weekly rules", err)
	}
	return out, nil
}

const listOverridesSQL = `
SELECT id, user_id, to_char(override_date, 'YYYY-MM-DD'),
       to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'),
       is_available
FROM user_date_overrides
WHERE user_id = $1 AND override_date BETWEEN $2 AND $3
ORDER BY override_date, start_time NULLS FIRST`

func (r *AvailabilityRepository) OverridesInRange(ctx context.Context, hostID uuid.UUID, from, to availability.Date) ([]availability.DateOverride, error) {
	rows, err := r.pool.Query(ctx, listOverridesSQL, hostID, from.String(), to.String())
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list date overrides", err)
	}
	defer rows.Close()

	var out []availability.DateOverride
	for rows.Next() {
		var (
			o          availability.DateOverride
			date       string
			start, end *string
		)
		if err := rows.Scan(&o.ID, &o.HostID, &date, &start, &end, &o.Available); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan date override", err)
		}
		if o.Date, err = availability.ParseDate(date); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "corrupt override date", err)
		}
		if start != nil && end != nil {
			var w availability.Window
			if w.Start, err = availability.ParseMinuteOfDay(*start); err != nil {
				return nil, infra.WrapRepoErr(infra.KindDBFailure, "corrupt override start time", err)
			}
			if w.End, err = availability.ParseMinuteOfDay(*end); err != nil {
				return nil, infra.WrapRepoErr(infra.KindDBFailure, "corrupt override end time", err)
			}
			o.Window = &w
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read date overrides", err)
	}
	return out, nil
}

// ReplaceWeeklyRules swaps the host's whole weekly schedule in one
// transaction, so readers never observe a half-replaced rule set.
func (r *AvailabilityRepository) ReplaceWeeklyRules(ctx context.Context, hostID uuid.UUID, rules []availability.WeeklyRule) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM user_weekly_availability WHERE user_id = $1`, hostID); err != nil {
			return err
		}
		for _, rule := range rules {
			_, err := tx.Exec(ctx, `
INSERT INTO user_weekly_availability (id, user_id, weekday, start_time, end_time, is_available)
VALUES ($1, $2, $3, $4, $5, $6)`,
				rule.ID, hostID, int(rule.Weekday),
				rule.Window.Start.String(), rule.Window.End.String(), rule.Available,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to replace weekly rules", err)
	}
	return nil
}

// ReplaceOverridesForDate swaps the override rows of a single date.
func (r *AvailabilityRepository) ReplaceOverridesForDate(ctx context.Context, hostID uuid.UUID, date availability.Date, overrides []availability.DateOverride) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM user_date_overrides WHERE user_id = $1 AND override_date = $2`,
			hostID, date.String(),
		); err != nil {
			return err
		}
		for _, o := range overrides {
			var start, end *string
			if o.Window != nil {
				s := o.Window.Start.String()
				e := o.Window.End.String()
				start, end = &s, &e
			}
			_, err := tx.Exec(ctx, `
INSERT INTO user_date_overrides (id, user_id, override_date, start_time, end_time, is_available)
VALUES ($1, $2, $3, $4, $5, $6)`,
				o.ID, hostID, date.String(), start, end, o.Available,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to replace date overrides", err)
	}
	return nil
}
