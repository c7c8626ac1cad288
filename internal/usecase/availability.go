package usecase

import (
	"context"

	"meetslot/internal/domain/availability"
	"meetslot/internal/pkg/errs"

	"github.com/google/uuid"
)

type WeeklyRuleInput struct {
	Weekday   int
	StartTime string
	EndTime   string
	Available bool
}

// OverrideInput describes one override entry for a date. StartTime/EndTime
// may both be empty on a blocking entry, which blocks the whole day.
type OverrideInput struct {
	StartTime string
	EndTime   string
	Available bool
}

type AvailabilityUseCase interface {
	GetWeeklyRules(ctx context.Context, hostID uuid.UUID) ([]availability.WeeklyRule, error)
	ReplaceWeeklyRules(ctx context.Context, hostID uuid.UUID, inputs []WeeklyRuleInput) error
	GetOverrides(ctx context.Context, hostID uuid.UUID, from, to string) ([]availability.DateOverride, error)
	ReplaceOverridesForDate(ctx context.Context, hostID uuid.UUID, date string, inputs []OverrideInput) error
}

type availabilityUseCaseImpl struct {
	reads AvailabilityReadStore
	repo  AvailabilityRepository
}

func NewAvailabilityUseCase(reads AvailabilityReadStore, repo AvailabilityRepository) AvailabilityUseCase {
	return &availabilityUseCaseImpl{reads: reads, repo: repo}
}

func (u *availabilityUseCaseImpl) GetWeeklyRules(ctx context.Context, hostID uuid.UUID) ([]availability.WeeklyRule, error) {
	rules, err := u.reads.WeeklyRules(ctx, hostID)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to load weekly rules"), ErrDatabaseOperationFailed)
	}
	return rules, nil
}

func (u *availabilityUseCaseImpl) ReplaceWeeklyRules(ctx context.Context, hostID uuid.UUID, inputs []WeeklyRuleInput) error {
	rules := make([]availability.WeeklyRule, 0, len(inputs))
	for _, in := range inputs {
		window, err := parseWindow(in.StartTime, in.EndTime)
		if err != nil {
			return errs.Mark(err, ErrDomainValidationFailed)
		}
		rule, err := availability.NewWeeklyRule(hostID, in.Weekday, window, in.Available)
		if err != nil {
			return errs.Mark(err, ErrDomainValidationFailed)
		}
		rules = append(rules, rule)
	}
	if err := u.repo.ReplaceWeeklyRules(ctx, hostID, rules); err != nil {
		return errs.Mark(errs.Wrap(err, "failed to replace weekly rules"), ErrDatabaseOperationFailed)
	}
	return nil
}

func (u *availabilityUseCaseImpl) GetOverrides(ctx context.Context, hostID uuid.UUID, from, to string) ([]availability.DateOverride, error) {
	fromDate, err := availability.ParseDate(from)
	if err != nil {
		return nil, ErrInvalidDate
	}
	toDate, err := availability.ParseDate(to)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if toDate.Before(fromDate) {
		return nil, ErrInvalidDate
	}
	overrides, err := u.reads.OverridesInRange(ctx, hostID, fromDate, toDate)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to load overrides"), ErrDatabaseOperationFailed)
	}
	return overrides, nil
}

func (u *availabilityUseCaseImpl) ReplaceOverridesForDate(ctx context.Context, hostID uuid.UUID, date string, inputs []OverrideInput) error {
	day, err := availability.ParseDate(date)
	if err != nil {
		return ErrInvalidDate
	}
	overrides := make([]availability.DateOverride, 0, len(inputs))
	for _, in := range inputs {
		var window *availability.Window
		if in.StartTime != "" || in.EndTime != "" {
			w, err := parseWindow(in.StartTime, in.EndTime)
			if err != nil {
				return errs.Mark(err, ErrDomainValidationFailed)
			}
			window = &w
		}
		o, err := availability.NewDateOverride(hostID, day, window, in.Available)
		if err != nil {
			return errs.Mark(err, ErrDomainValidationFailed)
		}
		overrides = append(overrides, o)
	}
	if err := u.repo.ReplaceOverridesForDate(ctx, hostID, day, overrides); err != nil {
		return errs.Mark(errs.Wrap(err, "failed to replace overrides"), ErrDatabaseOperationFailed)
	}
	return nil
}

func parseWindow(start, end string) (availability.Window, error) {
	s, err := availability.ParseMinuteOfDay(start)
	if err != nil {
		return availability.Window{}, err
	}
	e, err := availability.ParseMinuteOfDay(end)
	if err != nil {
		return availability.Window{}, err
	}
	return availability.NewWindow(s, e)
}
