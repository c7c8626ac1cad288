package components

import (
	"meetslot/internal/pkg/clock"
	"meetslot/internal/pkg/config"
	"meetslot/internal/pkg/slottoken"
	"meetslot/internal/usecase"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		NewSlotTokenSigner,
		NewSlotsUseCase,
		NewBookingsUseCase,
		usecase.NewAvailabilityUseCase,
	),
)

func NewSlotTokenSigner(cfg config.Config) *slottoken.Signer {
	return slottoken.NewSigner(cfg.Scheduling.SlotTokenSecret)
}

func NewSlotsUseCase(
	cfg config.Config,
	events usecase.EventTypeReadStore,
	avail usecase.AvailabilityReadStore,
	bookings usecase.BookingReadStore,
	signer *slottoken.Signer,
	clk clock.Clock,
) usecase.SlotsUseCase {
	return usecase.NewSlotsUseCase(events, avail, bookings, signer, clk, cfg.Scheduling.SlotIntervalOrDefault())
}

func NewBookingsUseCase(
	cfg config.Config,
	events usecase.EventTypeReadStore,
	avail usecase.AvailabilityReadStore,
	reads usecase.BookingReadStore,
	store usecase.BookingStore,
	signer *slottoken.Signer,
	mailer usecase.Mailer,
	meetings usecase.MeetingScheduler,
	clk clock.Clock,
) usecase.BookingsUseCase {
	return usecase.NewBookingsUseCase(
		events, avail, reads, store,
		signer, mailer, meetings, clk,
		cfg.Scheduling.SlotIntervalOrDefault(),
	)
}
