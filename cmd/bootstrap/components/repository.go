package components

import (
	"meetslot/internal/infra/repository"
	"meetslot/internal/infra/uow"
	"meetslot/internal/usecase"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repository.NewEventTypeRepository,
			fx.As(new(usecase.EventTypeReadStore)),
		),
		fx.Annotate(
			repository.NewAvailabilityRepository,
			fx.As(new(usecase.AvailabilityReadStore), new(usecase.AvailabilityRepository)),
		),
		fx.Annotate(
			repository.NewBookingRepository,
			fx.As(new(usecase.BookingReadStore)),
		),
		uow.NewPgBookingStore,
	),
)
