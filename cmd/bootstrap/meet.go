package bootstrap

import (
	"meetslot/internal/infra/meeting"
	"meetslot/internal/pkg/config"
	"meetslot/internal/usecase"

	"go.uber.org/fx"
)

var MeetModule = fx.Module("meet",
	fx.Provide(
		func(cfg config.Config) usecase.MeetingScheduler {
			return meeting.NewScheduler(cfg.Meet)
		},
	),
)
