package bootstrap

import (
	"meetslot/internal/infra/email"
	"meetslot/internal/pkg/config"
	"meetslot/internal/usecase"

	"go.uber.org/fx"
)

var MailerModule = fx.Module("mailer",
	fx.Provide(
		func(cfg config.Config) usecase.Mailer {
			return email.NewMailer(cfg.Mailer)
		},
	),
)
