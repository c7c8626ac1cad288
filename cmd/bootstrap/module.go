package bootstrap

import (
	"meetslot/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	MailerModule,
	MeetModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
)
