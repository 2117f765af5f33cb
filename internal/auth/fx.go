package auth

import (
	"github.com/edupay/feereport/internal/auth/repository"
	"github.com/edupay/feereport/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
