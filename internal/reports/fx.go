package reports

import (
	"github.com/edupay/feereport/internal/reports/repository"
	"github.com/edupay/feereport/internal/reports/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reports.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
