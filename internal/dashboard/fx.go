package dashboard

import (
	"github.com/JohnAlex1900/Smart-Invoice/internal/dashboard/repository"
	"github.com/JohnAlex1900/Smart-Invoice/internal/dashboard/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dashboard.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
