package invoice

import (
	"github.com/JohnAlex1900/Smart-Invoice/internal/invoice/repository"
	"github.com/JohnAlex1900/Smart-Invoice/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
