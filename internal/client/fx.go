package client

import (
	"github.com/JohnAlex1900/Smart-Invoice/internal/client/repository"
	"github.com/JohnAlex1900/Smart-Invoice/internal/client/service"
	"go.uber.org/fx"
)

var Module = fx.Module("client.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
