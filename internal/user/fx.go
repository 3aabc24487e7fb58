package user

import (
	"github.com/JohnAlex1900/Smart-Invoice/internal/user/repository"
	"github.com/JohnAlex1900/Smart-Invoice/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
