package tierlimit

import (
	"github.com/Achorval/Voouch-Api-sub001/internal/tierlimit/repository"
	"github.com/Achorval/Voouch-Api-sub001/internal/tierlimit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tierlimit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
