package feeconfig

import (
	"github.com/Achorval/Voouch-Api-sub001/internal/feeconfig/repository"
	"github.com/Achorval/Voouch-Api-sub001/internal/feeconfig/service"
	"go.uber.org/fx"
)

var Module = fx.Module("feeconfig.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
