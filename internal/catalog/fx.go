package catalog

import (
	"github.com/Achorval/Voouch-Api-sub001/internal/catalog/repository"
	"github.com/Achorval/Voouch-Api-sub001/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
