package ticket

import (
	"github.com/Achorval/Voouch-Api-sub001/internal/ticket/domain"
	"github.com/Achorval/Voouch-Api-sub001/internal/ticket/repository"
	"github.com/Achorval/Voouch-Api-sub001/internal/ticket/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ticket.service",
	fx.Provide(repository.Provide),
	fx.Provide(func() domain.NumberGenerator { return service.NewNumberGenerator() }),
	fx.Provide(service.New),
)
