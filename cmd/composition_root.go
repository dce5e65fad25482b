package cmd

import (
	"log/slog"
	"os"

	"logistics/internal/adapters/out/email"
	"logistics/internal/adapters/out/postgres"
	"logistics/internal/adapters/out/postgres/collaboratorrepo"
	"logistics/internal/adapters/out/postgres/outboxrepo"
	"logistics/internal/adapters/out/postgres/subscriptionrepo"
	"logistics/internal/adapters/out/push"
	"logistics/internal/core/application/services"
	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/application/usecases/queries"
	"logistics/internal/core/domain/model/outbox"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}
}

func (c *CompositionRoot) Logger() *slog.Logger {
	return c.logger
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateAcceptOrderCommandHandler() commands.AcceptOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAcceptOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewTransitionOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateCancelActiveJobCommandHandler() commands.CancelActiveJobCommandHandler {
	return commands.NewCancelActiveJobCommandHandler(c.CreateTransitionOrderCommandHandler())
}

func (c *CompositionRoot) CreateSetOrderAmountCommandHandler() commands.SetOrderAmountCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSetOrderAmountCommandHandler(f)
}

func (c *CompositionRoot) CreateRegisterSubscriptionCommandHandler() commands.RegisterSubscriptionCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterSubscriptionCommandHandler(f)
}

func (c *CompositionRoot) CreateProcessOutboxCommandHandler() commands.ProcessOutboxCommandHandler {
	outboxRepo := outboxrepo.NewGormOutboxRepository(c.gormDB)

	dispatcher := services.NewNotificationDispatcher(
		subscriptionrepo.NewGormSubscriptionRepository(c.gormDB),
		collaboratorrepo.NewGormCollaboratorDirectory(c.gormDB),
		push.NewGateway(c.config.PushRelayURL, c.config.PushRelayKey),
		email.NewGateway(c.config.EmailAPIURL, c.config.EmailAPIKey, c.config.EmailFrom),
		c.logger,
	)

	return commands.NewProcessOutboxCommandHandler(
		outboxRepo,
		dispatcher,
		outboxRepo,
		outbox.DefaultRetryPolicy(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetAllowedStatusesQueryHandler() queries.GetAllowedStatusesQueryHandler {
	return queries.NewGetAllowedStatusesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetUndeliveredOrdersQueryHandler() queries.GetUndeliveredOrdersQueryHandler {
	return queries.NewGetUndeliveredOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOutboxBacklogQueryHandler() queries.GetOutboxBacklogQueryHandler {
	return queries.NewGetOutboxBacklogQueryHandler(c.gormDB)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
