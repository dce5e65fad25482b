package queries_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"logistics/internal/adapters/out/postgres/orderrepo"
	"logistics/internal/core/application/usecases/queries"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// noopTracker satisfies the order repository's tracker dependency; query
// tests only need writes to land, not unit-of-work bookkeeping.
type noopTracker struct{}

func (noopTracker) TrackAggregate(id kernel.UUID, aggregate any) {}

// GetAllowedStatusesQueryHandlerTestSuite verifies the allowed-statuses query
// against a real PostgreSQL instance: reference resolution across all three
// aliases and phase-aware transition listing.
type GetAllowedStatusesQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetAllowedStatusesQueryHandler
	orderRepo *orderrepo.GormOrderRepository
}

func (suite *GetAllowedStatusesQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))

	suite.handler = queries.NewGetAllowedStatusesQueryHandler(db)
	suite.orderRepo = orderrepo.NewGormOrderRepository(db, noopTracker{})
}

func (suite *GetAllowedStatusesQueryHandlerTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)
}

func (suite *GetAllowedStatusesQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *GetAllowedStatusesQueryHandlerTestSuite) TestHandle_ResolvesAllReferenceAliases() {
	ctx := context.Background()
	created := suite.createPendingOrder("ORD-1001", 1001)

	refs := map[string]string{
		"uuid":     created.ID().String(),
		"code":     "ORD-1001",
		"sequence": strconv.FormatInt(1001, 10),
	}

	for alias, ref := range refs {
		suite.Run(alias, func() {
			query, err := queries.NewGetAllowedStatusesQuery(ref)
			suite.Require().NoError(err)

			response, err := suite.handler.Handle(ctx, query)

			suite.Require().NoError(err)
			suite.Equal(created.ID().String(), response.OrderID)
			suite.Equal("pending", response.Current)
			suite.ElementsMatch([]string{"accepted", "cancelled"}, response.Allowed)
		})
	}
}

func (suite *GetAllowedStatusesQueryHandlerTestSuite) TestHandle_DelayedOrderOffersItsPhaseTransitions() {
	ctx := context.Background()
	created := suite.createPendingOrder("ORD-1002", 1002)

	now := created.CreatedAt()
	suite.Require().NoError(created.Accept(kernel.NewUUID(), nil, now.Add(time.Minute)))
	suite.Require().NoError(created.TransitionTo(order.EnRouteToPickup, "", now.Add(2*time.Minute)))
	suite.Require().NoError(created.TransitionTo(order.Delay, "traffic jam", now.Add(3*time.Minute)))
	suite.Require().NoError(suite.orderRepo.UpdateIf(ctx, created, order.Pending))

	query, err := queries.NewGetAllowedStatusesQuery("ORD-1002")
	suite.Require().NoError(err)

	response, err := suite.handler.Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Equal("delay", response.Current)
	// Transitions of EnRouteToPickup, the phase under the delay flag.
	suite.ElementsMatch([]string{"loading", "cancelled", "delay"}, response.Allowed)
}

func (suite *GetAllowedStatusesQueryHandlerTestSuite) TestHandle_UnknownReference_ReturnsNotFound() {
	query, err := queries.NewGetAllowedStatusesQuery("ORD-NOPE")
	suite.Require().NoError(err)

	_, err = suite.handler.Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *GetAllowedStatusesQueryHandlerTestSuite) createPendingOrder(code string, sequence int64) *order.Order {
	created, err := order.NewOrder(kernel.NewUUID(), code, sequence, "contact-7",
		time.Now().UTC().Truncate(time.Microsecond))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orderRepo.Add(context.Background(), created))
	return created
}

func TestGetAllowedStatusesQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetAllowedStatusesQueryHandlerTestSuite))
}
