package commands_test

import (
	"testing"
	"time"

	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/model/outbox"
	"logistics/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func acceptedOrderAggregate(t *testing.T, contactID string, collaboratorID kernel.UUID) *order.Order {
	t.Helper()
	o := pendingOrderAggregate(t, contactID)
	require.NoError(t, o.Accept(collaboratorID, nil, time.Now().Add(-30*time.Minute)))
	return o
}

func TestNewTransitionOrderCommand(t *testing.T) {
	t.Run("should normalize raw status input", func(t *testing.T) {
		cmd, err := commands.NewTransitionOrderCommand("ORD-1001", "En camino a entregar", "")

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, order.EnRouteToDeliver, cmd.NextStatus())
	})

	t.Run("should fail with unrecognizable status", func(t *testing.T) {
		_, err := commands.NewTransitionOrderCommand("ORD-1001", "whatever", "")

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("should fail with empty order reference", func(t *testing.T) {
		_, err := commands.NewTransitionOrderCommand("", "accepted", "")

		require.Error(t, err)
	})
}

func TestTransitionOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	collaboratorID := kernel.NewUUID()
	aggregate := acceptedOrderAggregate(t, "contact-7", collaboratorID)
	cmd, _ := commands.NewTransitionOrderCommand("ORD-1001", "en_route_to_pickup", "left the depot")

	orders := new(MockOrderRepository)
	entries := new(MockOutboxRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("ResolveCanonicalID", mock.Anything, "ORD-1001").Return(aggregate.ID(), nil).Once(),
		orders.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		orders.On("UpdateIf", mock.Anything, aggregate, order.Accepted).Return(nil).Once(),
		uow.On("OutboxRepository").Return(entries).Once(),
		entries.On("Enqueue", mock.Anything, mock.MatchedBy(func(es []*outbox.Entry) bool {
			return len(es) == 2 &&
				es[0].Target().Kind() == outbox.TargetContact &&
				es[1].Target().Kind() == outbox.TargetUser &&
				es[0].NewStatus() == order.EnRouteToPickup
		})).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewTransitionOrderCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.EnRouteToPickup, aggregate.Status())
	orders.AssertExpectations(t)
	entries.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_InvalidTransitionWritesNothing(t *testing.T) {
	ctx := t.Context()
	collaboratorID := kernel.NewUUID()
	aggregate := acceptedOrderAggregate(t, "contact-7", collaboratorID)
	cmd, _ := commands.NewTransitionOrderCommand("ORD-1001", "completed", "")

	orders := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("ResolveCanonicalID", mock.Anything, "ORD-1001").Return(aggregate.ID(), nil).Once(),
		orders.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewTransitionOrderCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, order.ErrInvalidTransition)
	assert.Equal(t, order.Accepted, aggregate.Status())
	orders.AssertNotCalled(t, "UpdateIf", mock.Anything, mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestTransitionOrderCommandHandler_Handle_MissingEvidenceBlocksCompletion(t *testing.T) {
	ctx := t.Context()
	collaboratorID := kernel.NewUUID()
	aggregate := acceptedOrderAggregate(t, "", collaboratorID)
	at := time.Now().Add(-20 * time.Minute)
	require.NoError(t, aggregate.TransitionTo(order.EnRouteToPickup, "", at))
	require.NoError(t, aggregate.TransitionTo(order.Loading, "", at.Add(time.Minute)))
	require.NoError(t, aggregate.TransitionTo(order.EnRouteToDeliver, "", at.Add(2*time.Minute)))
	cmd, _ := commands.NewTransitionOrderCommand("ORD-1001", "entregado", "")

	orders := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("ResolveCanonicalID", mock.Anything, "ORD-1001").Return(aggregate.ID(), nil).Once(),
		orders.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewTransitionOrderCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, order.ErrMissingEvidence)
	assert.Equal(t, order.EnRouteToDeliver, aggregate.Status())
}

func TestTransitionOrderCommandHandler_Handle_ConcurrencyConflict(t *testing.T) {
	ctx := t.Context()
	collaboratorID := kernel.NewUUID()
	aggregate := acceptedOrderAggregate(t, "", collaboratorID)
	cmd, _ := commands.NewTransitionOrderCommand("ORD-1001", "en_route_to_pickup", "")

	orders := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("ResolveCanonicalID", mock.Anything, "ORD-1001").Return(aggregate.ID(), nil).Once(),
		orders.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		orders.On("UpdateIf", mock.Anything, aggregate, order.Accepted).
			Return(ports.ErrConcurrencyConflict).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewTransitionOrderCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrConcurrencyConflict)
	uow.AssertNotCalled(t, "Commit", ctx)
}
