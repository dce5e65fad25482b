package commands_test

import (
	"testing"

	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/model/outbox"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewCancelActiveJobCommand(t *testing.T) {
	t.Run("should create valid command", func(t *testing.T) {
		cmd, err := commands.NewCancelActiveJobCommand("ORD-1001", "customer withdrew")

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, "ORD-1001", cmd.OrderRef())
		assert.Equal(t, "customer withdrew", cmd.Note())
	})

	t.Run("should fail with empty order reference", func(t *testing.T) {
		_, err := commands.NewCancelActiveJobCommand("", "")

		require.Error(t, err)
	})
}

func TestCancelActiveJobCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	collaboratorID := kernel.NewUUID()
	aggregate := acceptedOrderAggregate(t, "contact-7", collaboratorID)
	cmd, _ := commands.NewCancelActiveJobCommand("ORD-1001", "customer withdrew")

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
			return len(es) == 2 && es[0].NewStatus() == order.Cancelled
		})).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCancelActiveJobCommandHandler(commands.NewTransitionOrderCommandHandler(factory))
	err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, aggregate.Status())
	uow.AssertExpectations(t)
}

func TestCancelActiveJobCommandHandler_Handle_TerminalOrder(t *testing.T) {
	ctx := t.Context()
	aggregate := pendingOrderAggregate(t, "")
	require.NoError(t, aggregate.TransitionTo(order.Cancelled, "", aggregate.CreatedAt().Add(1)))
	cmd, _ := commands.NewCancelActiveJobCommand("ORD-1001", "")

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

	h := commands.NewCancelActiveJobCommandHandler(commands.NewTransitionOrderCommandHandler(factory))
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, order.ErrInvalidTransition)
	uow.AssertNotCalled(t, "Commit", ctx)
}
