package commands_test

import (
	"errors"
	"testing"
	"time"

	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/model/outbox"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pendingOrderAggregate(t *testing.T, contactID string) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), "ORD-1001", 1001, contactID, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	return o
}

func TestNewAcceptOrderCommand(t *testing.T) {
	t.Run("should create valid command", func(t *testing.T) {
		collaboratorID := kernel.NewUUID()
		price := 120.0

		cmd, err := commands.NewAcceptOrderCommand("ORD-1001", collaboratorID, &price)

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, "ORD-1001", cmd.OrderRef())
		assert.True(t, cmd.CollaboratorID().IsEqual(collaboratorID))
		require.NotNil(t, cmd.Price())
		assert.Equal(t, 120.0, *cmd.Price())
	})

	t.Run("should fail with empty order reference", func(t *testing.T) {
		_, err := commands.NewAcceptOrderCommand("", kernel.NewUUID(), nil)

		require.Error(t, err)
	})

	t.Run("should fail with invalid collaborator UUID", func(t *testing.T) {
		var invalidID kernel.UUID

		_, err := commands.NewAcceptOrderCommand("ORD-1001", invalidID, nil)

		require.Error(t, err)
	})

	t.Run("should fail with non-positive price", func(t *testing.T) {
		price := 0.0

		_, err := commands.NewAcceptOrderCommand("ORD-1001", kernel.NewUUID(), &price)

		require.Error(t, err)
	})
}

func TestAcceptOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	collaboratorID := kernel.NewUUID()
	aggregate := pendingOrderAggregate(t, "contact-7")
	orderID := aggregate.ID()
	cmd, _ := commands.NewAcceptOrderCommand("ORD-1001", collaboratorID, nil)

	orders := new(MockOrderRepository)
	entries := new(MockOutboxRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("ResolveCanonicalID", mock.Anything, "ORD-1001").Return(orderID, nil).Once(),
		orders.On("FindActiveByCollaborator", mock.Anything, collaboratorID).
			Return(nil, errs.NewObjectNotFoundError("collaborator", collaboratorID.String())).Once(),
		orders.On("Get", mock.Anything, orderID).Return(aggregate, nil).Once(),
		orders.On("AcceptPending", mock.Anything, aggregate).Return(nil).Once(),
		uow.On("OutboxRepository").Return(entries).Once(),
		entries.On("Enqueue", mock.Anything, mock.MatchedBy(func(es []*outbox.Entry) bool {
			return len(es) == 2 &&
				es[0].Target().Kind() == outbox.TargetUser &&
				es[0].Target().Value() == collaboratorID.String() &&
				es[1].Target().Kind() == outbox.TargetContact &&
				es[1].Target().Value() == "contact-7"
		})).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAcceptOrderCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.Accepted, aggregate.Status())
	orders.AssertExpectations(t)
	entries.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestAcceptOrderCommandHandler_Handle_WalkInOrderSkipsContactEntry(t *testing.T) {
	ctx := t.Context()
	collaboratorID := kernel.NewUUID()
	aggregate := pendingOrderAggregate(t, "")
	cmd, _ := commands.NewAcceptOrderCommand("ORD-1001", collaboratorID, nil)

	orders := new(MockOrderRepository)
	entries := new(MockOutboxRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("ResolveCanonicalID", mock.Anything, "ORD-1001").Return(aggregate.ID(), nil).Once(),
		orders.On("FindActiveByCollaborator", mock.Anything, collaboratorID).
			Return(nil, errs.NewObjectNotFoundError("collaborator", collaboratorID.String())).Once(),
		orders.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		orders.On("AcceptPending", mock.Anything, aggregate).Return(nil).Once(),
		uow.On("OutboxRepository").Return(entries).Once(),
		entries.On("Enqueue", mock.Anything, mock.MatchedBy(func(es []*outbox.Entry) bool {
			return len(es) == 1 && es[0].Target().Kind() == outbox.TargetUser
		})).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAcceptOrderCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	entries.AssertExpectations(t)
}

func TestAcceptOrderCommandHandler_Handle_CollaboratorBusy(t *testing.T) {
	ctx := t.Context()
	collaboratorID := kernel.NewUUID()
	aggregate := pendingOrderAggregate(t, "")
	active := pendingOrderAggregate(t, "")
	cmd, _ := commands.NewAcceptOrderCommand("ORD-1001", collaboratorID, nil)

	orders := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("ResolveCanonicalID", mock.Anything, "ORD-1001").Return(aggregate.ID(), nil).Once(),
		orders.On("FindActiveByCollaborator", mock.Anything, collaboratorID).Return(active, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAcceptOrderCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrCollaboratorBusy)
	orders.AssertNotCalled(t, "AcceptPending", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestAcceptOrderCommandHandler_Handle_LostRace(t *testing.T) {
	ctx := t.Context()
	collaboratorID := kernel.NewUUID()
	aggregate := pendingOrderAggregate(t, "")
	cmd, _ := commands.NewAcceptOrderCommand("ORD-1001", collaboratorID, nil)

	orders := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("ResolveCanonicalID", mock.Anything, "ORD-1001").Return(aggregate.ID(), nil).Once(),
		orders.On("FindActiveByCollaborator", mock.Anything, collaboratorID).
			Return(nil, errs.NewObjectNotFoundError("collaborator", collaboratorID.String())).Once(),
		orders.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		orders.On("AcceptPending", mock.Anything, aggregate).Return(ports.ErrConcurrencyConflict).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAcceptOrderCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrOrderNoLongerAvailable)
	assert.ErrorIs(t, err, ports.ErrConcurrencyConflict)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestAcceptOrderCommandHandler_Handle_OrderNotFound(t *testing.T) {
	ctx := t.Context()
	collaboratorID := kernel.NewUUID()
	cmd, _ := commands.NewAcceptOrderCommand("ORD-9999", collaboratorID, nil)

	orders := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("ResolveCanonicalID", mock.Anything, "ORD-9999").
			Return(kernel.UUID{}, errs.NewObjectNotFoundError("order", "ORD-9999")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAcceptOrderCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestAcceptOrderCommandHandler_Handle_LookupError(t *testing.T) {
	ctx := t.Context()
	collaboratorID := kernel.NewUUID()
	aggregate := pendingOrderAggregate(t, "")
	cmd, _ := commands.NewAcceptOrderCommand("ORD-1001", collaboratorID, nil)

	orders := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("ResolveCanonicalID", mock.Anything, "ORD-1001").Return(aggregate.ID(), nil).Once(),
		orders.On("FindActiveByCollaborator", mock.Anything, collaboratorID).
			Return(nil, errors.New("connection reset")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAcceptOrderCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.NotErrorIs(t, err, commands.ErrCollaboratorBusy)
}
