package commands

import (
	"fmt"

	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/model/outbox"
)

// Human wording per status for customer-facing notifications.
func statusWording(s order.Status) string {
	switch s {
	case order.Pending:
		return "has been registered and is awaiting a collaborator"
	case order.Accepted:
		return "has been accepted"
	case order.EnRouteToPickup:
		return "is on its way to the pickup point"
	case order.Loading:
		return "is being loaded"
	case order.EnRouteToDeliver:
		return "is on its way to be delivered"
	case order.Completed:
		return "has been delivered"
	case order.Cancelled:
		return "has been cancelled"
	case order.Delay:
		return "is experiencing a delay"
	default:
		return "has been updated"
	}
}

func orderURL(o *order.Order) string {
	return fmt.Sprintf("/orders/%s", o.Code())
}

// statusUpdatePayload is the customer- and collaborator-facing announcement
// of a status change.
func statusUpdatePayload(o *order.Order, next order.Status) outbox.Payload {
	return outbox.Payload{
		Title: fmt.Sprintf("Order %s", o.Code()),
		Body:  fmt.Sprintf("Your order %s %s.", o.Code(), statusWording(next)),
		Icon:  "/icons/package.png",
		URL:   orderURL(o),
		Data: map[string]string{
			"order_id": o.ID().String(),
			"url":      orderURL(o),
		},
	}
}

// acceptanceConfirmationPayload confirms to the collaborator that the job is theirs.
func acceptanceConfirmationPayload(o *order.Order) outbox.Payload {
	return outbox.Payload{
		Title: "Job assigned",
		Body:  fmt.Sprintf("Order %s is now assigned to you.", o.Code()),
		Icon:  "/icons/truck.png",
		URL:   orderURL(o),
		Data: map[string]string{
			"order_id": o.ID().String(),
			"url":      orderURL(o),
		},
	}
}

// orderCreatedPayload announces a new order to all active staff.
func orderCreatedPayload(o *order.Order) outbox.Payload {
	return outbox.Payload{
		Title: "New order",
		Body:  fmt.Sprintf("Order %s has been created and awaits acceptance.", o.Code()),
		Icon:  "/icons/bell.png",
		URL:   orderURL(o),
		Data: map[string]string{
			"order_id": o.ID().String(),
			"url":      orderURL(o),
		},
	}
}
