package outbox

import (
	"fmt"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
)

// TargetKind discriminates the logical recipient of a notification.
type TargetKind int

const (
	// UnknownTargetKind catches uninitialized values.
	UnknownTargetKind TargetKind = iota

	// TargetUser addresses a registered user (e.g. the assigned collaborator).
	TargetUser

	// TargetContact addresses an anonymous customer contact.
	TargetContact

	// TargetRole addresses everyone currently holding a role, resolved at
	// send time so newly registered devices are included.
	TargetRole
)

// String returns the wire token of the target kind.
func (k TargetKind) String() string {
	switch k {
	case TargetUser:
		return "user"
	case TargetContact:
		return "contact"
	case TargetRole:
		return "role"
	default:
		return "unknown"
	}
}

// RoleStaff is the back-office staff role fanned out on order creation.
const RoleStaff = "staff"

// Target is the discriminated union of notification recipients:
// a user id, a contact id, or a role name.
type Target struct {
	kind  TargetKind
	value string
}

// UserTarget addresses a single registered user.
func UserTarget(userID kernel.UUID) Target {
	return Target{kind: TargetUser, value: userID.String()}
}

// ContactTarget addresses an anonymous customer contact.
func ContactTarget(contactID string) Target {
	return Target{kind: TargetContact, value: contactID}
}

// RoleTarget addresses all identities currently holding the role.
func RoleTarget(role string) Target {
	return Target{kind: TargetRole, value: role}
}

// RestoreTarget reconstructs a Target from its persisted kind token and value.
func RestoreTarget(kindToken, value string) (Target, error) {
	switch kindToken {
	case "user":
		return Target{kind: TargetUser, value: value}, nil
	case "contact":
		return Target{kind: TargetContact, value: value}, nil
	case "role":
		return Target{kind: TargetRole, value: value}, nil
	default:
		return Target{}, errs.NewValueIsInvalidErrorWithCause("target kind",
			fmt.Errorf("%q is not a valid target kind", kindToken))
	}
}

// Kind returns the discriminator.
func (t Target) Kind() TargetKind { return t.kind }

// Value returns the user id, contact id, or role name depending on Kind.
func (t Target) Value() string { return t.value }

// Validate checks the target has a known kind and a non-empty value.
func (t Target) Validate() error {
	if t.kind != TargetUser && t.kind != TargetContact && t.kind != TargetRole {
		return errs.NewValueIsInvalidError("target kind")
	}
	if t.value == "" {
		return errs.NewValueIsRequiredError("target value")
	}
	return nil
}
