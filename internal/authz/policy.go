package authz

import (
	"errors"

	"github.com/pizzastack/pizzastack-backend/internal/app/model"
)

// ErrForbidden is the single denial result. Handlers map it to a 403 with
// body message "unauthorized". A nonexistent target of an ownership-scoped
// action yields the same denial, so callers cannot probe for resource
// existence.
var ErrForbidden = errors.New("unauthorized")

// Action identifies the operation being attempted.
type Action string

const (
	ActionUserRead   Action = "user:read"
	ActionUserUpdate Action = "user:update"
	ActionUserList   Action = "user:list"

	ActionFranchiseCreate Action = "franchise:create"
	ActionFranchiseRead   Action = "franchise:read" // list franchises of a given admin
	ActionFranchiseDelete Action = "franchise:delete"

	ActionStoreCreate Action = "store:create"
	ActionStoreDelete Action = "store:delete"

	ActionMenuUpdate Action = "menu:update"

	ActionOrderCreate Action = "order:create"
	ActionOrderRead   Action = "order:read"
)

// Actor is the authenticated identity attempting an action. Roles is the
// user's current role set as loaded by the authentication middleware.
type Actor struct {
	ID    uint
	Roles []model.UserRole
}

// Resource identifies the target of an action. Zero fields mean the
// dimension does not apply (e.g. menu mutation has no target user).
type Resource struct {
	UserID      uint
	FranchiseID uint
}

// IsAdmin reports whether the actor carries the global admin role.
func (a Actor) IsAdmin() bool {
	for _, r := range a.Roles {
		if r.Role == model.RoleAdmin {
			return true
		}
	}
	return false
}

// managesFranchise reports whether the actor holds a franchisee role
// scoped to the given franchise.
func (a Actor) managesFranchise(franchiseID uint) bool {
	if franchiseID == 0 {
		return false
	}
	for _, r := range a.Roles {
		if r.Role == model.RoleFranchisee && r.FranchiseID != nil && *r.FranchiseID == franchiseID {
			return true
		}
	}
	return false
}

// Authorize decides whether actor may perform action on target. It is a
// pure function of its arguments: no store reads, no side effects. A nil
// return means allow; ErrForbidden means deny.
//
// Rules are evaluated in precedence order, first match wins:
//  1. global admin: allow everything
//  2. self-action on a user target: allow read/update of own profile
//  3. user target that is not the actor: deny without admin
//  4. franchisee scoped to the target franchise: allow store management
//     and reads of that franchise, deny any other franchise
//  5. menu mutation: admin only
//  6. order create / read own orders: any authenticated actor, own scope
//  7. default deny
func Authorize(actor Actor, action Action, target Resource) error {
	if actor.IsAdmin() {
		return nil
	}

	switch action {
	case ActionUserRead, ActionUserUpdate:
		if target.UserID != 0 && target.UserID == actor.ID {
			return nil
		}
		return ErrForbidden

	case ActionUserList:
		// any authenticated actor may page through users
		return nil

	case ActionFranchiseRead:
		if target.UserID != 0 && target.UserID == actor.ID {
			return nil
		}
		if actor.managesFranchise(target.FranchiseID) {
			return nil
		}
		return ErrForbidden

	case ActionStoreCreate, ActionStoreDelete:
		if actor.managesFranchise(target.FranchiseID) {
			return nil
		}
		return ErrForbidden

	case ActionMenuUpdate, ActionFranchiseCreate, ActionFranchiseDelete:
		// admin only, already handled above
		return ErrForbidden

	case ActionOrderCreate:
		return nil

	case ActionOrderRead:
		if target.UserID != 0 && target.UserID == actor.ID {
			return nil
		}
		return ErrForbidden
	}

	return ErrForbidden
}
