package realtime

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Scope selects which set of connected clients an event targets.
type Scope string

// Audience scopes.
const (
	ScopeUser         Scope = "user"
	ScopeDepartment   Scope = "department"
	ScopeOrganization Scope = "organization"
	ScopeRecipients   Scope = "recipients"
)

// ErrInvalidAudience is returned when an audience has no usable target.
var ErrInvalidAudience = errors.New("audience has no target")

// Audience identifies who receives an event: a single user, everyone in a
// department or organization, or an explicit recipient list.
type Audience struct {
	Scope Scope
	ID    uuid.UUID   // user, department, and organization scopes
	Users []uuid.UUID // recipients scope
}

// UserAudience targets one user's connections.
func UserAudience(userID uuid.UUID) Audience {
	return Audience{Scope: ScopeUser, ID: userID}
}

// DepartmentAudience targets every connected member of a department.
func DepartmentAudience(departmentID uuid.UUID) Audience {
	return Audience{Scope: ScopeDepartment, ID: departmentID}
}

// OrganizationAudience targets every connected member of an organization.
func OrganizationAudience(organizationID uuid.UUID) Audience {
	return Audience{Scope: ScopeOrganization, ID: organizationID}
}

// RecipientsAudience targets an explicit list of users.
func RecipientsAudience(userIDs []uuid.UUID) Audience {
	return Audience{Scope: ScopeRecipients, Users: userIDs}
}

// Validate checks that the audience names at least one target.
func (a Audience) Validate() error {
	switch a.Scope {
	case ScopeUser, ScopeDepartment, ScopeOrganization:
		if a.ID == uuid.Nil {
			return ErrInvalidAudience
		}
	case ScopeRecipients:
		if len(a.Users) == 0 {
			return ErrInvalidAudience
		}
	default:
		return ErrInvalidAudience
	}
	return nil
}

// Emitter publishes an event to an audience. Implementations must be safe
// for concurrent use.
type Emitter interface {
	Emit(ctx context.Context, audience Audience, event string, payload any) error
}
