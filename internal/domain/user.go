package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Common validation errors for User.
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// EmailPreferences holds a user's per-category opt-in flags for the email
// delivery channel. Enabled is the master switch: when false no email is sent
// regardless of the per-category flags. The realtime channel is never gated
// by preferences. All flags default to true for new users.
type EmailPreferences struct {
	Enabled           bool `json:"enabled"`
	TaskNotifications bool `json:"task_notifications"`
	TaskReminders     bool `json:"task_reminders"`
	Mentions          bool `json:"mentions"`
	Announcements     bool `json:"announcements"`
	WelcomeEmails     bool `json:"welcome_emails"`
	PasswordReset     bool `json:"password_reset"`
}

// DefaultEmailPreferences returns the preference set assigned to new users.
func DefaultEmailPreferences() EmailPreferences {
	return EmailPreferences{
		Enabled:           true,
		TaskNotifications: true,
		TaskReminders:     true,
		Mentions:          true,
		Announcements:     true,
		WelcomeEmails:     true,
		PasswordReset:     true,
	}
}

// User represents a member of an organization.
type User struct {
	ID               uuid.UUID        `json:"id"`
	OrganizationID   uuid.UUID        `json:"organization_id"`
	DepartmentID     *uuid.UUID       `json:"department_id,omitempty"`
	Email            string           `json:"email"`
	Name             string           `json:"name"`
	HashedPassword   string           `json:"-"` // Never expose password hash in JSON
	EmailPreferences EmailPreferences `json:"email_preferences"`
	Lifecycle
}

// NewUser creates a new User under the given organization with default email
// preferences. The caller is responsible for hashing the password and setting
// HashedPassword before the user is stored.
func NewUser(organizationID uuid.UUID, email, name string, createdBy uuid.UUID) (*User, error) {
	user := &User{
		ID:               uuid.New(),
		OrganizationID:   organizationID,
		Email:            email,
		Name:             name,
		EmailPreferences: DefaultEmailPreferences(),
		Lifecycle:        NewLifecycle(createdBy),
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.OrganizationID == uuid.Nil {
		return ErrEmptyOrganizationID
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !validEmailFormat(u.Email) {
		return ErrInvalidEmail
	}
	return nil
}

// Tenant returns the user's tenant scope.
func (u *User) Tenant() Tenant {
	return Tenant{OrganizationID: u.OrganizationID, DepartmentID: u.DepartmentID}
}

// validEmailFormat performs a minimal structural check: one @ with a dotted
// domain part. Full RFC 5322 validation belongs to the request layer.
func validEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
