package domain

import "time"

// Role determines what a user is allowed to do.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User models an identity in the system. Email and Name are both optional at
// the data layer; a usable account normally carries at least one, except for
// accounts minted implicitly by an access code, which start with neither.
type User struct {
	ID    string `json:"id" bson:"_id,omitempty"`
	Email string `json:"email,omitempty" bson:"email,omitempty"`
	Name  string `json:"name,omitempty" bson:"name,omitempty"`
	Role  Role   `json:"role" bson:"role"`

	// PasswordHash is empty when no password is set. That is a valid state; such a
	// user can only log in through an access code.
	PasswordHash         string     `json:"-" bson:"password_hash,omitempty"`
	PasswordSetAt        *time.Time `json:"password_set_at,omitempty" bson:"password_set_at,omitempty"`
	MustChangePassword   bool       `json:"must_change_password" bson:"must_change_password"`
	LastPasswordChange   *time.Time `json:"last_password_change,omitempty" bson:"last_password_change,omitempty"`
	PasswordResetToken   string     `json:"-" bson:"password_reset_token,omitempty"`
	PasswordResetExpires *time.Time `json:"-" bson:"password_reset_expires,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// HasPassword reports whether the user currently holds a password credential.
func (u *User) HasPassword() bool {
	return u.PasswordHash != "" && u.PasswordSetAt != nil
}

// passwordMaxAge is the staleness threshold after which a password is
// reported as expired. Advisory only: expiry does not block login.
const passwordMaxAge = 90 * 24 * time.Hour

// PasswordStatus is derived credential state, recomputed on every read and
// never persisted.
type PasswordStatus struct {
	HasPassword         bool `json:"has_password"`
	MustChangePassword  bool `json:"must_change_password"`
	DaysSinceLastChange *int `json:"days_since_last_change"`
	IsPasswordExpired   bool `json:"is_password_expired"`
}

// PasswordStatusAt computes the derived password status as of now.
func (u *User) PasswordStatusAt(now time.Time) PasswordStatus {
	st := PasswordStatus{
		HasPassword:        u.PasswordSetAt != nil,
		MustChangePassword: u.MustChangePassword,
	}
	if u.LastPasswordChange != nil {
		age := now.Sub(*u.LastPasswordChange)
		days := int(age.Hours() / 24)
		st.DaysSinceLastChange = &days
		st.IsPasswordExpired = age > passwordMaxAge
	}
	return st
}
