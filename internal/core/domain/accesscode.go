package domain

import "time"

// AccessCode is a shared bootstrap secret. The first successful redemption
// mints a user with the role implied by Type and binds the code to that user
// permanently; the code then remains a valid ongoing login path for the same
// identity until deactivated.
type AccessCode struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	Code        string     `json:"code" bson:"code"`
	Type        Role       `json:"type" bson:"type"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	IsActive    bool       `json:"is_active" bson:"is_active"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
	// UserID is set exactly once, on first redemption. The code does not own
	// the user; it is a weak reference plus lookup.
	UserID    string    `json:"user_id,omitempty" bson:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Usable reports whether the code may still resolve at the given instant.
// Expired codes behave exactly as if they did not exist.
func (c *AccessCode) Usable(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	return c.ExpiresAt == nil || !c.ExpiresAt.Before(now)
}

// GrantedRole maps the code type to the role a newly minted user receives.
func (c *AccessCode) GrantedRole() Role {
	if c.Type == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}
