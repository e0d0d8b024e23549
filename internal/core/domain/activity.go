package domain

import "time"

// Activity log action kinds.
const (
	ActionLoginAccessCode        = "LOGIN_ACCESS_CODE"
	ActionLoginPassword          = "LOGIN_PASSWORD"
	ActionLoginFailed            = "LOGIN_FAILED"
	ActionPasswordSetByAdmin     = "PASSWORD_SET_BY_ADMIN"
	ActionPasswordChangedByAdmin = "PASSWORD_CHANGED_BY_ADMIN"
	ActionPasswordChanged        = "PASSWORD_CHANGED"
	ActionPasswordChangeFailed   = "PASSWORD_CHANGE_FAILED"
	ActionPasswordCleared        = "PASSWORD_CLEARED"
	ActionPasswordResetRequested = "PASSWORD_RESET_REQUESTED"
	ActionPasswordResetRedeemed  = "PASSWORD_RESET_REDEEMED"
	ActionUserCreated            = "USER_CREATED"
	ActionUserUpdated            = "USER_UPDATED"
	ActionUserProfileUpdated     = "USER_PROFILE_UPDATED"
	ActionUserDeleted            = "USER_DELETED"
	ActionAccessCodeCreated      = "ACCESS_CODE_CREATED"
	ActionAccessCodeDisabled     = "ACCESS_CODE_DISABLED"
	ActionVideoUploaded          = "UPLOAD_VIDEO"
	ActionVideoDeleted           = "DELETE_VIDEO"
)

// ActivityEntry is one append-only audit record. Writes are best-effort:
// a failed audit write must never abort the operation it describes.
type ActivityEntry struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Action    string    `json:"action" bson:"action"`
	Details   string    `json:"details,omitempty" bson:"details,omitempty"`
	UserID    string    `json:"user_id,omitempty" bson:"user_id,omitempty"`
	IPAddress string    `json:"ip_address,omitempty" bson:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty" bson:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// ClientMeta carries optional network metadata attached to audit records.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}
