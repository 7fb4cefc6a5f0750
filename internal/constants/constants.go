package constants

// Session
const (
	SessionCookieName = "visitboard_session"
	ContextKeyUserID  = "user_id"
	ContextKeyUser    = "current_user"
	ContextKeyReqID   = "request_id"
)

// Role names (seeded at first boot, referenced by the policy)
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// RoleNotSelected is the sentinel role id meaning "no role chosen".
// It is rejected on user creation.
const RoleNotSelected = 0

// Validation bounds
const (
	MinUsernameLength = 5
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxPathLength     = 255
)

// LogsPerPage is the fixed page size of the visit log listing.
const LogsPerPage = 15

// Initial admin account, created once when the users table is empty.
// The password is expected to be changed on first login.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "Admin123!"
)

// AnonymousUserLabel is the display label for visits without a user.
const AnonymousUserLabel = "Unauthenticated/anonymous user"
