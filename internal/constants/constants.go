package constants

// Context keys
const (
	ContextKeyUserID = "user_id"
)

// Pagination
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Field constraints
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 8

	MaxProjectNameLength = 100
	MaxTaskTitleLength   = 100
	MaxDescriptionLength = 1000

	MinTaskPriority = 1
	MaxTaskPriority = 5
)
