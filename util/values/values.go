package values

// Status strings carried in the ServerResponse envelope and mapped
// to HTTP status codes by util.StatusCode.
const (
	Success        = "success"
	Created        = "created"
	Error          = "internal-error"
	SystemErr      = "Something went wrong"
	BadRequestBody = "bad-request"
	Unprocessable  = "unprocessable"
	NotAllowed     = "not-allowed"
	Conflict       = "conflict"
	NotFound       = "not-found"
	NotAuthorised  = "not-authorized"
	TokenExpired   = "token-expired"
	ActiveLogin    = "active-login"
)

const (
	HeaderRequestID     = "X-Request-Id"
	HeaderRequestSource = "X-Request-Source"
)

type contextKey string

const (
	ContextTracingKey contextKey = "tracing-context"
	ContextUserKey    contextKey = "user_id"
	ContextRoleKey    contextKey = "user_role"
	ContextNameKey    contextKey = "username"
)

// User roles. ADMIN moderates reports and publishes alerts,
// MEMBER submits reports and help requests.
const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)
