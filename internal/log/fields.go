package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldEntity     = "entity"
	FieldCount      = "count"
	FieldPeriod     = "period"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldBackend    = "backend"
	FieldUser       = "user"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentBackend   = "backend"
	ComponentStore     = "store"
	ComponentSession   = "session"
	ComponentDashboard = "dashboard"
	ComponentStorage   = "storage"
	ComponentReport    = "report"
)

// Operations defines standard operation names
const (
	OpFetch    = "fetch"
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpLogin    = "login"
	OpLogout   = "logout"
	OpHydrate  = "hydrate"
	OpToggle   = "toggle"
	OpReport   = "report"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
