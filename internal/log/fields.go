package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldWorkspaceID = "workspace_id"
	FieldUserID      = "user_id"
	FieldProjectID   = "project_id"
	FieldPeriod      = "period"
	FieldRunID       = "run_id"
	FieldReportKind  = "report_kind"
	FieldFileName    = "file_name"
	FieldUploadRef   = "upload_ref"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentReport    = "report"
	ComponentTracker   = "tracker"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentScheduler = "scheduler"
	ComponentSink      = "sink"
)

// Operations defines standard operation names
const (
	OpGenerate = "generate"
	OpArchive  = "archive"
	OpUpload   = "upload"
	OpFetch    = "fetch"
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
