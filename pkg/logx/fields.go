package logx

const (
	FieldAccountID       = "account-id"
	FieldAppName         = "app-name"
	FieldAppVersion      = "app-version"
	FieldBotID           = "bot-id"
	FieldDepositID       = "deposit-id"
	FieldDurationMs      = "duration-ms"
	FieldError           = "error"
	FieldEvent           = "event"
	FieldHTTPMethod      = "http-method"
	FieldHTTPRequest     = "http-request"
	FieldHTTPResponse    = "http-response"
	FieldIP              = "ip"
	FieldItemName        = "item-name"
	FieldOperation       = "operation"
	FieldOrigin          = "origin"
	FieldRequestBody     = "request-body"
	FieldRequestID       = "request-id"
	FieldResponseBody    = "response-body"
	FieldResponseHeaders = "response-headers"
	FieldResponseStatus  = "response-status"
	FieldStack           = "stack"
	FieldStatus          = "status"
	FieldTraceID         = "trace-id"
	FieldURL             = "url"
)
