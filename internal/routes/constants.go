package routes

var (
	RegisterDurationSecondsBuckets  = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	LoginDurationSecondsBuckets     = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	SendDurationSecondsBuckets      = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
	ListDurationSecondsBuckets      = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
)

const (
	// API route constants
	MetricsRouteAPI   = "/metrics"
	RegisterRouteAPI  = "/register"
	LoginRouteAPI     = "/login"
	BroadcastRouteAPI = "/broadcast"
	DirectRouteAPI    = "/direct"
	GroupRouteAPI     = "/group"
	MessagesRouteAPI  = "/messages"

	// Content-Type constants
	ContentType     = "Content-Type"
	ContentTypeJson = "application/json"

	// Error messages
	ErrMethodNotAllowed       = "method not allowed"
	ErrInvalidContentType     = "content-Type must be application/json"
	ErrInvalidRequestBody     = "invalid request body"
	ErrValidationFailed       = "data validation failed"
	ErrUsernameTaken          = "username already taken"
	ErrInvalidCredentials     = "invalid username or password"
	ErrAmbiguousTarget        = "message cannot target both a recipient and a group"
	ErrStoreUnavailable       = "storage temporarily unavailable"
	ErrMissingIdentity        = "missing authenticated identity"
	ErrFailedToEncodeResponse = "failed to encode response"

	// metrics constants
	RegisterRequestsTotal       = "register_requests_total"
	RegisterRequestsTotalHelp   = "Total number of register requests received"
	RegisterSuccessTotal        = "register_success_total"
	RegisterSuccessTotalHelp    = "Total number of successful register requests"
	RegisterErrorsTotal         = "register_errors_total"
	RegisterErrorsTotalHelp     = "Total number of errors during register requests"
	RegisterDurationSeconds     = "register_duration_seconds"
	RegisterDurationSecondsHelp = "Duration of register requests in seconds"

	LoginRequestsTotal       = "login_requests_total"
	LoginRequestsTotalHelp   = "Total number of login requests received"
	LoginSuccessTotal        = "login_success_total"
	LoginSuccessTotalHelp    = "Total number of successful login requests"
	LoginFailedTotal         = "login_failed_total"
	LoginFailedTotalHelp     = "Total number of failed login requests"
	LoginDurationSeconds     = "login_duration_seconds"
	LoginDurationSecondsHelp = "Duration of login requests in seconds"

	SendRequestsTotal       = "send_requests_total"
	SendRequestsTotalHelp   = "Total number of message send requests received"
	SendSuccessTotal        = "send_success_total"
	SendSuccessTotalHelp    = "Total number of messages durably recorded"
	SendErrorsTotal         = "send_errors_total"
	SendErrorsTotalHelp     = "Total number of errors during message send requests"
	SendDurationSeconds     = "send_duration_seconds"
	SendDurationSecondsHelp = "Duration of message send requests in seconds"

	ListRequestsTotal       = "list_requests_total"
	ListRequestsTotalHelp   = "Total number of message list requests received"
	ListErrorsTotal         = "list_errors_total"
	ListErrorsTotalHelp     = "Total number of errors during message list requests"
	ListDurationSeconds     = "list_duration_seconds"
	ListDurationSecondsHelp = "Duration of message list requests in seconds"
)
