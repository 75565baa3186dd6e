package apierrors

const (
	MsgInvalidPayload     = "invalidPayload"
	MsgInvalidQuery       = "invalidQuery"
	MsgValidationFailed   = "validationFailed"
	MsgTaskNotFound       = "taskNotFound"
	MsgUserNotFound       = "userNotFound"
	MsgReportNotFound     = "reportNotFound"
	MsgInvalidTransition  = "invalidTransition"
	MsgTaskNotCompleted   = "taskNotCompleted"
	MsgInvalidCredentials = "invalidCredentials"
	MsgMissingToken       = "missingToken"
	MsgForbidden          = "forbidden"
	MsgEmailTaken         = "emailTaken"
	MsgStoreUnavailable   = "storeUnavailable"
	MsgRateLimited        = "rateLimited"
	MsgInternalError      = "internalError"
)
