package errors

// ErrorCode identifies a class of application error in API responses
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = iota
	ErrorCode_INTERNAL
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_NOT_FOUND
	ErrorCode_ALREADY_EXISTS
	ErrorCode_UNAUTHENTICATED
	ErrorCode_FORBIDDEN
	ErrorCode_INVALID_PAYLOAD
	ErrorCode_CONFLICT

	ErrorCode_AUTH_INVALID_TOKEN
	ErrorCode_AUTH_PROFILE_NOT_FOUND
	ErrorCode_AUTH_ORGANIZATION_MISSING

	ErrorCode_MEETING_NOT_FOUND
	ErrorCode_MEETING_INVALID_STATE
	ErrorCode_AGENDA_ITEM_NOT_FOUND
	ErrorCode_ISSUE_NOT_FOUND

	ErrorCode_OAUTH_STATE_INVALID
	ErrorCode_OAUTH_EXCHANGE_FAILED
	ErrorCode_INTEGRATION_NOT_CONNECTED
	ErrorCode_INTEGRATION_NOT_CONFIGURED
	ErrorCode_WEBHOOK_SIGNATURE_INVALID
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "HTTP_OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:             "ALREADY_EXISTS",
	ErrorCode_UNAUTHENTICATED:            "UNAUTHENTICATED",
	ErrorCode_FORBIDDEN:                  "FORBIDDEN",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_CONFLICT:                   "CONFLICT",
	ErrorCode_AUTH_INVALID_TOKEN:         "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_PROFILE_NOT_FOUND:     "AUTH_PROFILE_NOT_FOUND",
	ErrorCode_AUTH_ORGANIZATION_MISSING:  "AUTH_ORGANIZATION_MISSING",
	ErrorCode_MEETING_NOT_FOUND:          "MEETING_NOT_FOUND",
	ErrorCode_MEETING_INVALID_STATE:      "MEETING_INVALID_STATE",
	ErrorCode_AGENDA_ITEM_NOT_FOUND:      "AGENDA_ITEM_NOT_FOUND",
	ErrorCode_ISSUE_NOT_FOUND:            "ISSUE_NOT_FOUND",
	ErrorCode_OAUTH_STATE_INVALID:        "OAUTH_STATE_INVALID",
	ErrorCode_OAUTH_EXCHANGE_FAILED:      "OAUTH_EXCHANGE_FAILED",
	ErrorCode_INTEGRATION_NOT_CONNECTED:  "INTEGRATION_NOT_CONNECTED",
	ErrorCode_INTEGRATION_NOT_CONFIGURED: "INTEGRATION_NOT_CONFIGURED",
	ErrorCode_WEBHOOK_SIGNATURE_INVALID:  "WEBHOOK_SIGNATURE_INVALID",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// MarshalText renders the code by name in JSON bodies
func (c ErrorCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
