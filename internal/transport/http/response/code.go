package response

import "market-backend/internal/domain"

// Codes mirror the HTTP status of the response.
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409
	CodeTooLarge        = 413
	CodeTooManyRequests = 429
	CodeServerError     = 500
	CodeUnavailable     = 503
	CodeTimeout         = 504
)

var CodeMsgMap = map[int]string{
	CodeOK:              "OK",
	CodeBadRequest:      "Bad Request",
	CodeUnauthorized:    "Unauthorized",
	CodeForbidden:       "Forbidden",
	CodeNotFound:        "Not Found",
	CodeConflict:        "Conflict",
	CodeTooLarge:        "Request Entity Too Large",
	CodeTooManyRequests: "Too Many Requests",
	CodeServerError:     "Internal Server Error",
	CodeUnavailable:     "Service Unavailable",
	CodeTimeout:         "Gateway Timeout",
}

// KindCodeMap is the single mapping from error kind to status code.
var KindCodeMap = map[domain.Kind]int{
	domain.KindValidation:      CodeBadRequest,
	domain.KindUnauthenticated: CodeUnauthorized,
	domain.KindForbidden:       CodeForbidden,
	domain.KindNotFound:        CodeNotFound,
	domain.KindConflict:        CodeConflict,
	domain.KindInternal:        CodeServerError,
}

// CodeOf returns the status code for err's kind.
func CodeOf(err error) int {
	if c, ok := KindCodeMap[domain.KindOf(err)]; ok {
		return c
	}
	return CodeServerError
}
