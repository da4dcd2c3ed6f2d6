package errors

// ErrorCode identifies an error category on the wire. Values are stable;
// clients match on them.
type ErrorCode int32

const (
	ErrorCode_UNSPECIFIED ErrorCode = iota
	ErrorCode_INTERNAL
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_NOT_FOUND
	ErrorCode_ENGINE_NOT_CONFIGURED
	ErrorCode_ENGINE_NOT_READY
	ErrorCode_ENGINE_BACKEND_FAILED
	ErrorCode_ENGINE_NO_OUTPUT
	ErrorCode_DB_CONNECTION_FAILED
	ErrorCode_DB_QUERY_FAILED
	ErrorCode_CACHE_FAILED
)

// ErrorCode_HTTP_OK marks a successful envelope; it mirrors the HTTP status.
const ErrorCode_HTTP_OK ErrorCode = 200

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_UNSPECIFIED:           "UNSPECIFIED",
	ErrorCode_INTERNAL:              "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:      "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:             "NOT_FOUND",
	ErrorCode_ENGINE_NOT_CONFIGURED: "ENGINE_NOT_CONFIGURED",
	ErrorCode_ENGINE_NOT_READY:      "ENGINE_NOT_READY",
	ErrorCode_ENGINE_BACKEND_FAILED: "ENGINE_BACKEND_FAILED",
	ErrorCode_ENGINE_NO_OUTPUT:      "ENGINE_NO_OUTPUT",
	ErrorCode_DB_CONNECTION_FAILED:  "DB_CONNECTION_FAILED",
	ErrorCode_DB_QUERY_FAILED:       "DB_QUERY_FAILED",
	ErrorCode_CACHE_FAILED:          "CACHE_FAILED",
	ErrorCode_HTTP_OK:               "OK",
}

// String returns the wire name of the code.
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNSPECIFIED"
}
