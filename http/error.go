package http

import (
	"encoding/json"
	"net/http"

	"github.com/fwojciec/servicedoc"
)

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	servicedoc.ECONFLICT:       http.StatusConflict,
	servicedoc.EINVALID:        http.StatusBadRequest,
	servicedoc.ENOTFOUND:       http.StatusNotFound,
	servicedoc.ENOTIMPLEMENTED: http.StatusNotImplemented,
	servicedoc.EUNAUTHORIZED:   http.StatusUnauthorized,
	servicedoc.EINTERNAL:       http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// errorResponse is the JSON body of every error response.
type errorResponse struct {
	Detail string `json:"detail"`
}

// Error writes err as a JSON error response. Internal errors are logged and
// their details hidden from the client.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code, message := servicedoc.ErrorCode(err), servicedoc.ErrorMessage(err)

	if code == servicedoc.EINTERNAL {
		s.logger.Error("http error",
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
		)
	}

	writeJSON(w, ErrorStatusCode(code), errorResponse{Detail: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into v, reporting malformed input as
// EINVALID.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return servicedoc.Errorf(servicedoc.EINVALID, "invalid JSON body: %v", err)
	}
	return nil
}
