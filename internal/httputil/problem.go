package httputil

import (
	"encoding/json"
	"net/http"

	v2 "github.com/telhawk-systems/ldadapter/internal/models/v2"
)

// ErrorTypeBase prefixes every NGSI-LD problem type.
const ErrorTypeBase = "https://uri.etsi.org/ngsi-ld/errors/"

// Problem types used by the adapter.
const (
	InternalError         = ErrorTypeBase + "InternalError"
	ResourceNotFound      = ErrorTypeBase + "ResourceNotFound"
	BadRequestData        = ErrorTypeBase + "BadRequestData"
	AlreadyExists         = ErrorTypeBase + "AlreadyExists"
	InvalidRequest        = ErrorTypeBase + "InvalidRequest"
	OperationNotSupported = ErrorTypeBase + "OperationNotSupported"
	TooManyRequests       = ErrorTypeBase + "TooManyRequests"
)

// Problem is an NGSI-LD problem document.
type Problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// WriteProblem writes a problem document as application/json.
func WriteProblem(w http.ResponseWriter, status int, p Problem) {
	WriteJSON(w, status, p)
}

// WriteInternalError renders an unexpected failure as a 500 InternalError
// titled with the failing component.
func WriteInternalError(w http.ResponseWriter, detail, component string) {
	WriteProblem(w, http.StatusInternalServerError, Problem{
		Type:   InternalError,
		Title:  component,
		Detail: detail,
	})
}

var statusProblems = map[int]string{
	http.StatusBadRequest:          BadRequestData,
	http.StatusNotFound:            ResourceNotFound,
	http.StatusMethodNotAllowed:    OperationNotSupported,
	http.StatusConflict:            AlreadyExists,
	http.StatusUnprocessableEntity: InvalidRequest,
	http.StatusTooManyRequests:     TooManyRequests,
}

// ProblemFromV2 maps an upstream v2 error response to an LD problem. The
// status is kept; bodies that are not v2 errors are quoted as the detail.
func ProblemFromV2(status int, body []byte) Problem {
	p := Problem{Type: InternalError, Title: http.StatusText(status)}
	if mapped, ok := statusProblems[status]; ok {
		p.Type = mapped
	}

	var v2err v2.Error
	if err := json.Unmarshal(body, &v2err); err == nil && v2err.Error != "" {
		p.Title = v2err.Error
		p.Detail = v2err.Description
		return p
	}
	p.Detail = string(body)
	return p
}
