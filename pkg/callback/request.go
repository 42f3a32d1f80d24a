package callback

import "net/http"

// Request carries the query parameters of one inbound callback delivery.
type Request struct {
	State            string
	Code             string
	Error            string
	ErrorDescription string
}

// ParseRequest extracts callback parameters from an HTTP request.
func ParseRequest(r *http.Request) Request {
	q := r.URL.Query()
	return Request{
		State:            q.Get("state"),
		Code:             q.Get("code"),
		Error:            q.Get("error"),
		ErrorDescription: q.Get("error_description"),
	}
}
