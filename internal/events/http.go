package events

import (
	"net/http"
	"time"
)

// HTTPStart is emitted when the service accepts a request.
// The context passed along carries the request id.
type HTTPStart struct {
	Request *http.Request
	Route   string
}

// HTTPFinish is emitted after the response has been written.
type HTTPFinish struct {
	Request  *http.Request
	Route    string
	Status   int
	Duration time.Duration
}
