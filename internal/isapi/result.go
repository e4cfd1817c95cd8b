package isapi

// Result is the uniform envelope returned by every device operation.
type Result struct {
	// Success reports whether the operation's success predicate held.
	// Each operation has its own predicate: plain HTTP 2xx for most,
	// HTTP 2xx plus a device status code or body-derived flag for others.
	Success bool
	// Response is the raw transport response the predicate was applied to.
	Response *Response
	// Data is the decoded payload: a string, a parsed XML/JSON structure,
	// or a storage path depending on the operation. It is set only when
	// Success is true; callers must treat it as undefined otherwise.
	Data any
}

// failure wraps a response in an unsuccessful Result with no payload.
func failure(resp *Response) *Result {
	return &Result{Success: false, Response: resp}
}

// success wraps a response and decoded payload in a successful Result.
func success(resp *Response, data any) *Result {
	return &Result{Success: true, Response: resp, Data: data}
}
