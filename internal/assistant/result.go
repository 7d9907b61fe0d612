package assistant

// Result is the tagged outcome of a tool invocation. The model receives it
// as the function response payload and branches on Status; Go errors never
// cross the tool boundary.
type Result struct {
	Status  string
	Message string
	Payload map[string]any
}

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Success builds a success result with an optional payload merged into the
// response map.
func Success(message string, payload map[string]any) Result {
	return Result{Status: statusSuccess, Message: message, Payload: payload}
}

// Failure builds an error result.
func Failure(message string) Result {
	return Result{Status: statusError, Message: message}
}

// IsSuccess reports whether the result carries the success tag.
func (r Result) IsSuccess() bool { return r.Status == statusSuccess }

// Response flattens the result into the map sent back to the model. The
// field names mirror what the conversational instructions reference.
func (r Result) Response() map[string]any {
	out := map[string]any{"status": r.Status}
	if r.IsSuccess() {
		out["message"] = r.Message
	} else {
		out["error_message"] = r.Message
	}
	for k, v := range r.Payload {
		out[k] = v
	}
	return out
}
