package services

import "fmt"

// Result is the success flag and message a front end shows after a command.
type Result struct {
	OK      bool
	Message string
}

// ResultOf turns an operation outcome into a Result. On success the message is
// built from format and args; on failure it is the error's own message, which
// the service keeps user-facing.
func ResultOf(err error, format string, args ...any) Result {
	if err != nil {
		return Result{OK: false, Message: err.Error()}
	}
	return Result{OK: true, Message: fmt.Sprintf(format, args...)}
}
