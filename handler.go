package shbin

import (
	"fmt"
	"io"
)

// ErrorHandler receives assembly failures as a topic and a free-text
// message. It is called synchronously, before the failing Assemble call
// returns.
type ErrorHandler interface {
	HandleError(topic, message string)
}

// HandlerFunc adapts a function to the ErrorHandler interface.
type HandlerFunc func(topic, message string)

// HandleError calls f(topic, message).
func (f HandlerFunc) HandleError(topic, message string) {
	f(topic, message)
}

// WriterHandler returns an ErrorHandler that writes the topic and the
// message on separate lines to w.
func WriterHandler(w io.Writer) ErrorHandler {
	return HandlerFunc(func(topic, message string) {
		fmt.Fprintf(w, "%s\n%s\n", topic, message)
	})
}
