package dashboard

import (
	"errors"
	"fmt"

	"github.com/abhisek/skilltrail/internal/api"
)

// Op names the operation a notice is about.
type Op string

const (
	OpSave     Op = "save"
	OpGenerate Op = "generate"
	OpBookmark Op = "bookmark"
)

// Notice is a dismissible, non-fatal message about a failed operation.
type Notice struct {
	Op        Op
	Err       error
	Retryable bool
}

type retryable interface {
	Retryable() bool
}

// NewNotice classifies err for display. Errors that do not say whether
// they are retryable are classified by the api package.
func NewNotice(op Op, err error) *Notice {
	n := &Notice{Op: op, Err: err}
	var r retryable
	if errors.As(err, &r) {
		n.Retryable = r.Retryable()
	} else {
		n.Retryable = api.IsRetryable(err)
	}
	if errors.Is(err, api.ErrUnauthorized) {
		n.Retryable = false
	}
	return n
}

// Message is the text shown to the user.
func (n *Notice) Message() string {
	var msg string
	switch n.Op {
	case OpSave:
		msg = "Failed to save progress."
	case OpGenerate:
		msg = "Failed to generate roadmap."
	case OpBookmark:
		msg = "Failed to update bookmark."
	default:
		msg = fmt.Sprintf("%s failed.", n.Op)
	}
	if errors.Is(n.Err, api.ErrUnauthorized) {
		return msg + " Please log in again."
	}
	if n.Retryable {
		return msg + " Please try again."
	}
	return msg
}
