package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingCredentials means the sender address or secret was not configured.
var ErrMissingCredentials = errors.New("sender credentials not found: GMAIL_USER and GMAIL_APP_PASSWORD must be set")

// SendError reports a failed transmission for one batch entry.
type SendError struct {
	Index      int
	Recipients []string
	Err        error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send email %d to %s: %v", e.Index+1, strings.Join(e.Recipients, ", "), e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }
