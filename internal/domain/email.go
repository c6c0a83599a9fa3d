package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
)

// ErrInvalidRecipients is returned when an email field is neither a string nor a list of strings.
var ErrInvalidRecipients = errors.New("'email' must be a string or a list of strings")

// Recipients is the normalized form of the "email" field. A single address
// decodes to a one-element list.
type Recipients []string

func (r *Recipients) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return ErrInvalidRecipients
	}

	switch trimmed[0] {
	case '"':
		var single string
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return ErrInvalidRecipients
		}
		*r = Recipients{single}
	case '[':
		var many []string
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return ErrInvalidRecipients
		}
		*r = Recipients(many)
	default:
		return ErrInvalidRecipients
	}
	return nil
}

// SendRequest is one entry of a batch submitted to /send-emails.
type SendRequest struct {
	Recipients Recipients `json:"email"`
	Subject    string     `json:"subject"`
	Body       string     `json:"body"`
}

// Relay delivers a validated batch.
type Relay interface {
	Send(ctx Context, batch []SendRequest) (BatchResult, error)
}

// Context is aliased to context.Context for convenience while keeping the domain package decoupled.
type Context = context.Context
