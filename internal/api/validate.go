package api

import (
	"bytes"
	"encoding/json"
	"errors"

	"email-relay-service/internal/domain"
)

const (
	msgNotList        = "Request body must be a list"
	msgNotObject      = "Each email entry must be an object"
	msgMissingFields  = "Each email entry must contain 'email', 'subject', and 'body' fields"
	msgNoRecipients   = "'email' must contain at least one address"
	msgFieldsNotTexts = "'subject' and 'body' must be strings"
)

var errNullText = errors.New("null is not a string")

// RequestError is a client-side validation failure, reported as 400.
type RequestError struct {
	Detail string
}

func (e *RequestError) Error() string { return e.Detail }

func badRequest(detail string) *RequestError { return &RequestError{Detail: detail} }

// parseBatch validates the raw /send-emails body and normalizes it into send requests.
// The whole batch is checked before anything is returned.
func parseBatch(raw []byte) ([]domain.SendRequest, *RequestError) {
	if firstByte(raw) != '[' {
		return nil, badRequest(msgNotList)
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, badRequest(msgNotList)
	}

	batch := make([]domain.SendRequest, 0, len(entries))
	for _, entry := range entries {
		req, reqErr := parseEntry(entry)
		if reqErr != nil {
			return nil, reqErr
		}
		batch = append(batch, req)
	}
	return batch, nil
}

func parseEntry(entry json.RawMessage) (domain.SendRequest, *RequestError) {
	var req domain.SendRequest
	if firstByte(entry) != '{' {
		return req, badRequest(msgNotObject)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(entry, &fields); err != nil {
		return req, badRequest(msgNotObject)
	}
	for _, key := range []string{"email", "subject", "body"} {
		if _, ok := fields[key]; !ok {
			return req, badRequest(msgMissingFields)
		}
	}

	if err := json.Unmarshal(fields["email"], &req.Recipients); err != nil {
		if errors.Is(err, domain.ErrInvalidRecipients) {
			return req, badRequest(domain.ErrInvalidRecipients.Error())
		}
		return req, badRequest(err.Error())
	}
	if len(req.Recipients) == 0 {
		return req, badRequest(msgNoRecipients)
	}

	if err := decodeText(fields["subject"], &req.Subject); err != nil {
		return req, badRequest(msgFieldsNotTexts)
	}
	if err := decodeText(fields["body"], &req.Body); err != nil {
		return req, badRequest(msgFieldsNotTexts)
	}

	return req, nil
}

// decodeText decodes a JSON string; null is rejected since it would leave dst untouched.
func decodeText(raw json.RawMessage, dst *string) error {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return errNullText
	}
	return json.Unmarshal(raw, dst)
}

func firstByte(b []byte) byte {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
