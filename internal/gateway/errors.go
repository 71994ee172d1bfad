package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

const unknownErrorMessage = "An unknown error occurred"

// FieldError is one entry of a validation detail array. Raw holds the entry
// itself when it carries no msg.
type FieldError struct {
	Loc []string
	Msg string
	Raw []byte
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status     int
	StatusText string
	Detail     string
	Fields     []FieldError
	Raw        []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.message())
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

func (e *APIError) message() string {
	if e.Detail != "" {
		return e.Detail
	}
	if len(e.Fields) > 0 {
		parts := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			if f.Msg == "" {
				parts[i] = string(f.Raw)
				continue
			}
			parts[i] = strings.Join(f.Loc, ".") + ": " + f.Msg
		}
		return strings.Join(parts, ", ")
	}
	if raw := strings.TrimSpace(string(e.Raw)); raw != "" {
		return raw
	}
	if e.StatusText != "" {
		return e.StatusText
	}
	return fmt.Sprintf("Error %d", e.Status)
}

// Message renders err as the single string shown to a user.
func Message(err error) string {
	if err == nil {
		return unknownErrorMessage
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.message()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return unknownErrorMessage
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

type errorEnvelope struct {
	Detail json.RawMessage `json:"detail"`
}

type detailEntry struct {
	Loc []json.RawMessage `json:"loc"`
	Msg string            `json:"msg"`
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		Status:     status,
		StatusText: http.StatusText(status),
	}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 || string(env.Detail) == "null" {
		if json.Valid(body) {
			apiErr.Raw = body
		}
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(env.Detail, &detail); err == nil {
		apiErr.Detail = detail
		return apiErr
	}

	var items []json.RawMessage
	if err := json.Unmarshal(env.Detail, &items); err == nil {
		for _, item := range items {
			var entry detailEntry
			if err := json.Unmarshal(item, &entry); err != nil || entry.Msg == "" {
				apiErr.Fields = append(apiErr.Fields, FieldError{Raw: compact(item)})
				continue
			}
			apiErr.Fields = append(apiErr.Fields, FieldError{Loc: locStrings(entry.Loc), Msg: entry.Msg})
		}
		if len(apiErr.Fields) > 0 {
			return apiErr
		}
	}

	apiErr.Raw = compact(env.Detail)
	return apiErr
}

func compact(raw []byte) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}

// loc entries may be strings or array indexes.
func locStrings(loc []json.RawMessage) []string {
	out := make([]string, 0, len(loc))
	for _, part := range loc {
		var s string
		if err := json.Unmarshal(part, &s); err == nil {
			out = append(out, s)
			continue
		}
		out = append(out, string(part))
	}
	return out
}
