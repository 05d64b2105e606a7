package convert

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed conversion for the HTTP boundary. The
// boundary maps each kind to a fixed user-facing message; internal messages
// and wrapped causes are logged, never surfaced.
type ErrorKind string

const (
	KindInvalidUpload ErrorKind = "invalid_upload"
	KindMissingColumn ErrorKind = "missing_column"
	KindNoEventsFound ErrorKind = "no_events_found"
	KindEncoding      ErrorKind = "encoding"
	KindInternal      ErrorKind = "internal"
)

var userMessages = map[ErrorKind]string{
	KindInvalidUpload: "The uploaded file could not be read as a spreadsheet.",
	KindMissingColumn: "The spreadsheet is missing a required column.",
	KindNoEventsFound: "No course meetings were found in the uploaded file.",
	KindEncoding:      "Something went wrong while generating the calendar.",
	KindInternal:      "Something went wrong while generating the calendar.",
}

// UserMessage returns the fixed message shown to the end user for a kind.
func UserMessage(kind ErrorKind) string {
	if msg, ok := userMessages[kind]; ok {
		return msg
	}
	return userMessages[KindInternal]
}

// StatusCode maps a kind to the HTTP status of the error response.
func StatusCode(kind ErrorKind) int {
	switch kind {
	case KindInvalidUpload, KindMissingColumn, KindNoEventsFound:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ConversionError is the structured failure of a conversion: the kind, the
// pipeline stage it originated in, and the underlying cause.
type ConversionError struct {
	Kind  ErrorKind
	Stage Stage
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion failed during %s: %v", e.Stage, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
