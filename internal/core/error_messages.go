package core

// error_messages.go maps technical errors to user-facing messages with
// codes that staff can quote to support.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File exceeds the upload size limit
//	FILE002 - Unsupported file type (only .csv and .json are accepted)
//	FILE003 - CSV could not be parsed
//	FILE004 - JSON could not be parsed or has the wrong shape
//	FILE005 - No file was uploaded
//	FILE006 - Too many files in one request
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - No records were submitted for import
//	IMP002 - Too many imports running at once
//	IMP003 - Owner could not be created or found
//	IMP004 - Edit names an unknown field
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate value
//	DB002 - Referenced record does not exist
//	DB003 - Database unreachable
//	DB004 - Database busy or locked
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled by the client
//	REQ002 - Request timed out
//	REQ003 - Request body too large
//	REQ004 - Request body is not valid JSON
//	RATE001 - Too many requests
//
// ERR000 is the fallback. When users report it, check the logs for the
// technical error logged alongside the request id.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
}

// sentinelMessage maps an error matched with errors.Is.
type sentinelMessage struct {
	target error
	msg    UserMessage
}

// errorPattern maps a case-insensitive substring of the error text.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgTooLarge = UserMessage{
		Message: "File exceeds the upload size limit",
		Action:  "Split the file into smaller files",
		Code:    "FILE001",
	}
	msgUnsupported = UserMessage{
		Message: "Unsupported file type",
		Action:  "Upload a .csv or .json file",
		Code:    "FILE002",
	}
	msgNoFiles = UserMessage{
		Message: "No file was uploaded",
		Action:  "Select at least one CSV or JSON file",
		Code:    "FILE005",
	}
	msgNoRecords = UserMessage{
		Message: "No records were submitted for import",
		Action:  "Preview a file and confirm at least one record",
		Code:    "IMP001",
	}
	msgBusy = UserMessage{
		Message: "Too many imports are running",
		Action:  "Please wait a moment and try again",
		Code:    "IMP002",
	}
	msgOwner = UserMessage{
		Message: "Owner could not be created or found",
		Action:  "Check the owner's name and phone and try again",
		Code:    "IMP003",
	}
	msgUnknownField = UserMessage{
		Message: "Edit names an unknown field",
		Action:  "Only edit the fields shown in the preview",
		Code:    "IMP004",
	}
	msgNoHistory = UserMessage{
		Message: "Import history is not available",
		Action:  "Use a database backend that records import batches",
		Code:    "IMP005",
	}
	msgCancelled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "REQ001",
	}
	msgTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "REQ002",
	}
)

// sentinelMessages are checked before the text patterns.
var sentinelMessages = []sentinelMessage{
	{ErrNoFiles, msgNoFiles},
	{ErrNoRecords, msgNoRecords},
	{ErrTooManyImports, msgBusy},
	{ErrOwnerUnresolved, msgOwner},
	{ErrUnsupportedFileType, msgUnsupported},
	{ErrHistoryUnsupported, msgNoHistory},
	{context.Canceled, msgCancelled},
	{context.DeadlineExceeded, msgTimeout},
}

// errorPatterns are matched with strings.Contains. The first match wins, so
// specific patterns come before general ones.
var errorPatterns = []errorPattern{
	{pattern: "larger than the", msg: msgTooLarge},
	{pattern: "unsupported file type", msg: msgUnsupported},
	{
		pattern: "parse csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Make sure the file is comma-separated and starts with a header row",
			Code:    "FILE003",
		},
	},
	{
		pattern: "parse json",
		msg: UserMessage{
			Message: "File is not valid JSON",
			Action:  "Upload an object or an array of objects",
			Code:    "FILE004",
		},
	},
	{pattern: "no files provided", msg: msgNoFiles},
	{
		pattern: "too many files",
		msg: UserMessage{
			Message: "Too many files in one request",
			Action:  "Upload fewer files at a time",
			Code:    "FILE006",
		},
	},
	{pattern: "no records provided", msg: msgNoRecords},
	{pattern: "too many concurrent imports", msg: msgBusy},
	{pattern: "failed to create/find owner", msg: msgOwner},
	{pattern: "unknown field", msg: msgUnknownField},

	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this value already exists",
			Action:  "Review the row for duplicate values",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "A record with this value already exists",
			Action:  "Review the row for duplicate values",
			Code:    "DB001",
		},
	},
	{
		pattern: "foreign key",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Please try again or contact support",
			Code:    "DB002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB003",
		},
	},
	{
		pattern: "database is locked",
		msg: UserMessage{
			Message: "Database is busy",
			Action:  "Please try again",
			Code:    "DB004",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database is busy",
			Action:  "Please try again",
			Code:    "DB004",
		},
	},

	{pattern: "context canceled", msg: msgCancelled},
	{pattern: "deadline exceeded", msg: msgTimeout},
	{pattern: "timeout", msg: msgTimeout},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "Request is too large",
			Action:  "Upload smaller or fewer files",
			Code:    "REQ003",
		},
	},
	{
		pattern: "invalid request body",
		msg: UserMessage{
			Message: "Request body is not valid JSON",
			Action:  "Check the request format",
			Code:    "REQ004",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. Known
// sentinel errors are matched first, then the error text is searched for
// known patterns. Unmatched errors map to ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.target) {
			return sm.msg
		}
	}

	var unknown *UnknownFieldError
	if errors.As(err, &unknown) {
		return msgUnknownField
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError formats err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
