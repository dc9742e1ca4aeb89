package core

// errors.go defines the sentinel errors of a build run and maps any run
// error to a user-facing message with a support code.
//
//	FILE002 - Invalid CSV: an input file is not valid comma-separated data
//	FILE003 - Encoding error: an input file is not UTF-8
//	OUT001  - Output failed: the dashboard data file could not be written
//	CFG001  - Invalid rules: the client rule table could not be loaded
//	RUN001  - Run cancelled: the run was interrupted before completion
//	ERR000  - Unknown error: anything else; check the log for details

import (
	"context"
	"errors"
)

// Sentinel errors. Wrapped errors carry the file name and position.
var (
	ErrInvalidCSV      = errors.New("invalid csv")
	ErrInvalidEncoding = errors.New("encoding error")
	ErrWriteOutput     = errors.New("write output")
	ErrInvalidRules    = errors.New("invalid client rules")
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorMapping pairs a target error with its message.
// The first target matched with errors.Is wins.
type errorMapping struct {
	target error
	msg    UserMessage
}

var errorMappings = []errorMapping{
	{
		target: ErrInvalidEncoding,
		msg: UserMessage{
			Message: "An input file contains invalid characters",
			Action:  "Re-export the file as CSV UTF-8",
			Code:    "FILE003",
		},
	},
	{
		target: ErrInvalidCSV,
		msg: UserMessage{
			Message: "An input file is not a valid CSV",
			Action:  "Ensure the file is comma-separated with a header row",
			Code:    "FILE002",
		},
	},
	{
		target: ErrWriteOutput,
		msg: UserMessage{
			Message: "The dashboard data file could not be written",
			Action:  "Check that the output directory exists and is writable",
			Code:    "OUT001",
		},
	},
	{
		target: ErrInvalidRules,
		msg: UserMessage{
			Message: "The client name rules could not be loaded",
			Action:  "Fix the rules file or unset CLIENT_RULES_FILE",
			Code:    "CFG001",
		},
	},
	{
		target: context.Canceled,
		msg: UserMessage{
			Message: "The run was cancelled",
			Action:  "Run the build again",
			Code:    "RUN001",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the log output for details",
	Code:    "ERR000",
}

// MapError converts a run error to a UserMessage.
// Returns the zero UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.msg
		}
	}
	return defaultMessage
}
