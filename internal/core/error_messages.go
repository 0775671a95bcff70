// Package core provides the store directory domain logic.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. Users quote the code shown in the UI; support staff look it up
// here.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Dataset missing: The store data file could not be found
//	          Action: Check the DATASET_SOURCE path
//	          Patterns: "no such file"
//
//	FILE002 - Dataset too large: The store data exceeds the size limit
//	          Action: Raise DATASET_MAX_BYTES or trim the export
//	          Patterns: "file too large"
//
// # Load Errors (LOAD001-LOAD099)
//
//	LOAD001 - Bad response: The data server returned an error status
//	          Patterns: "unexpected status"
//
//	LOAD002 - Unreachable: The data server refused the connection
//	          Patterns: "connection refused"
//
//	LOAD003 - Timeout: Loading store data took too long
//	          Patterns: "deadline exceeded", "timeout"
//
//	LOAD004 - Object missing: The bucket or object does not exist
//	          Patterns: "nosuchkey", "nosuchbucket"
//
//	LOAD005 - No snapshot: The snapshot table has no rows
//	          Patterns: "no rows in result set"
//
// # Directory Errors (DIR001-DIR099)
//
//	DIR001 - Not loaded: Store data has not been loaded
//	         Patterns: "dataset not loaded"
//
//	DIR002 - Store not found: No store exists at that position
//	         Patterns: "store not found"
//
// # Configuration Errors (CFG001-CFG099)
//
//	CFG001 - Invalid schema: The column mapping file could not be read
//	         Patterns: "invalid schema"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check the server log for the
// original error; every entry carries the request ID.
//
// # Pattern Matching
//
// Patterns are matched case-insensitively with strings.Contains and the first
// match wins, so specific patterns come before general ones.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Order matters: the first matching pattern wins.
var errorPatterns = []errorPattern{
	// =========================================================================
	// File Errors (FILE001-FILE002)
	// =========================================================================
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "The store data file could not be found",
			Action:  "Check the DATASET_SOURCE path",
			Code:    "FILE001",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "The store data exceeds the size limit",
			Action:  "Raise DATASET_MAX_BYTES or trim the export",
			Code:    "FILE002",
		},
	},

	// =========================================================================
	// Load Errors (LOAD001-LOAD005)
	// =========================================================================
	{
		pattern: "unexpected status",
		msg: UserMessage{
			Message: "The data server returned an error",
			Action:  "Verify the dataset URL and try reloading",
			Code:    "LOAD001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to reach the data server",
			Action:  "Please try again in a few moments",
			Code:    "LOAD002",
		},
	},
	{
		pattern: "deadline exceeded",
		msg: UserMessage{
			Message: "Loading store data took too long",
			Action:  "Try reloading or raise DATASET_FETCH_TIMEOUT",
			Code:    "LOAD003",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Loading store data took too long",
			Action:  "Try reloading or raise DATASET_FETCH_TIMEOUT",
			Code:    "LOAD003",
		},
	},
	{
		pattern: "nosuchkey",
		msg: UserMessage{
			Message: "The store data object does not exist",
			Action:  "Check the bucket and key in DATASET_SOURCE",
			Code:    "LOAD004",
		},
	},
	{
		pattern: "nosuchbucket",
		msg: UserMessage{
			Message: "The store data bucket does not exist",
			Action:  "Check the bucket and key in DATASET_SOURCE",
			Code:    "LOAD004",
		},
	},
	{
		pattern: "no rows in result set",
		msg: UserMessage{
			Message: "No store data snapshot is available",
			Action:  "Publish a snapshot to the configured table",
			Code:    "LOAD005",
		},
	},

	// =========================================================================
	// Directory Errors (DIR001-DIR002)
	// =========================================================================
	{
		pattern: "dataset not loaded",
		msg: UserMessage{
			Message: "Store data has not been loaded",
			Action:  "Reload the directory or check the server log",
			Code:    "DIR001",
		},
	},
	{
		pattern: "store not found",
		msg: UserMessage{
			Message: "Store not found",
			Action:  "Return to the directory and pick a store from the list",
			Code:    "DIR002",
		},
	},

	// =========================================================================
	// Configuration Errors (CFG001)
	// =========================================================================
	{
		pattern: "invalid schema",
		msg: UserMessage{
			Message: "The column mapping file is invalid",
			Action:  "Fix the YAML in SCHEMA_FILE",
			Code:    "CFG001",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, the ERR000 fallback is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific (non-ERR000) message.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
