package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "missing file maps correctly",
			err:         errors.New("open /data/stores.csv: no such file or directory"),
			wantCode:    "FILE001",
			wantMessage: "The store data file could not be found",
		},
		{
			name:        "size limit maps correctly",
			err:         errors.New("read dataset: file too large (limit 1024 bytes)"),
			wantCode:    "FILE002",
			wantMessage: "The store data exceeds the size limit",
		},
		{
			name:        "bad status maps correctly",
			err:         errors.New("fetch https://x/stores.csv: unexpected status 404 Not Found"),
			wantCode:    "LOAD001",
			wantMessage: "The data server returned an error",
		},
		{
			name:        "connection refused maps correctly",
			err:         errors.New("dial tcp 127.0.0.1:80: connection refused"),
			wantCode:    "LOAD002",
			wantMessage: "Unable to reach the data server",
		},
		{
			name:        "deadline maps to timeout",
			err:         fmt.Errorf("fetch: %w", errors.New("context deadline exceeded")),
			wantCode:    "LOAD003",
			wantMessage: "Loading store data took too long",
		},
		{
			name:        "s3 missing key",
			err:         errors.New("NoSuchKey: The specified key does not exist."),
			wantCode:    "LOAD004",
			wantMessage: "The store data object does not exist",
		},
		{
			name:        "empty snapshot table",
			err:         errors.New("query snapshot: no rows in result set"),
			wantCode:    "LOAD005",
			wantMessage: "No store data snapshot is available",
		},
		{
			name:        "not loaded sentinel",
			err:         ErrNotLoaded,
			wantCode:    "DIR001",
			wantMessage: "Store data has not been loaded",
		},
		{
			name:        "store not found sentinel",
			err:         ErrStoreNotFound,
			wantCode:    "DIR002",
			wantMessage: "Store not found",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("CONNECTION REFUSED"),
			wantCode:    "LOAD002",
			wantMessage: "Unable to reach the data server",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrStoreNotFound)

	expected := "Store not found (Code: DIR002). Return to the directory and pick a store from the list"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error is not user facing", err: nil, want: false},
		{name: "known error is user facing", err: ErrNotLoaded, want: true},
		{name: "unknown error is not user facing", err: errors.New("random internal error xyz"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := errors.New("dial tcp: connection refused")
		userErr := NewUserError(techErr)

		if userErr.Error() != "Unable to reach the data server" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, techErr) {
			t.Error("Unwrap() should return original error")
		}
	})
}
