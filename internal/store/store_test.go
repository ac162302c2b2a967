package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestSplitPath(t *testing.T) {
	tests := []struct {
		path           string
		wantCollection string
		wantID         string
		wantErr        bool
	}{
		{path: "users/alice", wantCollection: "users", wantID: "alice"},
		{path: "notifications/cv37rs3pp9olc6atsptg", wantCollection: "notifications", wantID: "cv37rs3pp9olc6atsptg"},
		{path: "users", wantErr: true},
		{path: "/alice", wantErr: true},
		{path: "users/", wantErr: true},
		{path: "users/alice/likes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			collection, id, err := SplitPath(tt.path)
			if tt.wantErr {
				if CodeOf(err) != CodeInvalidArgument {
					t.Errorf("SplitPath(%q) error = %v, want invalid-argument", tt.path, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitPath(%q) error = %v", tt.path, err)
			}
			if collection != tt.wantCollection || id != tt.wantID {
				t.Errorf("SplitPath(%q) = (%q, %q), want (%q, %q)", tt.path, collection, id, tt.wantCollection, tt.wantID)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("loading profile: %w", &Error{Code: CodeUnavailable, Op: "get", Err: errors.New("busy")})

	if got := CodeOf(wrapped); got != CodeUnavailable {
		t.Errorf("CodeOf(wrapped) = %s, want %s", got, CodeUnavailable)
	}
	if got := CodeOf(errors.New("plain")); got != CodeInternal {
		t.Errorf("CodeOf(plain) = %s, want %s", got, CodeInternal)
	}
	if IsNotFound(nil) {
		t.Error("IsNotFound(nil) = true")
	}
}

func TestCodeRetryable(t *testing.T) {
	retryable := map[Code]bool{
		CodeNotFound:         false,
		CodeInvalidArgument:  false,
		CodeUnavailable:      true,
		CodeDeadlineExceeded: true,
		CodeCancelled:        false,
		CodeAborted:          true,
		CodeInternal:         false,
	}
	for code, want := range retryable {
		if got := code.Retryable(); got != want {
			t.Errorf("%s.Retryable() = %v, want %v", code, got, want)
		}
	}
}
