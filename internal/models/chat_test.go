package models

import "testing"

func TestConversationStatusValid(t *testing.T) {
	for _, s := range []ConversationStatus{StatusUnassigned, StatusActive, StatusClosed} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []ConversationStatus{"", "open", "CLOSED"} {
		if s.Valid() {
			t.Errorf("%q should not be valid", s)
		}
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to ConversationStatus
		want     bool
	}{
		{StatusUnassigned, StatusActive, true},
		{StatusUnassigned, StatusClosed, true},
		{StatusActive, StatusClosed, true},
		{StatusActive, StatusUnassigned, false},
		{StatusClosed, StatusActive, false}, // reopen is a separate admin operation
		{StatusClosed, StatusUnassigned, false},
		{StatusClosed, StatusClosed, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("CanTransition(%s -> %s) = %t, want %t", tt.from, tt.to, got, tt.want)
		}
	}
}
