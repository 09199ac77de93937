package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	cause := errors.New("disk I/O error")
	cases := []struct {
		name     string
		err      error
		kind     Kind
		sentinel error
	}{
		{"validation", Validation(ErrInvalidDate), KindValidation, ErrValidation},
		{"not found", NotFound("user %d not found", 7), KindNotFound, ErrNotFound},
		{"forbidden", Forbidden("transaction %d is not yours", 3), KindForbidden, ErrForbidden},
		{"duplicate", DuplicateKey("email %q already exists", "a@b.c"), KindDuplicateKey, ErrDuplicateKey},
		{"storage", Storage(cause, "create user"), KindStorage, ErrStorage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tc.err)
			if got := KindOf(wrapped); got != tc.kind {
				t.Errorf("KindOf = %s, want %s", got, tc.kind)
			}
			if !errors.Is(wrapped, tc.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tc.sentinel)
			}
		})
	}
}

func TestErrorKeepsCause(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := Storage(cause, "delete user %d", 1)
	if !errors.Is(err, cause) {
		t.Fatal("storage error should unwrap to its cause")
	}
	if err.Error() != "delete user 1: disk I/O error" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	v := Validation(ErrInvalidMonth)
	if !errors.Is(v, ErrInvalidMonth) || errors.Is(v, ErrNotFound) {
		t.Fatal("validation error should match its cause and only its own kind")
	}
}

func TestKindOfUnclassified(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != KindStorage {
		t.Fatalf("got %s, want %s", got, KindStorage)
	}
}
