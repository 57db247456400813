package apperr

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestNotFoundMatchesSentinel(t *testing.T) {
	errDoctor := NotFound("doctor")
	if !errors.Is(errDoctor, ErrNotFound) {
		t.Fatal("expected entity sentinel to match ErrNotFound")
	}
	if errDoctor.Error() != "doctor not found" {
		t.Errorf("unexpected message %q", errDoctor.Error())
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := Invalid("book", "missing required fields", "patientId", "time")
	ve, ok := AsValidation(err)
	if !ok {
		t.Fatal("expected validation error")
	}
	if len(ve.Fields) != 2 {
		t.Errorf("expected 2 fields, got %d", len(ve.Fields))
	}
	want := "book: missing required fields (patientId, time)"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestGuardRecoversPanic(t *testing.T) {
	log, hook := test.NewNullLogger()

	err := Guard(log, "set_availability", func() error {
		var m map[string]int
		m["x"] = 1
		return nil
	})
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
	if len(hook.Entries) != 1 || hook.LastEntry().Level != logrus.ErrorLevel {
		t.Errorf("expected one error log entry, got %d", len(hook.Entries))
	}
}

func TestGuardPassesThroughErrors(t *testing.T) {
	log, hook := test.NewNullLogger()
	want := errors.New("boom")

	if err := Guard(log, "op", func() error { return want }); err != want {
		t.Errorf("expected passthrough error, got %v", err)
	}
	if len(hook.Entries) != 0 {
		t.Error("plain errors should not be logged by Guard")
	}
}
