package rgerrors

import (
	"errors"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(IoError, "failed to write genome", cause).WithHint("repogenome scan", "regenerate the genome")

	if got, want := err.Error(), "[IO_ERROR] failed to write genome: boom"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to unwrap to cause")
	}
	if err.Hint == nil || err.Hint.Command != "repogenome scan" {
		t.Fatalf("expected hint to be set")
	}
}

func TestExitCode(t *testing.T) {
	cases := map[Code]int{
		InvalidInput:      2,
		Stale:              3,
		InvariantViolation: 3,
		AnalysisError:      4,
		IoError:            5,
		ContractViolation:  64,
	}
	for code, want := range cases {
		if got := ExitCode(code); got != want {
			t.Errorf("ExitCode(%s) = %d, want %d", code, got, want)
		}
	}
}

func TestCodeOf(t *testing.T) {
	if CodeOf(nil) != "" {
		t.Fatalf("expected empty code for nil error")
	}
	err := New(NotFound, "missing node")
	if CodeOf(err) != NotFound {
		t.Fatalf("expected NotFound code")
	}
	if CodeOf(errors.New("plain")) != "INTERNAL_ERROR" {
		t.Fatalf("expected INTERNAL_ERROR for unrecognized error")
	}
}
