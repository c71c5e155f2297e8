package diag_test

import (
	"strings"
	"testing"

	"github.com/ospc-org/ospc/build/diag"
	"github.com/ospc-org/ospc/build/source"
)

func TestDiagnosticString(t *testing.T) {
	pos := source.New("foo.ispc", 4, 11)
	tests := []struct {
		diag *diag.Diagnostic
		want string
	}{
		{
			diag: diag.Errorf(pos, "cannot convert %q to %q", "varying int32", "uniform int32"),
			want: `foo.ispc:4:11: Error: cannot convert "varying int32" to "uniform int32"`,
		},
		{
			diag: diag.Warningf(pos, "value is never used"),
			want: "foo.ispc:4:11: Warning: value is never used",
		},
		{
			diag: diag.PerfWarningf(pos, "gather required"),
			want: "foo.ispc:4:11: Performance Warning: gather required",
		},
	}
	for ti, test := range tests {
		if got := test.diag.Error(); got != test.want {
			t.Errorf("test %d: got %q but want %q", ti, got, test.want)
		}
	}
}

func TestBag(t *testing.T) {
	pos := source.New("foo.ispc", 1, 1)
	bag := &diag.Bag{}
	if !bag.Empty() {
		t.Errorf("new bag is not empty")
	}
	if err := bag.ToError(); err != nil {
		t.Errorf("empty bag converts to error %v but want nil", err)
	}
	bag.Report(diag.Warningf(pos, "first"))
	if got := bag.ErrorCount(); got != 0 {
		t.Errorf("got %d errors but want 0: warnings do not count", got)
	}
	if err := bag.ToError(); err != nil {
		t.Errorf("warning-only bag converts to error %v but want nil", err)
	}
	bag.Report(diag.Errorf(pos, "second"))
	bag.Report(diag.Errorf(pos, "third"))
	if got := bag.ErrorCount(); got != 2 {
		t.Errorf("got %d errors but want 2", got)
	}
	err := bag.ToError()
	if err == nil {
		t.Fatalf("bag with errors converts to nil error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "second") || !strings.Contains(msg, "third") {
		t.Errorf("combined error %q does not mention both errors", msg)
	}
	if strings.Contains(msg, "first") {
		t.Errorf("combined error %q mentions a warning", msg)
	}
	if got, want := len(bag.Diagnostics()), 3; got != want {
		t.Errorf("got %d diagnostics but want %d", got, want)
	}
}

func TestInternal(t *testing.T) {
	err := diag.Internalf("unhandled kind %d", 42)
	if !diag.IsInternal(err) {
		t.Errorf("IsInternal is false for an internal error")
	}
	if diag.IsInternal(diag.Errorf(source.Pos{}, "plain")) {
		t.Errorf("IsInternal is true for a plain diagnostic")
	}
	if !strings.Contains(err.Error(), "unhandled kind 42") {
		t.Errorf("internal error %q does not carry its message", err.Error())
	}
}
