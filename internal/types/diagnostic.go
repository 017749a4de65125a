package types

import "fmt"

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

type DiagnosticClass string

const (
	DiagnosticTypeMismatch DiagnosticClass = "type-mismatch"
	DiagnosticRange        DiagnosticClass = "range"
	DiagnosticStructural   DiagnosticClass = "structural"
	DiagnosticProtection   DiagnosticClass = "protection"
)

type Diagnostic struct {
	Severity Severity
	Class    DiagnosticClass
	Key      string
	Message  string
}

// String renders the line printed to the user, e.g.
// "config error: option nu.os.kernel.level value 150 out of range [0, 100]".
func (d Diagnostic) String() string {
	return fmt.Sprintf("config %s: %s", d.Severity, d.Message)
}

// ResolutionReport carries every diagnostic produced by one resolution pass
// in override order.
type ResolutionReport struct {
	Diagnostics []Diagnostic
	Applied     int
	Skipped     int
	Restored    []string
}

func (r ResolutionReport) Failed() bool {
	return len(r.Errors()) > 0
}

func (r ResolutionReport) Errors() []Diagnostic {
	return r.filter(SeverityError)
}

func (r ResolutionReport) Warnings() []Diagnostic {
	return r.filter(SeverityWarning)
}

func (r ResolutionReport) filter(severity Severity) []Diagnostic {
	var out []Diagnostic
	for _, diag := range r.Diagnostics {
		if diag.Severity == severity {
			out = append(out, diag)
		}
	}
	return out
}
