// Package checker - call-site and diagnostic data model.
package checker

import "go/token"

// Severity classifies a diagnostic.
type Severity int

const (
	// SeverityWarning marks a finding that does not fail the check.
	SeverityWarning Severity = iota
	// SeverityError marks a finding that fails the check.
	SeverityError
)

// String returns the lowercase severity label used in reports.
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Site is one sanctioned-initialization call site found in the scanned
// program: a call to Init or Bind from the staticonce runtime package.
type Site struct {
	// Pos is the source position of the call.
	Pos token.Position

	// Op is the entry point being called: "Init" or "Bind".
	Op string

	// Key identifies the cell being claimed, when the scanner could
	// resolve it: "importpath.VarName" for a package-level cell. Empty
	// when the cell expression could not be resolved syntactically
	// (local cells, computed expressions); unresolved sites still get
	// loop and strict checks but are excluded from duplicate grouping.
	Key string

	// Func is the enclosing function, or "package-level declaration"
	// for claims made in a package-level var initializer.
	Func string

	// InLoop reports whether the call sits inside a for/range statement.
	InLoop bool
}

// Diagnostic is one reportable finding.
type Diagnostic struct {
	Pos      token.Position
	Severity Severity
	Message  string
}

// String renders the diagnostic in the familiar vet-style
// "file:line:col: severity: message" form.
func (d Diagnostic) String() string {
	return d.Pos.String() + ": " + d.Severity.String() + ": " + d.Message
}
