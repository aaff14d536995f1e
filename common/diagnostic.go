package common

import (
	"fmt"
)

type Severity uint8

const (
	SeverityError Severity = iota + 1
	SeverityWarning
)

// Diagnostic is a compile problem at a byte span of one file.
type Diagnostic struct {
	Severity Severity
	Message  string
	Span     Span
	Path     string
}

func (d *Diagnostic) Error() string {
	if d.Path == "" {
		return fmt.Sprintf("%s: %s", d.Span, d.Message)
	}
	return fmt.Sprintf("%s:%s: %s", d.Path, d.Span, d.Message)
}

func ErrorDiag(msg string, span Span) *Diagnostic {
	return &Diagnostic{Severity: SeverityError, Message: msg, Span: span}
}

func WarningDiag(msg string, span Span) *Diagnostic {
	return &Diagnostic{Severity: SeverityWarning, Message: msg, Span: span}
}

func PanicDiag(msg string, span Span) {
	panic(ErrorDiag(msg, span))
}
