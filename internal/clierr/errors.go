// Package clierr holds the error taxonomy of spec §7: kinds, not type
// names, each carrying an origin annotation so the front end can print a
// configuration site and, where applicable, the RepoNode chain that
// produced the failure. Shaped after the teacher's CommitError/GitError
// (pkg/commit/errors.go, internal/gitcmd/executor.go): a rich struct with
// Error()/Unwrap(), not bare sentinel values.
package clierr

import (
	"fmt"
	"strings"
)

// Kind names one of the error kinds from spec §7.
type Kind string

const (
	KindConfigParse     Kind = "ConfigParse"
	KindCycleDetected   Kind = "CycleDetected"
	KindRepoUnreachable Kind = "RepoUnreachable"
	KindNetwork         Kind = "Network"
	KindCache           Kind = "CacheError"
	KindOperator        Kind = "OperatorError"
	KindTemplate        Kind = "TemplateError"
	KindWrite           Kind = "WriteError"
	KindUsage           Kind = "UsageError"
)

// Origin identifies the configuration site that produced an error: the
// file, the operation index, the operator name, and, where applicable, the
// chain of RepoNode URLs/refs that led to it.
type Origin struct {
	File      string
	Index     int
	Operator  string
	RepoChain []string // "url@ref" entries, root first
}

func (o Origin) String() string {
	var b strings.Builder
	if o.File != "" {
		b.WriteString(o.File)
	}
	if o.Index >= 0 {
		fmt.Fprintf(&b, "[%d]", o.Index)
	}
	if o.Operator != "" {
		fmt.Fprintf(&b, " (%s)", o.Operator)
	}
	if len(o.RepoChain) > 0 {
		fmt.Fprintf(&b, " via %s", strings.Join(o.RepoChain, " -> "))
	}
	return b.String()
}

// Error is the rich error type carried by every fatal error in the
// pipeline.
type Error struct {
	Kind    Kind
	Origin  Origin
	Message string
	Cause   error
}

func (e *Error) Error() string {
	origin := e.Origin.String()
	if origin != "" {
		origin = origin + ": "
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s%s: %s: %v", origin, e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s%s: %s", origin, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is allows errors.Is(err, &Error{Kind: K}) to match any *Error of kind K.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	if other.Kind == "" {
		return true
	}
	return e.Kind == other.Kind
}

// New constructs an *Error.
func New(kind Kind, origin Origin, message string, cause error) *Error {
	return &Error{Kind: kind, Origin: origin, Message: message, Cause: cause}
}

// CycleDetected builds the GraphError variant carrying the full cycle
// chain, in traversal order (spec §7, §8 property 8).
func CycleDetected(chain []string) *Error {
	return New(KindCycleDetected, Origin{RepoChain: chain, Index: -1}, "cycle detected: "+strings.Join(chain, " -> "), nil)
}
