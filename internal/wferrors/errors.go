// Package wferrors defines the closed set of error kinds surfaced to
// workflow callers, and a Diagnostics type for batching validation errors so
// a user sees every problem in one report instead of stopping at the first.
package wferrors

import (
	"fmt"
	"strings"
)

// Kind is one of the error kinds named in SPEC_FULL.md §7.
type Kind string

const (
	KindParse            Kind = "ParseError"
	KindValidation       Kind = "ValidationError"
	KindConfig           Kind = "ConfigError"
	KindIO               Kind = "IOError"
	KindDecode           Kind = "DecodeError"
	KindDependencyFailed Kind = "DependencyFailed"
	KindNode             Kind = "NodeError"
)

// Error is a typed workflow error wrapping an underlying cause. For
// KindNode it also carries the failing node's id.
type Error struct {
	Kind   Kind
	NodeID string
	msg    string
	cause  error
}

func (e *Error) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("%s[%s]: %s", e.Kind, e.NodeID, e.msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

func (e *Error) Unwrap() error { return e.cause }

// New constructs a bare Error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, msg: msg}
}

// Wrap constructs an Error of the given kind wrapping cause.
func Wrap(kind Kind, cause error, msg string) *Error {
	return &Error{Kind: kind, msg: msg, cause: cause}
}

// NodeFailure constructs a KindNode error identifying the failing node.
func NodeFailure(nodeID string, cause error) *Error {
	return &Error{Kind: KindNode, NodeID: nodeID, msg: cause.Error(), cause: cause}
}

// DependencyFailed constructs a KindDependencyFailed error identifying the
// upstream producer that failed or closed without sending.
func DependencyFailed(producerID string, cause error) *Error {
	msg := fmt.Sprintf("producer %q closed without sending", producerID)
	if cause != nil {
		msg = fmt.Sprintf("producer %q failed: %v", producerID, cause)
	}
	return &Error{Kind: KindDependencyFailed, NodeID: producerID, msg: msg, cause: cause}
}

// Diagnostics batches ValidationError-kind problems collected across the
// loader's validation pipeline so every issue is reported at once rather
// than aborting at the first.
type Diagnostics []error

// Add appends err if non-nil.
func (d *Diagnostics) Add(err error) {
	if err != nil {
		*d = append(*d, err)
	}
}

// Addf appends a formatted ValidationError.
func (d *Diagnostics) Addf(format string, args ...any) {
	d.Add(New(KindValidation, fmt.Sprintf(format, args...)))
}

// HasErrors reports whether any diagnostics were recorded.
func (d Diagnostics) HasErrors() bool {
	return len(d) > 0
}

// Err returns nil if there are no diagnostics, or a single error joining
// every recorded message, one per line.
func (d Diagnostics) Err() error {
	if len(d) == 0 {
		return nil
	}
	lines := make([]string, len(d))
	for i, e := range d {
		lines[i] = e.Error()
	}
	return New(KindValidation, "\n- "+strings.Join(lines, "\n- "))
}
