package domain

import (
	"errors"
	"fmt"
)

// FaultKind classifies a Fault.
type FaultKind string

const (
	// KindSchema is an unsupported schema version or a malformed manifest
	KindSchema FaultKind = "schema"
	// KindIO is a filesystem, archive or network failure
	KindIO FaultKind = "io"
	// KindNotFound is a missing item, menu, page or tag
	KindNotFound FaultKind = "not-found"
	// KindInvalidInput is a request that cannot be processed as given
	KindInvalidInput FaultKind = "invalid-input"
	// KindRemote is a rejected push to a remote instance
	KindRemote FaultKind = "remote"
)

// ErrNotFound is matched by every not-found Fault.
var ErrNotFound = errors.New("not found")

// Fault is the error type raised by the exchange, batch and sync packages.
type Fault struct {
	Kind FaultKind
	Op   string
	Err  error
}

func (f *Fault) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("%s: %s", f.Op, f.Kind)
	}
	return fmt.Sprintf("%s: %v", f.Op, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// Is makes errors.Is(err, ErrNotFound) hold for not-found faults.
func (f *Fault) Is(target error) bool {
	return target == ErrNotFound && f.Kind == KindNotFound
}

// IOFault wraps a filesystem, archive or network error.
func IOFault(op string, err error) error {
	return &Fault{Kind: KindIO, Op: op, Err: err}
}

// SchemaFault reports an unreadable or incompatible manifest.
func SchemaFault(op string, err error) error {
	return &Fault{Kind: KindSchema, Op: op, Err: err}
}

// NotFound reports a missing entity.
func NotFound(entity, id string) error {
	return &Fault{Kind: KindNotFound, Op: "load " + entity, Err: fmt.Errorf("%s %q %w", entity, id, ErrNotFound)}
}

// InvalidInput reports a request that cannot be processed.
func InvalidInput(op, msg string) error {
	return &Fault{Kind: KindInvalidInput, Op: op, Err: errors.New(msg)}
}

// IsKind reports whether err carries a Fault of the given kind.
func IsKind(err error, kind FaultKind) bool {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind == kind
	}
	return false
}
