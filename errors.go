package iconpack

import (
	"errors"
	"fmt"
)

// FailureKind classifies conversion failures so callers can react to a
// category without parsing message text.
type FailureKind int

const (
	// UnsupportedFormat means no registered format matched the input.
	UnsupportedFormat FailureKind = iota
	// OversizedFile means the input exceeds its format's byte limit.
	OversizedFile
	// NoSizesProduced means every requested size failed to rasterize.
	NoSizesProduced
	// EncodeFailed means container or document serialization failed.
	EncodeFailed
	// Timeout means an item took longer than its allotted time.
	Timeout
	// ArchivePackagingFailed means the archive collaborator errored.
	ArchivePackagingFailed
	// InvalidRequest means the request itself was malformed, for example
	// an out-of-range size.
	InvalidRequest
)

func (k FailureKind) String() string {
	switch k {
	case UnsupportedFormat:
		return "unsupported format"
	case OversizedFile:
		return "oversized file"
	case NoSizesProduced:
		return "no sizes produced"
	case EncodeFailed:
		return "encode failed"
	case Timeout:
		return "timeout"
	case ArchivePackagingFailed:
		return "archive packaging failed"
	case InvalidRequest:
		return "invalid request"
	}
	return "unknown failure"
}

// Failure is a conversion error with a user-facing message.
// The wrapped cause, if any, carries the technical detail and is only
// surfaced through the debug log.
type Failure struct {
	Kind    FailureKind
	Message string
	Cause   error
}

func (f *Failure) Error() string {
	if f.Message != "" {
		return f.Message
	}
	return f.Kind.String()
}

func (f *Failure) Unwrap() error {
	return f.Cause
}

// Is reports kind equality so errors.Is works against a bare kind sentinel.
func (f *Failure) Is(target error) bool {
	if other, ok := target.(*Failure); ok {
		return f.Kind == other.Kind
	}
	return false
}

// failf builds a Failure with a formatted user-facing message.
func failf(kind FailureKind, format string, args ...interface{}) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is a Failure of the given kind.
func IsKind(err error, kind FailureKind) bool {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind == kind
	}
	return false
}
