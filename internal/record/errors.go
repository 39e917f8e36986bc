package record

import "fmt"

// Kind is the closed set of error kinds a decode operation can fail
// with (spec.md §4.7). Exactly one kind is carried per Error; errors
// never chain beyond the first one encountered on a decode path.
type Kind int

const (
	// KindCborDecodingFailed is a byte-level malformed-CBOR failure.
	KindCborDecodingFailed Kind = iota
	// KindUnexpectedCborType is a CBOR-kind mismatch at a specific field.
	KindUnexpectedCborType
	// KindReferenceDecodingFailed is an invalid @link multihash.
	KindReferenceDecodingFailed
	// KindTypeNameNotFound marks a map with no "type" field.
	KindTypeNameNotFound
	// KindUnexpectedObjectType marks an unknown or inapplicable type tag.
	KindUnexpectedObjectType
	// KindRequiredFieldNotFound marks a missing required structural field.
	KindRequiredFieldNotFound
)

func (k Kind) String() string {
	switch k {
	case KindCborDecodingFailed:
		return "CborDecodingFailed"
	case KindUnexpectedCborType:
		return "UnexpectedCborType"
	case KindReferenceDecodingFailed:
		return "ReferenceDecodingFailed"
	case KindTypeNameNotFound:
		return "TypeNameNotFound"
	case KindUnexpectedObjectType:
		return "UnexpectedObjectType"
	case KindRequiredFieldNotFound:
		return "RequiredFieldNotFound"
	default:
		return "UnknownError"
	}
}

// Error is the single error type every fallible operation in this
// package returns. It never embeds raw bytes or a stack trace — only
// the field name or type string needed to diagnose, per spec.md §4.7.
type Error struct {
	Kind    Kind
	Field   string // set for RequiredFieldNotFound, UnexpectedCborType
	Subject string // set for UnexpectedObjectType (an unknown tag seen, or the tag a single-tag decoder expects)
	detail  string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindRequiredFieldNotFound:
		return fmt.Sprintf("required field not found: %s", e.Field)
	case KindUnexpectedObjectType:
		return fmt.Sprintf("unexpected object type: %s", e.Subject)
	case KindUnexpectedCborType:
		if e.Field != "" {
			return fmt.Sprintf("unexpected cbor type for field %q: %s", e.Field, e.detail)
		}
		return fmt.Sprintf("unexpected cbor type: %s", e.detail)
	case KindReferenceDecodingFailed:
		return fmt.Sprintf("reference decoding failed: %s", e.detail)
	case KindTypeNameNotFound:
		return "type field not found"
	case KindCborDecodingFailed:
		return "cbor decoding failed"
	default:
		return "record: unknown error"
	}
}

// Is supports errors.Is(err, record.ErrXxx) comparisons against the
// sentinel values below, matching on Kind only.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel errors for errors.Is comparisons; callers compare kinds, not
// identity, since every construction site builds a fresh *Error.
var (
	ErrCborDecodingFailed      = &Error{Kind: KindCborDecodingFailed}
	ErrUnexpectedCborType      = &Error{Kind: KindUnexpectedCborType}
	ErrReferenceDecodingFailed = &Error{Kind: KindReferenceDecodingFailed}
	ErrTypeNameNotFound        = &Error{Kind: KindTypeNameNotFound}
	ErrUnexpectedObjectType    = &Error{Kind: KindUnexpectedObjectType}
	ErrRequiredFieldNotFound   = &Error{Kind: KindRequiredFieldNotFound}
)

func newCborDecodingFailed(detail string) *Error {
	return &Error{Kind: KindCborDecodingFailed, detail: detail}
}

func newUnexpectedCborType(field, detail string) *Error {
	return &Error{Kind: KindUnexpectedCborType, Field: field, detail: detail}
}

func newReferenceDecodingFailed(detail string) *Error {
	return &Error{Kind: KindReferenceDecodingFailed, detail: detail}
}

func newTypeNameNotFound() *Error {
	return &Error{Kind: KindTypeNameNotFound}
}

func newUnexpectedObjectType(tag string) *Error {
	return &Error{Kind: KindUnexpectedObjectType, Subject: tag}
}

func newRequiredFieldNotFound(field string) *Error {
	return &Error{Kind: KindRequiredFieldNotFound, Field: field}
}
