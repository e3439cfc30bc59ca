// Package errs defines the sentinel errors returned by the recfmt core.
//
// All errors are plain sentinel values suitable for errors.Is checks.
// Call sites add context with fmt.Errorf("...: %w", err) when useful.
package errs

import "errors"

// Scheme construction and validation errors.
var (
	// ErrEmptyScheme is returned when validating a scheme with no fields.
	ErrEmptyScheme = errors.New("scheme has no fields")

	// ErrSchemeValidated is returned when mutating an already validated scheme.
	ErrSchemeValidated = errors.New("scheme is already validated")

	// ErrSchemeNotValidated is returned when using a scheme before validation.
	ErrSchemeNotValidated = errors.New("scheme is not validated")

	// ErrUnknownOption is returned for an unrecognized field option token.
	ErrUnknownOption = errors.New("unknown field option")

	// ErrBadKeyOption is returned for a malformed key(N) option token.
	ErrBadKeyOption = errors.New("malformed key option")

	// ErrMissingOptions is returned when a field has no options string.
	ErrMissingOptions = errors.New("field has no options")

	// ErrMissingType is returned when a field options string assigns no type.
	ErrMissingType = errors.New("field has no type")

	// ErrRoleConflict is returned when a field combines more than one of the
	// key, flags, lsn, timestamp and expire roles.
	ErrRoleConflict = errors.New("conflicting field roles")

	// ErrBadMetaType is returned when a meta role is paired with the wrong
	// storage type (flags must be u8, lsn u64, timestamp and expire u32).
	ErrBadMetaType = errors.New("invalid meta field type")

	// ErrDuplicateMeta is returned when a meta role appears more than once.
	ErrDuplicateMeta = errors.New("duplicate meta field")

	// ErrExpireWithoutTimestamp is returned when a scheme declares an expire
	// field but no timestamp field.
	ErrExpireWithoutTimestamp = errors.New("expire field requires a timestamp field")

	// ErrNoKeys is returned when a scheme declares no key fields.
	ErrNoKeys = errors.New("scheme has no key fields")

	// ErrBadKeyPosition is returned when a key position is out of range,
	// duplicated, or leaves a key slot unfilled.
	ErrBadKeyPosition = errors.New("invalid key position")

	// ErrDuplicateField is returned when two fields share a name.
	ErrDuplicateField = errors.New("duplicate field name")
)

// Serialization errors.
var (
	// ErrCorruptScheme is returned when a serialized scheme buffer is truncated
	// or internally inconsistent.
	ErrCorruptScheme = errors.New("corrupt scheme buffer")

	// ErrCorruptValue is returned when a raw packed value is shorter than the
	// scheme's fixed layout requires.
	ErrCorruptValue = errors.New("corrupt packed value")
)

// Document errors. The message text of the first three is part of the
// embedding contract and must not change.
var (
	// ErrDocumentReadOnly is returned on assignment to a committed document.
	ErrDocumentReadOnly = errors.New("document is read-only")

	// ErrIncompleteKey is returned when committing a document with unset key fields.
	ErrIncompleteKey = errors.New("incomplete key")

	// ErrPrefixNotString is returned when a prefix search is requested against
	// a non-string key field 0.
	ErrPrefixNotString = errors.New("prefix search is only supported for a string key")

	// ErrFieldPosition is returned for an out-of-range field position.
	ErrFieldPosition = errors.New("incorrect field position")

	// ErrFieldNotFound is returned when a field name does not resolve.
	ErrFieldNotFound = errors.New("field not found")

	// ErrBadOrderName is returned for an unknown ordering name.
	ErrBadOrderName = errors.New("bad order name")

	// ErrFieldTooBig is returned when a field value exceeds its size limit.
	ErrFieldTooBig = errors.New("field is too big")

	// ErrNotNumeric is returned on an integer assignment against a field that
	// is not a fixed-width integer type. Integer reads of such a field return
	// -1 instead.
	ErrNotNumeric = errors.New("numeric field type expected")

	// ErrTooManyFields is returned when a scheme exceeds the document's
	// pending-field capacity.
	ErrTooManyFields = errors.New("too many fields for a document")
)

// Engine errors.
var (
	// ErrEngineClosed is returned when using an engine after Close.
	ErrEngineClosed = errors.New("engine is closed")

	// ErrNotDestroyed is returned when recycling a document that has not been
	// destroyed.
	ErrNotDestroyed = errors.New("document is not destroyed")
)
