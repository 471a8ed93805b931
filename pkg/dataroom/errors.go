package dataroom

import "errors"

// Error represents a domain error from lifecycle operations.
//
// These are business logic errors (name collision, missing entity, invalid
// move) as opposed to infrastructure errors. Infrastructure failures from the
// metadata or blob stores are carried inside an Error with KindDatabase or
// KindBlob and the originating cause attached.
//
// Callers discriminate on Kind rather than matching message strings:
//
//	var derr *dataroom.Error
//	if errors.As(err, &derr) && derr.Kind == dataroom.KindAlreadyExists {
//	    // prompt the user for a collision action
//	}
type Error struct {
	// Kind is the error category
	Kind ErrorKind

	// Message is a human-readable error description
	Message string

	// Name is the entity name related to the error (if applicable)
	Name string

	// Cause is the underlying infrastructure error, set only for
	// KindDatabase and KindBlob
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Name != "" {
		return e.Message + ": " + e.Name
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// ErrorKind is the closed category set for domain errors.
//
// Every failure an orchestrator can report falls into exactly one of these
// categories. The set is closed: callers can exhaustively switch on it.
type ErrorKind int

const (
	// KindNotFound indicates a lookup by id (or name) missed
	KindNotFound ErrorKind = iota

	// KindAlreadyExists indicates a name collision resolved with the
	// cancel action
	KindAlreadyExists

	// KindFileValidation indicates a rejected payload (wrong content type
	// or oversize), detected before any storage write
	KindFileValidation

	// KindNameValidation indicates a rejected name (empty, too long,
	// forbidden character, reserved, or wrong extension)
	KindNameValidation

	// KindInvalidOperation indicates an operation the entity kind does not
	// support (replace on containers/rooms) or a move that would create a
	// cycle
	KindInvalidOperation

	// KindDatabase wraps a failure from the metadata store
	KindDatabase

	// KindBlob wraps a failure from the blob store
	KindBlob
)

// String returns the category name, mainly for log output.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindFileValidation:
		return "file_validation"
	case KindNameValidation:
		return "name_validation"
	case KindInvalidOperation:
		return "invalid_operation"
	case KindDatabase:
		return "database"
	case KindBlob:
		return "blob"
	default:
		return "unknown"
	}
}

// IsKind reports whether err is (or wraps) a *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var derr *Error
	return errors.As(err, &derr) && derr.Kind == kind
}

func notFound(message, name string) *Error {
	return &Error{Kind: KindNotFound, Message: message, Name: name}
}

func alreadyExists(name string) *Error {
	return &Error{Kind: KindAlreadyExists, Message: "name already exists in this location", Name: name}
}

func nameValidation(message, name string) *Error {
	return &Error{Kind: KindNameValidation, Message: message, Name: name}
}

func fileValidation(message string) *Error {
	return &Error{Kind: KindFileValidation, Message: message}
}

func invalidOperation(message string) *Error {
	return &Error{Kind: KindInvalidOperation, Message: message}
}

// DatabaseError wraps a metadata store failure with its originating cause.
func DatabaseError(message string, cause error) *Error {
	return &Error{Kind: KindDatabase, Message: message, Cause: cause}
}

// BlobError wraps a blob store failure with its originating cause.
func BlobError(message string, cause error) *Error {
	return &Error{Kind: KindBlob, Message: message, Cause: cause}
}
