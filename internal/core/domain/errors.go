package domain

import (
	"errors"
	"fmt"
)

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrServiceUnavailable indicates a backing service could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrEmptyDocument indicates the payload has no content
	ErrEmptyDocument = errors.New("empty document")

	// ErrUnsupportedScheme indicates a download URL with an unknown scheme
	ErrUnsupportedScheme = errors.New("unsupported url scheme")

	// ErrDocumentTooLarge indicates a fetched payload exceeded the size cap
	ErrDocumentTooLarge = errors.New("document too large")

	// ErrFetchFailed indicates the source document could not be retrieved
	ErrFetchFailed = errors.New("document fetch failed")

	// ErrNoIdentity indicates no personal-info fragment was extracted
	ErrNoIdentity = errors.New("no personal info extracted")

	// ErrExtractionFailed matches any *ExtractionFailedError
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrParseFailed matches any *ParseFailedError
	ErrParseFailed = errors.New("parse failed")
)

// ExtractionFailedError reports that one section (optionally for one bureau)
// could not be extracted. Section == SectionDocument means the whole document
// is unusable.
type ExtractionFailedError struct {
	Section Section
	Bureau  Bureau
	Err     error
}

func (e *ExtractionFailedError) Error() string {
	where := string(e.Section)
	if e.Bureau != "" {
		where = fmt.Sprintf("%s[%s]", e.Section, e.Bureau)
	}
	if e.Err == nil {
		return where + ": extraction failed"
	}
	return fmt.Sprintf("%s: extraction failed: %v", where, e.Err)
}

func (e *ExtractionFailedError) Unwrap() error { return e.Err }

func (e *ExtractionFailedError) Is(target error) bool {
	return target == ErrExtractionFailed
}

// IsFatal returns true if the failure covers the whole document.
func (e *ExtractionFailedError) IsFatal() bool {
	return e.Section == SectionDocument
}

// NewDocumentFailure creates a fatal extraction failure.
func NewDocumentFailure(format string, args ...any) *ExtractionFailedError {
	return &ExtractionFailedError{Section: SectionDocument, Err: fmt.Errorf(format, args...)}
}

// ParseFailure kinds
const (
	ParseFailureEmptyDocument    = "empty_document"
	ParseFailureExtractionFailed = "extraction_failed"
)

// ParseFailedError is the structured outcome when no NormalizedReport can be produced.
// Its JSON form {kind, message, objectKey, accountId} is part of the output contract.
type ParseFailedError struct {
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	ObjectKey string `json:"objectKey"`
	AccountID string `json:"accountId"`
	cause     error
}

// NewParseFailedError creates a ParseFailed error for a document.
func NewParseFailedError(kind string, doc RawDocument, cause error) *ParseFailedError {
	msg := kind
	if cause != nil {
		msg = cause.Error()
	}
	return &ParseFailedError{
		Kind:      kind,
		Message:   msg,
		ObjectKey: doc.ObjectKey,
		AccountID: doc.AccountID,
		cause:     cause,
	}
}

func (e *ParseFailedError) Error() string {
	return fmt.Sprintf("parse failed (%s): %s", e.Kind, e.Message)
}

func (e *ParseFailedError) Unwrap() error { return e.cause }

func (e *ParseFailedError) Is(target error) bool {
	return target == ErrParseFailed
}

// AsParseFailed extracts a *ParseFailedError from an error chain.
func AsParseFailed(err error) (*ParseFailedError, bool) {
	var pf *ParseFailedError
	if errors.As(err, &pf) {
		return pf, true
	}
	return nil, false
}

// IsPermanent returns true if retrying the operation cannot help: the
// document itself was rejected or the request can never succeed.
func IsPermanent(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range []error{
		ErrParseFailed,
		ErrInvalidInput,
		ErrUnsupportedScheme,
		ErrDocumentTooLarge,
		ErrNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
