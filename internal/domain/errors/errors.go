package errors

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalid = errors.New("invalid")

// Build pipeline failures. All of them abort the current build.
var (
	ErrMalformedFrontMatter = errors.New("malformed front matter")
	ErrConversion           = errors.New("content conversion failed")
	ErrInvalidPageSize      = errors.New("invalid page size")
	ErrEmptyRepository      = errors.New("empty repository")
	ErrContentAlreadySet    = errors.New("page content already set")
	ErrDuplicateTarget      = errors.New("duplicate output target")
)

type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationError struct {
	Items []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Items) == 0 {
		return "validation failed"
	}

	var b strings.Builder
	b.WriteString("validation failed:\n")
	for _, item := range e.Items {
		b.WriteString(" - ")
		b.WriteString(item.Error())
		b.WriteString("\n")
	}
	return b.String()
}

func (e *ValidationError) Add(field, msg string) {
	e.Items = append(e.Items, FieldError{
		Field:   field,
		Message: msg,
	})
}

func (e ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

func (e ValidationError) HasAny() bool {
	return len(e.Items) > 0
}

// PageError ties a failure to the source file (and line, when known) it came from.
type PageError struct {
	Path string
	Line int
	Err  error
}

func (e *PageError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}

// Malformed builds a PageError wrapping ErrMalformedFrontMatter.
func Malformed(path string, line int, format string, args ...any) error {
	return &PageError{
		Path: path,
		Line: line,
		Err:  fmt.Errorf("%w: %s", ErrMalformedFrontMatter, fmt.Sprintf(format, args...)),
	}
}

// DuplicateTarget reports a second source file deriving an already claimed target.
func DuplicateTarget(path, target, claimedBy string) error {
	return &PageError{
		Path: path,
		Err:  fmt.Errorf("%w: %s is already produced by %s", ErrDuplicateTarget, target, claimedBy),
	}
}

// Conversion builds a PageError wrapping ErrConversion and the converter's cause.
func Conversion(path string, cause error) error {
	return &PageError{
		Path: path,
		Err:  fmt.Errorf("%w: %w", ErrConversion, cause),
	}
}
