package translate

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrecognizedShape matches nodes that are neither pre-resolved, a
	// reference, an enum, typed nor a union.
	ErrUnrecognizedShape = errors.New("schema not recognized")
	// ErrMissingResolver matches references met without a resolver.
	ErrMissingResolver = errors.New("missing reference resolver")
	// ErrNullOnly matches unions and type lists without a non-null member.
	ErrNullOnly = errors.New("schema admits only null")
)

// UnrecognizedShapeError carries the location and source of a node that could
// not be classified.
type UnrecognizedShapeError struct {
	Breadcrumb string
	Node       string
}

func (e *UnrecognizedShapeError) Error() string {
	return fmt.Sprintf("structure at '%s' not recognized. @schema:%s", e.Breadcrumb, e.Node)
}

func (e *UnrecognizedShapeError) Unwrap() error { return ErrUnrecognizedShape }

// MissingResolverError is returned for a reference when no resolver was
// supplied.
type MissingResolverError struct {
	Breadcrumb string
	Ref        string
}

func (e *MissingResolverError) Error() string {
	return fmt.Sprintf("reference %q at '%s' cannot be resolved: no resolver supplied", e.Ref, e.Breadcrumb)
}

func (e *MissingResolverError) Unwrap() error { return ErrMissingResolver }

// NullOnlyError is returned when every branch of a union (or every keyword of
// a type list) is null, leaving nothing to name.
type NullOnlyError struct {
	Breadcrumb string
}

func (e *NullOnlyError) Error() string {
	return fmt.Sprintf("schema at '%s' admits only null and has no GraphQL type", e.Breadcrumb)
}

func (e *NullOnlyError) Unwrap() error { return ErrNullOnly }

// Breadcrumb returns the location carried by any translation error, or "".
func Breadcrumb(err error) string {
	var (
		shape *UnrecognizedShapeError
		miss  *MissingResolverError
		null  *NullOnlyError
	)
	switch {
	case errors.As(err, &shape):
		return shape.Breadcrumb
	case errors.As(err, &miss):
		return miss.Breadcrumb
	case errors.As(err, &null):
		return null.Breadcrumb
	}
	return ""
}
