package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedDescriptor indicates records are empty, not a list, or the first
// record is not a field → scalar mapping.
var ErrMalformedDescriptor = errors.New("malformed descriptor")

// ErrInconsistentRecordShape indicates a record's field set differs from the first.
var ErrInconsistentRecordShape = errors.New("inconsistent record shape")

// ErrMissingKeyInRecord indicates a record lacks a resolved key.
var ErrMissingKeyInRecord = errors.New("missing key in record")

// ErrMissingGroupValue indicates a category has no value for one of the groups.
var ErrMissingGroupValue = errors.New("missing group value")

// ErrUnresolvableKeys indicates the normalized record has no fields at all.
var ErrUnresolvableKeys = errors.New("unresolvable keys")

// ErrUnsupportedKind indicates the chart kind is outside the supported set.
var ErrUnsupportedKind = errors.New("unsupported chart kind")

// MalformedError describes why a descriptor was rejected.
type MalformedError struct {
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed descriptor: %s", e.Reason)
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformedDescriptor
}

// NewMalformedError creates a MalformedError.
func NewMalformedError(format string, args ...any) *MalformedError {
	return &MalformedError{Reason: fmt.Sprintf(format, args...)}
}

// ShapeError reports a record whose field set differs from the first record.
type ShapeError struct {
	Index int
	Want  []string
	Got   []string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("inconsistent record shape at record %d: want [%s], got [%s]",
		e.Index, strings.Join(e.Want, ", "), strings.Join(e.Got, ", "))
}

func (e *ShapeError) Unwrap() error {
	return ErrInconsistentRecordShape
}

// RecordKeyError reports a resolved key absent from a record.
type RecordKeyError struct {
	Index int
	Key   string
}

func (e *RecordKeyError) Error() string {
	return fmt.Sprintf("record %d has no field %q", e.Index, e.Key)
}

func (e *RecordKeyError) Unwrap() error {
	return ErrMissingKeyInRecord
}

// GroupValueError reports a category lacking a value for a group.
type GroupValueError struct {
	Index    int
	Category string
	Group    string
}

func (e *GroupValueError) Error() string {
	return fmt.Sprintf("missing value for group %q in category %q (record %d)", e.Group, e.Category, e.Index)
}

func (e *GroupValueError) Unwrap() error {
	return ErrMissingGroupValue
}

// UnsupportedKindError carries the raw kind tag that could not be dispatched.
type UnsupportedKindError struct {
	Kind string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported chart kind %q", e.Kind)
}

func (e *UnsupportedKindError) Unwrap() error {
	return ErrUnsupportedKind
}
