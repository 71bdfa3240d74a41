package dtype

import "fmt"

// ErrUnknownFormat is a named error type for an unregistered format name.
type ErrUnknownFormat struct {
	Name string // Requested format name
}

func (e *ErrUnknownFormat) Error() string {
	return fmt.Sprintf("unknown format %q", e.Name)
}

// ErrLength is a named error type for a length the format does not allow.
type ErrLength struct {
	Name   string // Format name
	Length int    // Requested length in items
	Reason string // Why the length is rejected
}

func (e *ErrLength) Error() string {
	if e.Length == 0 {
		return fmt.Sprintf("format %q: %s", e.Name, e.Reason)
	}
	return fmt.Sprintf("format %q: length %d: %s", e.Name, e.Length, e.Reason)
}

// ErrScale is a named error type for an invalid or unsupported scale.
type ErrScale struct {
	Name  string  // Format name
	Scale float64 // Requested scale
}

func (e *ErrScale) Error() string {
	return fmt.Sprintf("format %q: invalid scale %v", e.Name, e.Scale)
}

// ErrRange is a named error type for an encode value outside the
// format's domain.
type ErrRange struct {
	Dtype string // Resolved dtype, e.g. "uint6"
	Value string // Offending value
}

func (e *ErrRange) Error() string {
	return fmt.Sprintf("%s: value %s out of range", e.Dtype, e.Value)
}

// ErrBadValue is a named error type for an encode value of the wrong
// form (wrong kind, bad digit string, unparsable literal).
type ErrBadValue struct {
	Dtype string // Resolved dtype
	Value string // Offending value
}

func (e *ErrBadValue) Error() string {
	return fmt.Sprintf("%s: cannot encode value %q", e.Dtype, e.Value)
}

// ErrDecode is a named error type for data violating a format's domain
// constraint during interpretation.
type ErrDecode struct {
	Dtype  string // Resolved dtype
	Reason string // What constraint was violated
}

func (e *ErrDecode) Error() string {
	return fmt.Sprintf("%s: %s", e.Dtype, e.Reason)
}

// ErrTruncated is a named error type for running off the end of the
// data while decoding.
type ErrTruncated struct {
	Dtype string // Resolved dtype
	Need  int    // Bits required to finish the decode
	Have  int    // Bits actually remaining
}

func (e *ErrTruncated) Error() string {
	return fmt.Sprintf("%s: need %d bits, only %d remaining", e.Dtype, e.Need, e.Have)
}
