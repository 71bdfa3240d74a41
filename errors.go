package bitgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/bitgo/dtype"
	"github.com/hupe1980/bitgo/token"
)

var (
	// ErrCreation is returned when bits cannot be built as requested:
	// out-of-range values, disallowed lengths or scales, mismatched
	// operands, unusable arguments.
	ErrCreation = errors.New("cannot create bits")

	// ErrInterpret is returned when data violates the length or domain
	// constraints of the format it is decoded with.
	ErrInterpret = errors.New("cannot interpret bits")

	// ErrRead is returned when an operation addresses or consumes bits
	// past the end of the available data.
	ErrRead = errors.New("read past end of bits")

	// ErrParse is returned for malformed format specs.
	ErrParse = errors.New("malformed format spec")
)

// RangeError indicates an encode value outside its format's domain.
//
// The original underlying error can be accessed via errors.Unwrap;
// errors.Is(err, ErrCreation) holds.
type RangeError struct {
	Dtype string
	Value string
	cause error
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: value %s out of range", e.Dtype, e.Value)
}

func (e *RangeError) Unwrap() error { return e.cause }

// TokenError indicates a malformed token in a format spec.
//
// The original underlying error can be accessed via errors.Unwrap;
// errors.Is(err, ErrParse) holds.
type TokenError struct {
	Token string
	cause error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("bad token %q", e.Token)
}

func (e *TokenError) Unwrap() error { return e.cause }

// classified reports whether err already carries one of the sentinel
// classifications.
func classified(err error) bool {
	return errors.Is(err, ErrCreation) || errors.Is(err, ErrInterpret) ||
		errors.Is(err, ErrRead) || errors.Is(err, ErrParse)
}

// creationError classifies an error from a construction path. Spec
// failures become ErrParse, truncation ErrRead, everything else
// ErrCreation.
func creationError(err error) error {
	if err == nil || classified(err) {
		return err
	}
	if mapped := commonError(err); mapped != nil {
		return mapped
	}
	var re *dtype.ErrRange
	if errors.As(err, &re) {
		return &RangeError{Dtype: re.Dtype, Value: re.Value, cause: fmt.Errorf("%w: %w", ErrCreation, err)}
	}
	return fmt.Errorf("%w: %w", ErrCreation, err)
}

// interpretError classifies an error from a decode path. Spec failures
// become ErrParse, truncation ErrRead, everything else ErrInterpret.
func interpretError(err error) error {
	if err == nil || classified(err) {
		return err
	}
	if mapped := commonError(err); mapped != nil {
		return mapped
	}
	return fmt.Errorf("%w: %w", ErrInterpret, err)
}

// commonError handles the classifications shared by both paths, or
// returns nil.
func commonError(err error) error {
	var te *token.ErrToken
	if errors.As(err, &te) {
		return &TokenError{Token: te.Token, cause: fmt.Errorf("%w: %w", ErrParse, err)}
	}
	var uf *dtype.ErrUnknownFormat
	if errors.As(err, &uf) {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}
	var tr *dtype.ErrTruncated
	if errors.As(err, &tr) {
		return fmt.Errorf("%w: %w", ErrRead, err)
	}
	return nil
}
