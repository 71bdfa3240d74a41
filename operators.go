package bitgo

import (
	"fmt"

	"github.com/hupe1980/bitgo/internal/bitstore"
)

// Append returns a new sequence with o following the receiver in the
// active ordering. Under LSB0 the receiver stays the less significant
// part.
func (b *Bits) Append(o *Bits) *Bits {
	return b.derive(joinStores(b.opts.order, []*bitstore.Store{b.store, o.store}))
}

// Prepend returns a new sequence with o before the receiver in the
// active ordering.
func (b *Bits) Prepend(o *Bits) *Bits {
	return b.derive(joinStores(b.opts.order, []*bitstore.Store{o.store, b.store}))
}

// And returns the bitwise AND of two equal-length sequences.
func (b *Bits) And(o *Bits) (*Bits, error) {
	return b.bitwise(o, (*bitstore.Store).And)
}

// Or returns the bitwise OR of two equal-length sequences.
func (b *Bits) Or(o *Bits) (*Bits, error) {
	return b.bitwise(o, (*bitstore.Store).Or)
}

// Xor returns the bitwise XOR of two equal-length sequences.
func (b *Bits) Xor(o *Bits) (*Bits, error) {
	return b.bitwise(o, (*bitstore.Store).Xor)
}

func (b *Bits) bitwise(o *Bits, op func(dst, src *bitstore.Store)) (*Bits, error) {
	if b.Len() != o.Len() {
		return nil, fmt.Errorf("%w: lengths differ, %d and %d bits", ErrCreation, b.Len(), o.Len())
	}
	st := b.store.Clone()
	op(st, o.store)
	return b.derive(st), nil
}

// Not returns the sequence with every bit inverted.
func (b *Bits) Not() *Bits {
	st := b.store.Clone()
	st.FlipRange(0, st.Len())
	return b.derive(st)
}

// Lsh shifts the bits n places toward the most significant end,
// filling with zeros. The length is preserved.
func (b *Bits) Lsh(n int) (*Bits, error) {
	if err := b.shiftCheck(n, "shift"); err != nil {
		return nil, err
	}
	length := b.Len()
	if n >= length {
		return b.derive(bitstore.New(length)), nil
	}
	return b.derive(bitstore.Join(b.store.View(n, length), bitstore.New(n))), nil
}

// Rsh shifts the bits n places toward the least significant end,
// filling with zeros. The length is preserved.
func (b *Bits) Rsh(n int) (*Bits, error) {
	if err := b.shiftCheck(n, "shift"); err != nil {
		return nil, err
	}
	length := b.Len()
	if n >= length {
		return b.derive(bitstore.New(length)), nil
	}
	return b.derive(bitstore.Join(bitstore.New(n), b.store.View(0, length-n))), nil
}

// Mul returns the sequence repeated n times. Zero yields an empty
// sequence.
func (b *Bits) Mul(n int) (*Bits, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: cannot repeat %d times", ErrCreation, n)
	}
	st := bitstore.New(0)
	for i := 0; i < n; i++ {
		st.Append(b.store)
	}
	return b.derive(st), nil
}

// ROL rotates the bits n places toward index 0 in the active
// ordering. Bits falling off one end reappear at the other.
func (b *Bits) ROL(n int) (*Bits, error) {
	if err := b.shiftCheck(n, "rotate"); err != nil {
		return nil, err
	}
	return b.rotate(b.storeRotation(n, true)), nil
}

// ROR rotates the bits n places away from index 0 in the active
// ordering.
func (b *Bits) ROR(n int) (*Bits, error) {
	if err := b.shiftCheck(n, "rotate"); err != nil {
		return nil, err
	}
	return b.rotate(b.storeRotation(n, false)), nil
}

// storeRotation maps an active-order rotation by n onto the number of
// leading store bits to move to the back. Rotating toward active
// index 0 under LSB0 is a rotation toward the back of the store.
func (b *Bits) storeRotation(n int, towardZero bool) int {
	k := n % b.Len()
	if (b.opts.order == LSB0) == towardZero {
		k = (b.Len() - k) % b.Len()
	}
	return k
}

// rotate moves the first k store bits to the back.
func (b *Bits) rotate(k int) *Bits {
	if k == 0 {
		return b.derive(b.store.Clone())
	}
	return b.derive(bitstore.Join(b.store.View(k, b.Len()), b.store.View(0, k)))
}

func (b *Bits) shiftCheck(n int, what string) error {
	if n < 0 {
		return fmt.Errorf("%w: cannot %s by a negative amount", ErrCreation, what)
	}
	if b.Len() == 0 {
		return fmt.Errorf("%w: cannot %s an empty sequence", ErrCreation, what)
	}
	return nil
}

// Reverse returns the sequence with its bits in the opposite order.
func (b *Bits) Reverse() *Bits {
	return b.derive(b.store.Reverse())
}

// ByteSwap returns the sequence with its byte order reversed. The
// length must be a whole number of bytes.
func (b *Bits) ByteSwap() (*Bits, error) {
	if b.Len()%8 != 0 {
		return nil, fmt.Errorf("%w: length %d is not a whole number of bytes", ErrCreation, b.Len())
	}
	return b.derive(b.store.ByteSwap()), nil
}
