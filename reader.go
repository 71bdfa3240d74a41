package bitgo

import (
	"fmt"

	"github.com/hupe1980/bitgo/dtype"
)

// Reader walks a Bits sequence, consuming values from successive
// active positions. It holds a position, not a copy: the underlying
// sequence is immutable, so any number of readers can walk it
// independently.
type Reader struct {
	b   *Bits
	pos int
}

// NewReader returns a reader positioned at active bit 0 of b.
func NewReader(b *Bits) *Reader {
	return &Reader{b: b}
}

// Pos returns the current read position in bits.
func (r *Reader) Pos() int { return r.pos }

// SetPos moves the read position to p, which may be anywhere from 0
// to the sequence length inclusive.
func (r *Reader) SetPos(p int) error {
	if p < 0 || p > r.b.Len() {
		return fmt.Errorf("%w: position %d of %d bits", ErrRead, p, r.b.Len())
	}
	r.pos = p
	return nil
}

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() int { return r.b.Len() - r.pos }

// ByteAlign advances the position to the next byte boundary and
// returns the number of bits skipped.
func (r *Reader) ByteAlign() (int, error) {
	skip := (8 - r.pos%8) % 8
	if r.pos+skip > r.b.Len() {
		return 0, fmt.Errorf("%w: %d bits to align at position %d of %d", ErrRead, skip, r.pos, r.b.Len())
	}
	r.pos += skip
	return skip, nil
}

// ReadBits reads the next n bits as an immutable slice and advances.
func (r *Reader) ReadBits(n int) (*Bits, error) {
	out, err := r.peekBits(n)
	if err != nil {
		return nil, err
	}
	r.pos += n
	return out, nil
}

// PeekBits returns the next n bits without advancing.
func (r *Reader) PeekBits(n int) (*Bits, error) {
	return r.peekBits(n)
}

func (r *Reader) peekBits(n int) (*Bits, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative read length %d", ErrCreation, n)
	}
	if r.pos+n > r.b.Len() {
		return nil, fmt.Errorf("%w: %d bits at position %d of %d", ErrRead, n, r.pos, r.b.Len())
	}
	return r.b.slicePiece(r.pos, r.pos+n), nil
}

// Read decodes one value of the given format at the current position
// and advances past it. Formats without a length, like "ue" or a bare
// "hex", consume what they need; a sized format consumes exactly its
// width.
func (r *Reader) Read(spec string) (Value, error) {
	v, used, err := r.b.readOne(spec, r.pos)
	if err != nil {
		return Value{}, err
	}
	r.pos += used
	return v, nil
}

// Peek decodes one value at the current position without advancing.
func (r *Reader) Peek(spec string) (Value, error) {
	v, _, err := r.b.readOne(spec, r.pos)
	return v, err
}

// ReadSpec decodes a comma-separated spec from the current position,
// returning one value per non-padding token, and advances past all
// bits consumed.
func (r *Reader) ReadSpec(spec string) ([]Value, error) {
	vals, used, err := r.b.readTokensAt(r.pos, spec, nil)
	if err != nil {
		return nil, err
	}
	r.pos += used
	return vals, nil
}

// readOne decodes one value of spec at active position pos, returning
// the bits consumed.
func (b *Bits) readOne(spec string, pos int) (Value, int, error) {
	d, err := resolveOne(spec)
	if err != nil {
		return Value{}, 0, interpretError(err)
	}
	return b.decodeAt(d, pos)
}

// decodeAt decodes one value of d at active position pos. A sized
// dtype consumes its width, an unsized one all remaining bits, a
// variable-length one whatever its code spans.
func (b *Bits) decodeAt(d *dtype.Dtype, pos int) (Value, int, error) {
	if d.VarLen() {
		return b.decodeVarAt(d, pos)
	}
	w := d.BitLen()
	if w == 0 {
		w = b.Len() - pos
	}
	v, err := b.decodeFixedAt(d, pos, w)
	if err != nil {
		return Value{}, 0, err
	}
	return v, w, nil
}

// decodeFixedAt decodes w bits of d at active position pos.
func (b *Bits) decodeFixedAt(d *dtype.Dtype, pos, w int) (Value, error) {
	if w < 0 || pos+w > b.Len() {
		return Value{}, fmt.Errorf("%w: %s needs %d bits at position %d of %d", ErrRead, d, w, pos, b.Len())
	}
	rs, _ := reflectRange(b.opts.order, b.Len(), pos, pos+w)
	v, err := d.Decode(b.store, rs, w)
	if err != nil {
		return Value{}, interpretError(err)
	}
	return v, nil
}

// decodeVarAt decodes one variable-length code at active position
// pos. The codes are defined on MSB-first data only.
func (b *Bits) decodeVarAt(d *dtype.Dtype, pos int) (Value, int, error) {
	if b.opts.order == LSB0 {
		return Value{}, 0, fmt.Errorf("%w: %s codes are undefined with LSB0 ordering", ErrInterpret, d.Name())
	}
	v, used, err := d.DecodeVar(b.store, pos)
	if err != nil {
		return Value{}, 0, interpretError(err)
	}
	return v, used, nil
}
