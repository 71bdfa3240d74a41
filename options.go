package bitgo

// ColorMode controls ANSI coloring of pretty-printed output.
type ColorMode int

const (
	// ColorAuto enables color when writing to the process's stdout or
	// stderr, unless the NO_COLOR environment variable is set.
	ColorAuto ColorMode = iota
	// ColorAlways forces color on.
	ColorAlways
	// ColorNever disables color.
	ColorNever
)

// Config holds process-wide defaults. They are consulted when
// sequences are created and when pretty-printing.
type Config struct {
	// ByteAligned makes searches consider only byte-aligned positions
	// by default.
	ByteAligned bool
	// Color controls pretty-print coloring.
	Color ColorMode
}

// DefaultConfig is the process-wide default configuration. Change it
// at startup, before sequences are shared across goroutines.
var DefaultConfig = Config{}

type options struct {
	order   BitOrder
	aligned bool
}

// Option configures sequence construction.
//
// Options are per sequence and inherited by derived sequences: slices,
// operator results and snapshots keep the options of their origin.
type Option func(*options)

// WithOrder selects the bit ordering of the new sequence.
func WithOrder(order BitOrder) Option {
	return func(o *options) {
		o.order = order
	}
}

// WithLSB0 makes bit index 0 the least significant bit. Shorthand for
// WithOrder(LSB0).
func WithLSB0() Option {
	return func(o *options) {
		o.order = LSB0
	}
}

// WithByteAligned sets the sequence's default search alignment,
// overriding DefaultConfig.ByteAligned. Individual searches can
// override it again with WithAlignment.
func WithByteAligned(aligned bool) Option {
	return func(o *options) {
		o.aligned = aligned
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		order:   MSB0,
		aligned: DefaultConfig.ByteAligned,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
