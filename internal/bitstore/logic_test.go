package bitstore

import "testing"

func TestLogicOps(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		op   func(s, o *Store)
		want string
	}{
		{"and", "1100", "1010", func(s, o *Store) { s.And(o) }, "1000"},
		{"or", "1100", "1010", func(s, o *Store) { s.Or(o) }, "1110"},
		{"xor", "1100", "1010", func(s, o *Store) { s.Xor(o) }, "0110"},
		{
			"and long unaligned",
			"111111111111111111111111111111111111111111111111111111111111111111111111",
			"101010101010101010101010101010101010101010101010101010101010101010101010",
			func(s, o *Store) { s.And(o) },
			"101010101010101010101010101010101010101010101010101010101010101010101010",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := fromBin(t, tt.a)
			o := fromBin(t, tt.b)
			tt.op(s, o)
			if got := toBin(s); got != tt.want {
				t.Fatalf("got=%s want=%s", got, tt.want)
			}
			if got := toBin(o); got != tt.b {
				t.Fatalf("operand changed: got=%s want=%s", got, tt.b)
			}
		})
	}
}

func TestLogicOps_OffsetOperand(t *testing.T) {
	// The right operand sits at a bit offset inside a larger store.
	base := fromBin(t, "0001010")
	o := base.Slice(3, 7) // 1010
	s := fromBin(t, "1100")
	s.Xor(o)
	if got := toBin(s); got != "0110" {
		t.Fatalf("got=%s want=0110", got)
	}
}

func TestLogicOps_LengthMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	fromBin(t, "110").And(fromBin(t, "11"))
}
