package poly

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Monomial is an exponent vector, one entry per variable.
type Monomial []int

// One returns the monomial 1 in n variables.
func One(n int) Monomial { return make(Monomial, n) }

// Degree returns the total degree.
func (m Monomial) Degree() int {
	d := 0
	for _, e := range m {
		d += e
	}
	return d
}

func (m Monomial) Mul(o Monomial) Monomial {
	out := make(Monomial, len(m))
	for i := range m {
		out[i] = m[i] + o[i]
	}
	return out
}

// Divides reports whether m divides o.
func (m Monomial) Divides(o Monomial) bool {
	for i := range m {
		if m[i] > o[i] {
			return false
		}
	}
	return true
}

// Div returns m/o; o must divide m.
func (m Monomial) Div(o Monomial) Monomial {
	out := make(Monomial, len(m))
	for i := range m {
		out[i] = m[i] - o[i]
	}
	return out
}

func (m Monomial) LCM(o Monomial) Monomial {
	out := make(Monomial, len(m))
	for i := range m {
		out[i] = max(m[i], o[i])
	}
	return out
}

// Coprime reports whether m and o share no variable.
func (m Monomial) Coprime(o Monomial) bool {
	for i := range m {
		if m[i] > 0 && o[i] > 0 {
			return false
		}
	}
	return true
}

func (m Monomial) Equal(o Monomial) bool {
	if len(m) != len(o) {
		return false
	}
	for i := range m {
		if m[i] != o[i] {
			return false
		}
	}
	return true
}

func (m Monomial) clone() Monomial {
	return append(Monomial(nil), m...)
}

// key is a compact map key for m.
func (m Monomial) key() string {
	buf := make([]byte, 0, len(m)*2)
	for _, e := range m {
		buf = binary.AppendUvarint(buf, uint64(e))
	}
	return string(buf)
}

// Order is a monomial order.
type Order int

const (
	Lex Order = iota
	GrLex
	GrevLex
)

func (o Order) String() string {
	switch o {
	case Lex:
		return "lex"
	case GrLex:
		return "grlex"
	case GrevLex:
		return "grevlex"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// ParseOrder maps "lex", "grlex" or "grevlex" to an Order.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "lex", "":
		return Lex, nil
	case "grlex", "deglex":
		return GrLex, nil
	case "grevlex", "degrevlex":
		return GrevLex, nil
	}
	return Lex, fmt.Errorf("unknown monomial order %q", s)
}

// Compare returns -1, 0, or +1 as a is smaller, equal, or larger than b.
func (o Order) Compare(a, b Monomial) int {
	switch o {
	case GrLex:
		if c := cmpInt(a.Degree(), b.Degree()); c != 0 {
			return c
		}
		return lexCompare(a, b)
	case GrevLex:
		if c := cmpInt(a.Degree(), b.Degree()); c != 0 {
			return c
		}
		for i := len(a) - 1; i >= 0; i-- {
			if a[i] != b[i] {
				// smaller exponent in the last differing variable wins
				return cmpInt(b[i], a[i])
			}
		}
		return 0
	default:
		return lexCompare(a, b)
	}
}

func lexCompare(a, b Monomial) int {
	for i := range a {
		if a[i] != b[i] {
			return cmpInt(a[i], b[i])
		}
	}
	return 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
