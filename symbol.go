package gocas

// ============================================================
// Symbol: named variable with an algebraic type tag
// ============================================================

// SymbolType decides how a symbol behaves under multiplication. Only
// scalars commute.
type SymbolType uint8

const (
	ScalarType SymbolType = iota
	MatrixType
	OperatorType
	QuaternionType
)

func (t SymbolType) String() string {
	switch t {
	case ScalarType:
		return "scalar"
	case MatrixType:
		return "matrix"
	case OperatorType:
		return "operator"
	case QuaternionType:
		return "quaternion"
	}
	return "unknown"
}

// ParseSymbolType is the inverse of SymbolType.String; unknown names map to
// ScalarType.
func ParseSymbolType(s string) SymbolType {
	switch s {
	case "matrix":
		return MatrixType
	case "operator":
		return OperatorType
	case "quaternion":
		return QuaternionType
	}
	return ScalarType
}

// Symbol is comparable and usable as a map key; two symbols are equal iff
// both name and type match.
type Symbol struct {
	Name string
	Type SymbolType
}

func (s Symbol) Commutative() bool { return s.Type == ScalarType }
