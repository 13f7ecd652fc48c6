package gocas

import (
	"encoding/json"
	"fmt"
)

// ============================================================
// JSON Serialization
// ============================================================
//
// Every node is an object with a "type" field. Numbers travel as strings so
// big integers and rationals survive exactly; floats always carry a decimal
// point or exponent, which is how they are told apart on the way back.

// ToJSON encodes e.
func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(toJSON(e))
	return string(b), err
}

// MarshalExpr encodes e as a JSON value.
func MarshalExpr(e Expr) ([]byte, error) { return json.Marshal(toJSON(e)) }

// UnmarshalExpr decodes the output of MarshalExpr.
func UnmarshalExpr(data []byte) (Expr, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, jsonError("decode: %v", err)
	}
	return FromJSON(m)
}

func toJSON(e Expr) map[string]interface{} {
	switch x := e.(type) {
	case *Num:
		return map[string]interface{}{"type": "num", "value": x.v.String()}
	case *Sym:
		m := map[string]interface{}{"type": "sym", "name": x.s.Name}
		if x.s.Type != ScalarType {
			m["symbol_type"] = x.s.Type.String()
		}
		return m
	case *Const:
		return map[string]interface{}{"type": "const", "name": x.Name()}
	case *Bool:
		return map[string]interface{}{"type": "bool", "value": x.v}
	case *Undefined:
		return map[string]interface{}{"type": "undefined"}
	case *Add:
		return map[string]interface{}{"type": "add", "terms": jsonList(x.terms)}
	case *Mul:
		return map[string]interface{}{"type": "mul", "factors": jsonList(x.factors)}
	case *Pow:
		return map[string]interface{}{"type": "pow", "base": toJSON(x.base), "exp": toJSON(x.exp)}
	case *Func:
		return map[string]interface{}{"type": "func", "name": x.name, "args": jsonList(x.args)}
	case *Complex:
		return map[string]interface{}{"type": "complex", "re": toJSON(x.re), "im": toJSON(x.im)}
	case *Matrix:
		return matrixJSON(x)
	case *Set:
		return map[string]interface{}{"type": "set", "elements": jsonList(x.elems)}
	case *Interval:
		return map[string]interface{}{
			"type": "interval", "lo": toJSON(x.lo), "hi": toJSON(x.hi),
			"lo_closed": x.loClosed, "hi_closed": x.hiClosed,
		}
	case *Piecewise:
		pieces := make([]interface{}, len(x.pieces))
		for i, p := range x.pieces {
			pieces[i] = map[string]interface{}{"cond": toJSON(p.Cond), "value": toJSON(p.Value)}
		}
		return map[string]interface{}{"type": "piecewise", "pieces": pieces, "otherwise": toJSON(x.otherwise)}
	case *Relation:
		return map[string]interface{}{"type": "relation", "op": x.op.String(), "lhs": toJSON(x.lhs), "rhs": toJSON(x.rhs)}
	case *Calculus:
		m := map[string]interface{}{
			"type": "calculus", "op": x.op.String(), "body": toJSON(x.body), "var": toJSON(x.v),
		}
		if x.op == CalcDerivative {
			m["order"] = x.order
		}
		if len(x.bounds) > 0 {
			m["bounds"] = jsonList(x.bounds)
		}
		return m
	}
	return map[string]interface{}{"type": "unknown", "repr": e.String()}
}

func jsonList(es []Expr) []interface{} {
	out := make([]interface{}, len(es))
	for i, e := range es {
		out[i] = toJSON(e)
	}
	return out
}

func matrixJSON(m *Matrix) map[string]interface{} {
	out := map[string]interface{}{
		"type": "matrix", "storage": m.storage.String(), "rows": m.rows, "cols": m.cols,
	}
	switch m.storage {
	case SparseStorage:
		entries := make([]interface{}, len(m.sparse))
		for i, e := range m.sparse {
			entries[i] = map[string]interface{}{"row": e.Row, "col": e.Col, "value": toJSON(e.Value)}
		}
		out["entries"] = entries
	case DiagonalStorage:
		out["diagonal"] = jsonList(m.data)
	case IdentityStorage:
	default:
		rows := make([]interface{}, m.rows)
		for i, r := range m.ToRows() {
			rows[i] = jsonList(r)
		}
		out["data"] = rows
	}
	return out
}

func jsonError(format string, args ...interface{}) error {
	return newError(InvalidArgument, "from_json", fmt.Sprintf(format, args...))
}

// FromJSON decodes an expression object. Nodes are rebuilt through the
// canonicalizing constructors.
func FromJSON(data map[string]interface{}) (Expr, error) {
	if data == nil {
		return nil, jsonError("expression must be an object")
	}
	typAny, ok := data["type"]
	if !ok {
		return nil, jsonError("missing 'type' field")
	}
	typ, ok := typAny.(string)
	if !ok || typ == "" {
		return nil, jsonError("field 'type' must be a non-empty string")
	}

	subExpr := func(field string) (Expr, error) {
		v, ok := data[field]
		if !ok {
			return nil, jsonError("%s: missing %q", typ, field)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, jsonError("%s: %q must be an object", typ, field)
		}
		e, err := FromJSON(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", typ, field, err)
		}
		return e, nil
	}

	subList := func(field string) ([]Expr, error) {
		v, ok := data[field]
		if !ok {
			return nil, jsonError("%s: missing %q", typ, field)
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, jsonError("%s: %q must be an array", typ, field)
		}
		out := make([]Expr, len(raw))
		for i, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, jsonError("%s: %q[%d] must be an object", typ, field, i)
			}
			e, err := FromJSON(m)
			if err != nil {
				return nil, fmt.Errorf("%s: %s[%d]: %w", typ, field, i, err)
			}
			out[i] = e
		}
		return out, nil
	}

	subString := func(field string) (string, error) {
		v, ok := data[field]
		if !ok {
			return "", jsonError("%s: missing %q", typ, field)
		}
		s, ok := v.(string)
		if !ok || s == "" {
			return "", jsonError("%s: %q must be a non-empty string", typ, field)
		}
		return s, nil
	}

	subInt := func(field string) (int, error) {
		v, ok := data[field]
		if !ok {
			return 0, jsonError("%s: missing %q", typ, field)
		}
		n, ok := v.(float64)
		if !ok || n != float64(int(n)) {
			return 0, jsonError("%s: %q must be an integer", typ, field)
		}
		return int(n), nil
	}

	subBool := func(field string) bool {
		b, _ := data[field].(bool)
		return b
	}

	switch typ {
	case "num":
		val, err := subString("value")
		if err != nil {
			return nil, err
		}
		n, ok := ParseNumber(val)
		if !ok {
			return nil, jsonError("invalid num value: %s", val)
		}
		return numExpr(n), nil

	case "sym":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		st, _ := data["symbol_type"].(string)
		return SymOf(name, ParseSymbolType(st)), nil

	case "const":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		c, ok := ConstByName(name)
		if !ok {
			return nil, jsonError("unknown constant: %s", name)
		}
		return c, nil

	case "bool":
		b, ok := data["value"].(bool)
		if !ok {
			return nil, jsonError("bool: 'value' must be a boolean")
		}
		return BoolOf(b), nil

	case "undefined":
		return Undef, nil

	case "add":
		terms, err := subList("terms")
		if err != nil {
			return nil, err
		}
		return AddOf(terms...), nil

	case "mul":
		factors, err := subList("factors")
		if err != nil {
			return nil, err
		}
		return MulOf(factors...), nil

	case "pow":
		base, err := subExpr("base")
		if err != nil {
			return nil, err
		}
		exp, err := subExpr("exp")
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil

	case "func":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		if _, single := data["arg"]; single {
			arg, err := subExpr("arg")
			if err != nil {
				return nil, err
			}
			return FuncOf(name, arg), nil
		}
		args, err := subList("args")
		if err != nil {
			return nil, err
		}
		return FuncOf(name, args...), nil

	case "complex":
		re, err := subExpr("re")
		if err != nil {
			return nil, err
		}
		im, err := subExpr("im")
		if err != nil {
			return nil, err
		}
		return ComplexOf(re, im), nil

	case "matrix":
		return matrixFromJSON(data, subInt, subList)

	case "set":
		elems, err := subList("elements")
		if err != nil {
			return nil, err
		}
		return SetOf(elems...), nil

	case "interval":
		lo, err := subExpr("lo")
		if err != nil {
			return nil, err
		}
		hi, err := subExpr("hi")
		if err != nil {
			return nil, err
		}
		return IntervalOf(lo, hi, subBool("lo_closed"), subBool("hi_closed")), nil

	case "piecewise":
		raw, ok := data["pieces"].([]interface{})
		if !ok {
			return nil, jsonError("piecewise: 'pieces' must be an array")
		}
		pieces := make([]Piece, len(raw))
		for i, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, jsonError("piecewise: pieces[%d] must be an object", i)
			}
			cm, cok := m["cond"].(map[string]interface{})
			vm, vok := m["value"].(map[string]interface{})
			if !cok || !vok {
				return nil, jsonError("piecewise: pieces[%d] needs cond and value", i)
			}
			cond, err := FromJSON(cm)
			if err != nil {
				return nil, fmt.Errorf("piecewise: pieces[%d]: cond: %w", i, err)
			}
			val, err := FromJSON(vm)
			if err != nil {
				return nil, fmt.Errorf("piecewise: pieces[%d]: value: %w", i, err)
			}
			pieces[i] = Piece{Cond: cond, Value: val}
		}
		otherwise, err := subExpr("otherwise")
		if err != nil {
			return nil, err
		}
		return PiecewiseOf(pieces, otherwise), nil

	case "relation":
		opName, err := subString("op")
		if err != nil {
			return nil, err
		}
		op, ok := ParseRelOp(opName)
		if !ok {
			return nil, jsonError("relation: unknown op %q", opName)
		}
		lhs, err := subExpr("lhs")
		if err != nil {
			return nil, err
		}
		rhs, err := subExpr("rhs")
		if err != nil {
			return nil, err
		}
		return RelationOf(lhs, rhs, op), nil

	case "calculus":
		return calculusFromJSON(typ, data, subString, subExpr, subInt)
	}
	return nil, jsonError("unknown expression type: %s", typ)
}

func matrixFromJSON(data map[string]interface{}, subInt func(string) (int, error),
	subList func(string) ([]Expr, error)) (Expr, error) {
	rows, err := subInt("rows")
	if err != nil {
		return nil, err
	}
	cols, err := subInt("cols")
	if err != nil {
		return nil, err
	}
	storageName, _ := data["storage"].(string)
	storage, ok := ParseMatrixStorage(storageName)
	if !ok {
		storage = DenseStorage
	}
	switch storage {
	case IdentityStorage:
		return IdentityMatrix(rows), nil
	case DiagonalStorage:
		d, err := subList("diagonal")
		if err != nil {
			return nil, err
		}
		return DiagonalMatrixOf(d...), nil
	case SparseStorage:
		raw, _ := data["entries"].([]interface{})
		entries := make([]MatrixEntry, 0, len(raw))
		for i, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, jsonError("matrix: entries[%d] must be an object", i)
			}
			r, rok := m["row"].(float64)
			c, cok := m["col"].(float64)
			vm, vok := m["value"].(map[string]interface{})
			if !rok || !cok || !vok {
				return nil, jsonError("matrix: entries[%d] needs row, col and value", i)
			}
			v, err := FromJSON(vm)
			if err != nil {
				return nil, fmt.Errorf("matrix: entries[%d]: %w", i, err)
			}
			entries = append(entries, MatrixEntry{Row: int(r), Col: int(c), Value: v})
		}
		return SparseMatrixOf(rows, cols, entries)
	}
	rawRows, ok := data["data"].([]interface{})
	if !ok || len(rawRows) != rows {
		return nil, jsonError("matrix: 'data' must hold %d rows", rows)
	}
	grid := make([][]Expr, rows)
	for i, rr := range rawRows {
		items, ok := rr.([]interface{})
		if !ok {
			return nil, jsonError("matrix: data[%d] must be an array", i)
		}
		grid[i] = make([]Expr, len(items))
		for j, it := range items {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, jsonError("matrix: data[%d][%d] must be an object", i, j)
			}
			v, err := FromJSON(m)
			if err != nil {
				return nil, fmt.Errorf("matrix: data[%d][%d]: %w", i, j, err)
			}
			grid[i][j] = v
		}
	}
	if storage == SymmetricStorage {
		return SymmetricMatrixOf(grid)
	}
	m, err := MatrixOf(grid)
	if err != nil {
		return nil, err
	}
	if m.cols != cols {
		return nil, jsonError("matrix: declared %d columns, found %d", cols, m.cols)
	}
	return m, nil
}

func calculusFromJSON(typ string, data map[string]interface{}, subString func(string) (string, error),
	subExpr func(string) (Expr, error), subInt func(string) (int, error)) (Expr, error) {
	opName, err := subString("op")
	if err != nil {
		return nil, err
	}
	op, ok := ParseCalcOp(opName)
	if !ok {
		return nil, jsonError("%s: unknown op %q", typ, opName)
	}
	body, err := subExpr("body")
	if err != nil {
		return nil, err
	}
	ve, err := subExpr("var")
	if err != nil {
		return nil, err
	}
	v, ok := ve.(*Sym)
	if !ok {
		return nil, jsonError("%s: 'var' must be a symbol", typ)
	}
	var bounds []Expr
	if raw, ok := data["bounds"].([]interface{}); ok {
		for i, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, jsonError("%s: bounds[%d] must be an object", typ, i)
			}
			b, err := FromJSON(m)
			if err != nil {
				return nil, fmt.Errorf("%s: bounds[%d]: %w", typ, i, err)
			}
			bounds = append(bounds, b)
		}
	}
	want := map[CalcOp]int{CalcDefiniteIntegral: 2, CalcLimit: 1, CalcSum: 2, CalcProduct: 2}[op]
	if len(bounds) != want {
		return nil, jsonError("%s: %s needs %d bounds, got %d", typ, op, want, len(bounds))
	}
	switch op {
	case CalcDerivative:
		n, err := subInt("order")
		if err != nil {
			return nil, err
		}
		return DerivativeOf(body, v, n), nil
	case CalcIntegral:
		return IntegralOf(body, v), nil
	case CalcDefiniteIntegral:
		return DefiniteIntegralOf(body, v, bounds[0], bounds[1]), nil
	case CalcLimit:
		return LimitOf(body, v, bounds[0]), nil
	case CalcSum:
		return SumOf(body, v, bounds[0], bounds[1]), nil
	}
	return ProductOf(body, v, bounds[0], bounds[1]), nil
}
