package gocas

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ============================================================
// MCP Tool Interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
	// Kind is the error kind name when Error came from a *gocas.Error.
	Kind string `json:"kind,omitempty"`
}

// toolParams reads typed parameters out of a decoded JSON object.
type toolParams map[string]interface{}

func (p toolParams) raw(key string) (interface{}, error) {
	v, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("missing param: %s", key)
	}
	return v, nil
}

func (p toolParams) expr(key string) (Expr, error) {
	v, err := p.raw(key)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("param %s must be an expression object", key)
	}
	e, err := FromJSON(m)
	if err != nil {
		return nil, fmt.Errorf("param %s: %w", key, err)
	}
	return e, nil
}

func (p toolParams) exprs(key string) ([]Expr, error) {
	v, err := p.raw(key)
	if err != nil {
		return nil, err
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("param %s must be an array", key)
	}
	out := make([]Expr, len(raw))
	for i, r := range raw {
		m, ok := r.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("param %s[%d] must be an expression object", key, i)
		}
		if out[i], err = FromJSON(m); err != nil {
			return nil, fmt.Errorf("param %s[%d]: %w", key, i, err)
		}
	}
	return out, nil
}

func (p toolParams) str(key string) (string, error) {
	v, err := p.raw(key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("param %s must be a string", key)
	}
	return s, nil
}

// sym reads a variable given as a bare name.
func (p toolParams) sym(key string) (*Sym, error) {
	s, err := p.str(key)
	if err != nil {
		return nil, err
	}
	if s == "" {
		return nil, fmt.Errorf("param %s must not be empty", key)
	}
	return S(s), nil
}

func (p toolParams) syms(key string) ([]*Sym, error) {
	v, err := p.raw(key)
	if err != nil {
		return nil, err
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("param %s must be an array", key)
	}
	out := make([]*Sym, len(raw))
	for i, r := range raw {
		s, ok := r.(string)
		if !ok || s == "" {
			return nil, fmt.Errorf("param %s[%d] must be a symbol name", key, i)
		}
		out[i] = S(s)
	}
	return out, nil
}

// intOr reads an optional integer parameter.
func (p toolParams) intOr(key string, def int) (int, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	f, ok := v.(float64)
	if !ok || f != float64(int(f)) {
		return 0, fmt.Errorf("param %s must be an integer", key)
	}
	return int(f), nil
}

func (p toolParams) float(key string) (float64, error) {
	v, err := p.raw(key)
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("param %s must be a number", key)
	}
	return f, nil
}

func (p toolParams) matrix(key string) (*Matrix, error) {
	e, err := p.expr(key)
	if err != nil {
		return nil, err
	}
	m, ok := e.(*Matrix)
	if !ok {
		return nil, fmt.Errorf("param %s must be a matrix", key)
	}
	return m, nil
}

func respond(e Expr) ToolResponse {
	return ToolResponse{Result: toJSON(e), LaTeX: LaTeX(e), String: e.String()}
}

func respondList(es []Expr) ToolResponse {
	res := make([]interface{}, len(es))
	strs := make([]string, len(es))
	tex := make([]string, len(es))
	for i, e := range es {
		res[i] = toJSON(e)
		strs[i] = e.String()
		tex[i] = LaTeX(e)
	}
	return ToolResponse{
		Result: res,
		String: "[" + strings.Join(strs, ", ") + "]",
		LaTeX:  "[" + strings.Join(tex, ", ") + "]",
	}
}

func respondError(err error) ToolResponse {
	r := ToolResponse{Error: err.Error()}
	r.Kind = string(KindOf(err))
	return r
}

type toolHandler func(p toolParams) (ToolResponse, error)

// exprVar adapts the common (expr, var) tool shape.
func exprVar(f func(Expr, *Sym) (Expr, error)) toolHandler {
	return func(p toolParams) (ToolResponse, error) {
		e, err := p.expr("expr")
		if err != nil {
			return ToolResponse{}, err
		}
		v, err := p.sym("var")
		if err != nil {
			return ToolResponse{}, err
		}
		r, err := f(e, v)
		if err != nil {
			return ToolResponse{}, err
		}
		return respond(r), nil
	}
}

// exprOnly adapts tools that transform a single expression.
func exprOnly(f func(Expr) Expr) toolHandler {
	return func(p toolParams) (ToolResponse, error) {
		e, err := p.expr("expr")
		if err != nil {
			return ToolResponse{}, err
		}
		return respond(f(e)), nil
	}
}

func exprVars(f func(Expr, []*Sym) (Expr, error)) toolHandler {
	return func(p toolParams) (ToolResponse, error) {
		e, err := p.expr("expr")
		if err != nil {
			return ToolResponse{}, err
		}
		vars, err := p.syms("vars")
		if err != nil {
			return ToolResponse{}, err
		}
		r, err := f(e, vars)
		if err != nil {
			return ToolResponse{}, err
		}
		return respond(r), nil
	}
}

func exprsVars(f func([]Expr, []*Sym) (Expr, error)) toolHandler {
	return func(p toolParams) (ToolResponse, error) {
		es, err := p.exprs("exprs")
		if err != nil {
			return ToolResponse{}, err
		}
		vars, err := p.syms("vars")
		if err != nil {
			return ToolResponse{}, err
		}
		r, err := f(es, vars)
		if err != nil {
			return ToolResponse{}, err
		}
		return respond(r), nil
	}
}

func pure(f func(Expr, *Sym) Expr) func(Expr, *Sym) (Expr, error) {
	return func(e Expr, v *Sym) (Expr, error) { return f(e, v), nil }
}

func matrixOp(f func(*Matrix) (Expr, error)) toolHandler {
	return func(p toolParams) (ToolResponse, error) {
		m, err := p.matrix("matrix")
		if err != nil {
			return ToolResponse{}, err
		}
		r, err := f(m)
		if err != nil {
			return ToolResponse{}, err
		}
		return respond(r), nil
	}
}

type toolSpec struct {
	name, description string
	required          []string
	props             map[string]string
	handle            toolHandler
}

var toolTable []toolSpec

func init() {
	toolTable = []toolSpec{
		{"simplify", "Simplify a symbolic expression", []string{"expr"}, map[string]string{"expr": "object"}, exprOnly(Simplify)},
		{"deep_simplify", "Repeat trigonometric simplification and cancellation until nothing changes", []string{"expr"}, map[string]string{"expr": "object"}, exprOnly(DeepSimplify)},
		{"trig_simplify", "Apply sin²+cos²=1 and related identities", []string{"expr"}, map[string]string{"expr": "object"}, exprOnly(TrigSimplify)},
		{"expand", "Algebraically expand expression", []string{"expr"}, map[string]string{"expr": "object"}, exprOnly(Expand)},
		{"together", "Combine over a common denominator", []string{"expr"}, map[string]string{"expr": "object"}, exprOnly(Together)},
		{"cancel", "Cancel common polynomial factors", []string{"expr"}, map[string]string{"expr": "object"}, exprOnly(Cancel)},
		{"factor", "Factor a univariate polynomial over the integers", []string{"expr"}, map[string]string{"expr": "object"}, exprOnly(Factor)},
		{"collect", "Collect terms by powers of var", []string{"expr", "var"}, map[string]string{"expr": "object", "var": "string"}, exprVar(pure(Collect))},
		{"apart", "Partial fraction decomposition in var", []string{"expr", "var"}, map[string]string{"expr": "object", "var": "string"}, exprVar(PartialFraction)},
		{"substitute", "Substitute var with value", []string{"expr", "var", "value"}, map[string]string{"expr": "object", "var": "string", "value": "object"}, toolSubstitute},
		{"evaluate", "Substitute bindings and evaluate numerically. Optional: precision", []string{"expr"}, map[string]string{"expr": "object", "bindings": "object", "precision": "integer"}, toolEvaluate},
		{"to_latex", "Convert to LaTeX", []string{"expr"}, map[string]string{"expr": "object"}, toolLaTeX},
		{"free_symbols", "Return free symbol names", []string{"expr"}, map[string]string{"expr": "object"}, toolFreeSymbols},
		{"diff", "n-th derivative d/dvar, n defaults to 1", []string{"expr", "var"}, map[string]string{"expr": "object", "var": "string", "n": "integer"}, toolDiff},
		{"gradient", "Gradient vector ∇f", []string{"expr", "vars"}, map[string]string{"expr": "object", "vars": "array"}, toolGradient},
		{"jacobian", "Jacobian matrix of exprs with respect to vars", []string{"exprs", "vars"}, map[string]string{"exprs": "array", "vars": "array"}, exprsVars(func(es []Expr, vs []*Sym) (Expr, error) { return nilMatrix(Jacobian(es, vs)) })},
		{"hessian", "Hessian matrix of second partials", []string{"expr", "vars"}, map[string]string{"expr": "object", "vars": "array"}, exprVars(func(e Expr, vs []*Sym) (Expr, error) { return nilMatrix(Hessian(e, vs)) })},
		{"laplacian", "Laplacian ∇²f", []string{"expr", "vars"}, map[string]string{"expr": "object", "vars": "array"}, exprVars(func(e Expr, vs []*Sym) (Expr, error) { return Laplacian(e, vs), nil })},
		{"divergence", "Divergence ∇·F", []string{"exprs", "vars"}, map[string]string{"exprs": "array", "vars": "array"}, exprsVars(Divergence)},
		{"curl", "Curl ∇×F of a field in three dimensions", []string{"exprs", "vars"}, map[string]string{"exprs": "array", "vars": "array"}, toolCurl},
		{"integrate", "Symbolic antiderivative; unevaluated when no closed form is found", []string{"expr", "var"}, map[string]string{"expr": "object", "var": "string"}, exprVar(pure(Integrate))},
		{"definite_integrate", "Exact ∫_a^b with expression bounds", []string{"expr", "var", "a", "b"}, map[string]string{"expr": "object", "var": "string", "a": "object", "b": "object"}, toolDefinite},
		{"nintegrate", "Numerical ∫_a^b. Requires a, b (numbers)", []string{"expr", "var", "a", "b"}, map[string]string{"expr": "object", "var": "string", "a": "number", "b": "number"}, toolNIntegrate},
		{"limit", "lim_{var->point} expr. Optional dir: \"+\" or \"-\"", []string{"expr", "var", "point"}, map[string]string{"expr": "object", "var": "string", "point": "object", "dir": "string"}, toolLimit},
		{"taylor", "Taylor series around a point", []string{"expr", "var"}, map[string]string{"expr": "object", "var": "string", "around": "object", "order": "integer"}, toolTaylor},
		{"maclaurin", "Maclaurin series (Taylor around 0)", []string{"expr", "var"}, map[string]string{"expr": "object", "var": "string", "order": "integer"}, toolTaylor},
		{"degree", "Polynomial degree in variable", []string{"expr", "var"}, map[string]string{"expr": "object", "var": "string"}, exprVar(func(e Expr, v *Sym) (Expr, error) {
			d, err := Degree(e, v)
			return N(int64(d)), err
		})},
		{"poly_coeffs", "Polynomial coefficients by degree", []string{"expr", "var"}, map[string]string{"expr": "object", "var": "string"}, toolPolyCoeffs},
		{"poly_gcd", "Greatest common divisor of two polynomials", []string{"a", "b"}, map[string]string{"a": "object", "b": "object"}, toolGCD},
		{"poly_div", "Polynomial quotient and remainder", []string{"a", "b"}, map[string]string{"a": "object", "b": "object", "vars": "array"}, toolPolyDiv},
		{"resultant", "Resultant of two polynomials in var", []string{"a", "b", "var"}, map[string]string{"a": "object", "b": "object", "var": "string"}, toolResultant},
		{"groebner", "Reduced Gröbner basis. Optional order: lex, grlex, grevlex", []string{"exprs", "vars"}, map[string]string{"exprs": "array", "vars": "array", "order": "string"}, toolGroebner},
		{"solve", "Solve an equation (or expr = 0) for var", []string{"expr", "var"}, map[string]string{"expr": "object", "var": "string"}, toolSolve},
		{"solve_linear_system", "Solve a square linear system", []string{"exprs", "vars"}, map[string]string{"exprs": "array", "vars": "array"}, toolLinearSystem},
		{"solve_polynomial_system", "Real solutions of a zero-dimensional polynomial system", []string{"exprs", "vars"}, map[string]string{"exprs": "array", "vars": "array"}, toolPolynomialSystem},
		{"matrix_det", "Matrix determinant", []string{"matrix"}, map[string]string{"matrix": "object"}, matrixOp(Det)},
		{"matrix_inv", "Symbolic matrix inverse", []string{"matrix"}, map[string]string{"matrix": "object"}, matrixOp(func(m *Matrix) (Expr, error) { return nilMatrix(Inverse(m)) })},
		{"matrix_trace", "Matrix trace", []string{"matrix"}, map[string]string{"matrix": "object"}, matrixOp(Trace)},
		{"matrix_transpose", "Matrix transpose", []string{"matrix"}, map[string]string{"matrix": "object"}, matrixOp(func(m *Matrix) (Expr, error) { return Transpose(m), nil })},
		{"matrix_mul", "Matrix multiply a*b", []string{"a", "b"}, map[string]string{"a": "object", "b": "object"}, toolMatMul},
		{"laplace_rectangle", "Series solution of Laplace's equation on [0,a]×[0,b] with u(x,b)=f", []string{"x", "y", "a", "b", "f"}, map[string]string{"x": "string", "y": "string", "a": "object", "b": "object", "f": "object", "terms": "integer"}, toolLaplace},
		{"mcp_spec", "Return this tool schema", []string{}, map[string]string{}, func(toolParams) (ToolResponse, error) {
			return ToolResponse{String: MCPToolSpec()}, nil
		}},
	}
}

// nilMatrix turns a typed nil *Matrix into a nil Expr.
func nilMatrix(m *Matrix, err error) (Expr, error) {
	if err != nil {
		return nil, err
	}
	return m, nil
}

func lookupTool(name string) (toolSpec, bool) {
	for _, t := range toolTable {
		if t.name == name {
			return t, true
		}
	}
	return toolSpec{}, false
}

// ToolNames lists the tools HandleToolCall understands.
func ToolNames() []string {
	out := make([]string, len(toolTable))
	for i, t := range toolTable {
		out[i] = t.name
	}
	return out
}

// HandleToolCall dispatches one tool invocation. It never panics on bad
// input; every failure is reported in ToolResponse.Error.
func HandleToolCall(req ToolRequest) (resp ToolResponse) {
	t, ok := lookupTool(req.Tool)
	if !ok {
		return ToolResponse{Error: "unknown tool: " + req.Tool, Kind: string(InvalidArgument)}
	}
	defer func() {
		if r := recover(); r != nil {
			logger().Error("tool panicked", "tool", req.Tool, "panic", fmt.Sprint(r))
			resp = ToolResponse{Error: fmt.Sprintf("internal error in %s", req.Tool)}
		}
	}()
	resp, err := t.handle(toolParams(req.Params))
	if err != nil {
		logger().Debug("tool failed", "tool", req.Tool, "err", err)
		return respondError(err)
	}
	return resp
}

func toolSubstitute(p toolParams) (ToolResponse, error) {
	e, err := p.expr("expr")
	if err != nil {
		return ToolResponse{}, err
	}
	v, err := p.sym("var")
	if err != nil {
		return ToolResponse{}, err
	}
	val, err := p.expr("value")
	if err != nil {
		return ToolResponse{}, err
	}
	return respond(Simplify(Subs(e, v, val))), nil
}

func toolEvaluate(p toolParams) (ToolResponse, error) {
	e, err := p.expr("expr")
	if err != nil {
		return ToolResponse{}, err
	}
	prec, err := p.intOr("precision", 0)
	if err != nil {
		return ToolResponse{}, err
	}
	ctx := EvalContext{Numeric: true, Simplify: true, Precision: prec, Subs: map[Symbol]Expr{}}
	if raw, ok := p["bindings"]; ok {
		m, ok := raw.(map[string]interface{})
		if !ok {
			return ToolResponse{}, fmt.Errorf("param bindings must be an object")
		}
		for name, b := range m {
			var val Expr
			switch x := b.(type) {
			case float64:
				val = NFloat(x)
			case map[string]interface{}:
				if val, err = FromJSON(x); err != nil {
					return ToolResponse{}, fmt.Errorf("binding %s: %w", name, err)
				}
			default:
				return ToolResponse{}, fmt.Errorf("binding %s must be a number or expression", name)
			}
			ctx.Subs[S(name).Symbol()] = val
		}
	}
	return respond(Evaluate(e, ctx)), nil
}

func toolLaTeX(p toolParams) (ToolResponse, error) {
	e, err := p.expr("expr")
	if err != nil {
		return ToolResponse{}, err
	}
	return ToolResponse{LaTeX: LaTeX(e), String: e.String()}, nil
}

func toolFreeSymbols(p toolParams) (ToolResponse, error) {
	e, err := p.expr("expr")
	if err != nil {
		return ToolResponse{}, err
	}
	syms := FreeSymbols(e)
	names := make([]string, len(syms))
	for i, s := range syms {
		names[i] = s.Name()
	}
	sort.Strings(names)
	return ToolResponse{Result: names, String: strings.Join(names, ", ")}, nil
}

func toolDiff(p toolParams) (ToolResponse, error) {
	n, err := p.intOr("n", 1)
	if err != nil {
		return ToolResponse{}, err
	}
	if n < 0 {
		return ToolResponse{}, newError(InvalidArgument, "diff", "order must be non-negative").WithValue(itoa(n))
	}
	return exprVar(func(e Expr, v *Sym) (Expr, error) { return Derivative(e, v, n), nil })(p)
}

func toolGradient(p toolParams) (ToolResponse, error) {
	e, err := p.expr("expr")
	if err != nil {
		return ToolResponse{}, err
	}
	vars, err := p.syms("vars")
	if err != nil {
		return ToolResponse{}, err
	}
	return respondList(Gradient(e, vars)), nil
}

func toolCurl(p toolParams) (ToolResponse, error) {
	es, err := p.exprs("exprs")
	if err != nil {
		return ToolResponse{}, err
	}
	vars, err := p.syms("vars")
	if err != nil {
		return ToolResponse{}, err
	}
	if len(es) != 3 || len(vars) != 3 {
		return ToolResponse{}, newError(DimensionMismatch, "curl", "curl needs three components and three variables")
	}
	c := Curl([3]Expr{es[0], es[1], es[2]}, [3]*Sym{vars[0], vars[1], vars[2]})
	return respondList(c[:]), nil
}

func toolDefinite(p toolParams) (ToolResponse, error) {
	a, err := p.expr("a")
	if err != nil {
		return ToolResponse{}, err
	}
	b, err := p.expr("b")
	if err != nil {
		return ToolResponse{}, err
	}
	return exprVar(func(e Expr, v *Sym) (Expr, error) { return DefiniteIntegral(e, v, a, b), nil })(p)
}

func toolNIntegrate(p toolParams) (ToolResponse, error) {
	e, err := p.expr("expr")
	if err != nil {
		return ToolResponse{}, err
	}
	v, err := p.sym("var")
	if err != nil {
		return ToolResponse{}, err
	}
	a, err := p.float("a")
	if err != nil {
		return ToolResponse{}, err
	}
	b, err := p.float("b")
	if err != nil {
		return ToolResponse{}, err
	}
	r, err := NIntegrate(e, v, a, b)
	if err != nil {
		return ToolResponse{}, err
	}
	return ToolResponse{Result: r, String: fmt.Sprintf("%.10g", r)}, nil
}

func toolLimit(p toolParams) (ToolResponse, error) {
	point, err := p.expr("point")
	if err != nil {
		return ToolResponse{}, err
	}
	dir := TwoSided
	if raw, ok := p["dir"]; ok {
		switch raw {
		case "+":
			dir = FromRight
		case "-":
			dir = FromLeft
		default:
			return ToolResponse{}, fmt.Errorf("param dir must be \"+\" or \"-\"")
		}
	}
	return exprVar(func(e Expr, v *Sym) (Expr, error) { return LimitDir(e, v, point, dir) })(p)
}

func toolTaylor(p toolParams) (ToolResponse, error) {
	order, err := p.intOr("order", 5)
	if err != nil {
		return ToolResponse{}, err
	}
	var around Expr = zero
	if _, ok := p["around"]; ok {
		if around, err = p.expr("around"); err != nil {
			return ToolResponse{}, err
		}
	}
	return exprVar(func(e Expr, v *Sym) (Expr, error) { return TaylorSeries(e, v, around, order) })(p)
}

func toolPolyCoeffs(p toolParams) (ToolResponse, error) {
	e, err := p.expr("expr")
	if err != nil {
		return ToolResponse{}, err
	}
	v, err := p.sym("var")
	if err != nil {
		return ToolResponse{}, err
	}
	cs, err := PolyCoeffs(e, v)
	if err != nil {
		return ToolResponse{}, err
	}
	res := map[string]interface{}{}
	var parts []string
	for _, d := range cs.Degrees() {
		res[itoa(d)] = toJSON(cs[d])
		parts = append(parts, itoa(d)+": "+cs[d].String())
	}
	return ToolResponse{Result: res, String: "{" + strings.Join(parts, ", ") + "}"}, nil
}

func toolGCD(p toolParams) (ToolResponse, error) {
	a, err := p.expr("a")
	if err != nil {
		return ToolResponse{}, err
	}
	b, err := p.expr("b")
	if err != nil {
		return ToolResponse{}, err
	}
	g, err := PolynomialGCD(a, b)
	if err != nil {
		return ToolResponse{}, err
	}
	return respond(g), nil
}

func toolPolyDiv(p toolParams) (ToolResponse, error) {
	a, err := p.expr("a")
	if err != nil {
		return ToolResponse{}, err
	}
	b, err := p.expr("b")
	if err != nil {
		return ToolResponse{}, err
	}
	var vars []*Sym
	if _, ok := p["vars"]; ok {
		if vars, err = p.syms("vars"); err != nil {
			return ToolResponse{}, err
		}
	}
	q, r, err := PolynomialDiv(a, b, vars...)
	if err != nil {
		return ToolResponse{}, err
	}
	return respondList([]Expr{q, r}), nil
}

func toolResultant(p toolParams) (ToolResponse, error) {
	a, err := p.expr("a")
	if err != nil {
		return ToolResponse{}, err
	}
	b, err := p.expr("b")
	if err != nil {
		return ToolResponse{}, err
	}
	v, err := p.sym("var")
	if err != nil {
		return ToolResponse{}, err
	}
	r, err := PolynomialResultant(a, b, v)
	if err != nil {
		return ToolResponse{}, err
	}
	return respond(r), nil
}

func toolGroebner(p toolParams) (ToolResponse, error) {
	es, err := p.exprs("exprs")
	if err != nil {
		return ToolResponse{}, err
	}
	vars, err := p.syms("vars")
	if err != nil {
		return ToolResponse{}, err
	}
	order := "lex"
	if _, ok := p["order"]; ok {
		if order, err = p.str("order"); err != nil {
			return ToolResponse{}, err
		}
	}
	g, err := GroebnerBasis(es, vars, order)
	if err != nil {
		return ToolResponse{}, err
	}
	return respondList(g), nil
}

func toolSolve(p toolParams) (ToolResponse, error) {
	e, err := p.expr("expr")
	if err != nil {
		return ToolResponse{}, err
	}
	v, err := p.sym("var")
	if err != nil {
		return ToolResponse{}, err
	}
	res, err := Solve(e, v)
	if err != nil {
		return ToolResponse{}, err
	}
	resp := respondList(res.Solutions)
	resp.Result = map[string]interface{}{
		"solutions": resp.Result,
		"exact":     res.Exact,
		"method":    res.Method,
	}
	return resp, nil
}

func toolLinearSystem(p toolParams) (ToolResponse, error) {
	es, err := p.exprs("exprs")
	if err != nil {
		return ToolResponse{}, err
	}
	vars, err := p.syms("vars")
	if err != nil {
		return ToolResponse{}, err
	}
	sol, err := SolveLinearSystem(es, vars)
	if err != nil {
		return ToolResponse{}, err
	}
	return respondList(sol), nil
}

func toolPolynomialSystem(p toolParams) (ToolResponse, error) {
	es, err := p.exprs("exprs")
	if err != nil {
		return ToolResponse{}, err
	}
	vars, err := p.syms("vars")
	if err != nil {
		return ToolResponse{}, err
	}
	sols, err := SolvePolynomialSystem(es, vars)
	if err != nil {
		return ToolResponse{}, err
	}
	tuples := make([]Expr, len(sols))
	for i, s := range sols {
		tuples[i] = SetOf(s...)
	}
	resp := respondList(tuples)
	res := make([]interface{}, len(sols))
	for i, s := range sols {
		res[i] = jsonList(s)
	}
	resp.Result = res
	return resp, nil
}

func toolMatMul(p toolParams) (ToolResponse, error) {
	a, err := p.matrix("a")
	if err != nil {
		return ToolResponse{}, err
	}
	b, err := p.matrix("b")
	if err != nil {
		return ToolResponse{}, err
	}
	m, err := MatMul(a, b)
	if err != nil {
		return ToolResponse{}, err
	}
	return respond(m), nil
}

func toolLaplace(p toolParams) (ToolResponse, error) {
	x, err := p.sym("x")
	if err != nil {
		return ToolResponse{}, err
	}
	y, err := p.sym("y")
	if err != nil {
		return ToolResponse{}, err
	}
	a, err := p.expr("a")
	if err != nil {
		return ToolResponse{}, err
	}
	b, err := p.expr("b")
	if err != nil {
		return ToolResponse{}, err
	}
	f, err := p.expr("f")
	if err != nil {
		return ToolResponse{}, err
	}
	terms, err := p.intOr("terms", 3)
	if err != nil {
		return ToolResponse{}, err
	}
	sol, err := SolveLaplaceRectangle(x, y, a, b, f, terms)
	if err != nil {
		return ToolResponse{}, err
	}
	resp := respond(sol.Series)
	resp.Result = map[string]interface{}{
		"series":       toJSON(sol.Series),
		"eigenvalues":  jsonList(sol.Eigenvalues),
		"coefficients": jsonList(sol.Coefficients),
		"note":         sol.Note,
	}
	return resp, nil
}

// MCPToolSpec returns the JSON schema of every tool.
func MCPToolSpec() string {
	tools := make([]map[string]interface{}, len(toolTable))
	for i, t := range toolTable {
		properties := map[string]interface{}{}
		for k, typ := range t.props {
			properties[k] = map[string]interface{}{"type": typ}
		}
		tools[i] = map[string]interface{}{
			"name":        t.name,
			"description": t.description,
			"inputSchema": map[string]interface{}{
				"type":       "object",
				"properties": properties,
				"required":   t.required,
			},
		}
	}
	b, _ := json.MarshalIndent(map[string]interface{}{"tools": tools}, "", "  ")
	return string(b)
}
