package gocas

// ============================================================
// Vector calculus
// ============================================================

// Gradient returns the partial derivatives of e with respect to vars.
func Gradient(e Expr, vars []*Sym) []Expr {
	out := make([]Expr, len(vars))
	for i, v := range vars {
		out[i] = Diff(e, v)
	}
	return out
}

// Jacobian returns the len(fs)×len(vars) matrix ∂fᵢ/∂vⱼ.
func Jacobian(fs []Expr, vars []*Sym) (*Matrix, error) {
	if len(fs) == 0 || len(vars) == 0 {
		return nil, newError(DimensionMismatch, "jacobian", "empty function or variable list")
	}
	rows := make([][]Expr, len(fs))
	for i, f := range fs {
		rows[i] = Gradient(f, vars)
	}
	return MatrixOf(rows)
}

// Hessian returns the symmetric matrix of second partial derivatives of e.
func Hessian(e Expr, vars []*Sym) (*Matrix, error) {
	if len(vars) == 0 {
		return nil, newError(DimensionMismatch, "hessian", "empty variable list")
	}
	n := len(vars)
	grad := Gradient(e, vars)
	rows := make([][]Expr, n)
	for i := range rows {
		rows[i] = make([]Expr, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			d := Diff(grad[i], vars[j])
			rows[i][j], rows[j][i] = d, d
		}
	}
	return SymmetricMatrixOf(rows)
}

// Laplacian returns Σ ∂²e/∂vᵢ².
func Laplacian(e Expr, vars []*Sym) Expr {
	terms := make([]Expr, len(vars))
	for i, v := range vars {
		terms[i] = Derivative(e, v, 2)
	}
	return Simplify(AddOf(terms...))
}

// Divergence returns Σ ∂fᵢ/∂vᵢ.
func Divergence(fs []Expr, vars []*Sym) (Expr, error) {
	if len(fs) != len(vars) {
		return nil, newError(DimensionMismatch, "divergence", "field and variable counts differ").
			WithValue(itoa(len(fs)) + " vs " + itoa(len(vars)))
	}
	terms := make([]Expr, len(fs))
	for i := range fs {
		terms[i] = Diff(fs[i], vars[i])
	}
	return Simplify(AddOf(terms...)), nil
}

// Curl returns ∇×F for a field in three dimensions.
func Curl(f [3]Expr, v [3]*Sym) [3]Expr {
	return [3]Expr{
		Simplify(SubOf(Diff(f[2], v[1]), Diff(f[1], v[2]))),
		Simplify(SubOf(Diff(f[0], v[2]), Diff(f[2], v[0]))),
		Simplify(SubOf(Diff(f[1], v[0]), Diff(f[0], v[1]))),
	}
}
