package gocas_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gocas"
)

// ============================================================
// Tool dispatch
// ============================================================

// wire converts e into the decoded-JSON shape a tool request carries.
func wire(t *testing.T, e gocas.Expr) interface{} {
	t.Helper()
	b, err := gocas.MarshalExpr(e)
	require.NoError(t, err)
	var v interface{}
	require.NoError(t, json.Unmarshal(b, &v))
	return v
}

func call(tool string, params map[string]interface{}) gocas.ToolResponse {
	return gocas.HandleToolCall(gocas.ToolRequest{Tool: tool, Params: params})
}

func TestTool_Simplify(t *testing.T) {
	x := gocas.S("x")
	resp := call("simplify", map[string]interface{}{"expr": wire(t, gocas.AddOf(x, x, gocas.F(1, 2), gocas.F(1, 3)))})
	require.Empty(t, resp.Error)
	assert.Equal(t, "2*x + 5/6", resp.String)
	assert.NotEmpty(t, resp.LaTeX)

	// Result decodes back to the same expression
	b, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	back, err := gocas.UnmarshalExpr(b)
	require.NoError(t, err)
	assert.True(t, back.Equal(gocas.AddOf(gocas.MulOf(gocas.N(2), x), gocas.F(5, 6))))
}

func TestTool_DiffOrder(t *testing.T) {
	x := gocas.S("x")
	resp := call("diff", map[string]interface{}{"expr": wire(t, gocas.PowOf(x, gocas.N(4))), "var": "x", "n": float64(2)})
	require.Empty(t, resp.Error)
	assert.Equal(t, "12*x^2", resp.String)

	resp = call("diff", map[string]interface{}{"expr": wire(t, x), "var": "x", "n": float64(-1)})
	assert.Equal(t, string(gocas.InvalidArgument), resp.Kind)
}

func TestTool_UnknownAndMissing(t *testing.T) {
	resp := call("no_such_tool", nil)
	assert.Contains(t, resp.Error, "unknown tool")
	assert.Equal(t, "invalid_argument", resp.Kind)

	resp = call("integrate", map[string]interface{}{"var": "x"})
	assert.Contains(t, resp.Error, "missing param: expr")
	assert.Empty(t, resp.Kind)

	resp = call("integrate", map[string]interface{}{"expr": "x^2", "var": "x"})
	assert.Contains(t, resp.Error, "expression object")
}

func TestTool_Solve(t *testing.T) {
	x := gocas.S("x")
	eq := gocas.Eq(gocas.PowOf(x, gocas.N(2)), gocas.N(4))
	resp := call("solve", map[string]interface{}{"expr": wire(t, eq), "var": "x"})
	require.Empty(t, resp.Error)
	res, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, res["exact"])
	assert.Equal(t, "quadratic", res["method"])
	assert.Len(t, res["solutions"], 2)
	assert.Equal(t, "[-2, 2]", resp.String)
}

func TestTool_Evaluate(t *testing.T) {
	x, y := gocas.S("x"), gocas.S("y")
	resp := call("evaluate", map[string]interface{}{
		"expr":     wire(t, gocas.AddOf(gocas.PowOf(x, gocas.N(2)), y)),
		"bindings": map[string]interface{}{"x": float64(3), "y": wire(t, gocas.F(1, 2))},
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "9.5", resp.String)
}

func TestTool_FreeSymbols(t *testing.T) {
	x, y := gocas.S("x"), gocas.S("y")
	resp := call("free_symbols", map[string]interface{}{"expr": wire(t, gocas.MulOf(y, gocas.SinOf(x)))})
	require.Empty(t, resp.Error)
	assert.Equal(t, []string{"x", "y"}, resp.Result)
}

func TestTool_NIntegrate(t *testing.T) {
	x := gocas.S("x")
	resp := call("nintegrate", map[string]interface{}{"expr": wire(t, gocas.PowOf(x, gocas.N(2))), "var": "x", "a": float64(0), "b": float64(3)})
	require.Empty(t, resp.Error)
	assert.InDelta(t, 9.0, resp.Result, 1e-9)
}

func TestTool_Matrix(t *testing.T) {
	m, err := gocas.MatrixOf([][]gocas.Expr{{gocas.N(1), gocas.N(2)}, {gocas.N(3), gocas.N(4)}})
	require.NoError(t, err)

	resp := call("matrix_det", map[string]interface{}{"matrix": wire(t, m)})
	require.Empty(t, resp.Error)
	assert.Equal(t, "-2", resp.String)

	singular, err := gocas.MatrixOf([][]gocas.Expr{{gocas.N(1), gocas.N(2)}, {gocas.N(2), gocas.N(4)}})
	require.NoError(t, err)
	resp = call("matrix_inv", map[string]interface{}{"matrix": wire(t, singular)})
	assert.Equal(t, "singular_matrix", resp.Kind)
}

func TestTool_Curl(t *testing.T) {
	x, y := gocas.S("x"), gocas.S("y")
	resp := call("curl", map[string]interface{}{
		"exprs": []interface{}{wire(t, gocas.Neg(y)), wire(t, x), wire(t, gocas.N(0))},
		"vars":  []interface{}{"x", "y", "z"},
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "[0, 0, 2]", resp.String)

	resp = call("curl", map[string]interface{}{
		"exprs": []interface{}{wire(t, x)},
		"vars":  []interface{}{"x"},
	})
	assert.Equal(t, "dimension_mismatch", resp.Kind)
}

func TestTool_LaplaceRectangle(t *testing.T) {
	x := gocas.S("x")
	resp := call("laplace_rectangle", map[string]interface{}{
		"x": "x", "y": "y",
		"a": wire(t, gocas.N(1)), "b": wire(t, gocas.N(1)),
		"f": wire(t, x), "terms": float64(2),
	})
	require.Empty(t, resp.Error)
	res, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, res["eigenvalues"], 2)
	assert.Len(t, res["coefficients"], 2)
	assert.NotEmpty(t, res["note"])
}

func TestMCPToolSpec(t *testing.T) {
	var spec struct {
		Tools []struct {
			Name        string `json:"name"`
			InputSchema struct {
				Required []string `json:"required"`
			} `json:"inputSchema"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal([]byte(gocas.MCPToolSpec()), &spec))
	names := gocas.ToolNames()
	require.Len(t, spec.Tools, len(names))
	for i, tool := range spec.Tools {
		assert.Equal(t, names[i], tool.Name)
	}
	assert.Contains(t, names, "solve_polynomial_system")
	assert.Contains(t, names, "laplace_rectangle")
}
