package render

import (
	"testing"

	"github.com/NobleSoftware-Backend/quiz-builder-docs/doctree"
)

func eqText(s string) []doctree.EqNode { return []doctree.EqNode{&doctree.EqText{Text: s}} }

func TestEquationWrapping(t *testing.T) {
	r := New(NewImages())
	eq := &doctree.Equation{Nodes: []doctree.EqNode{
		&doctree.EqText{Text: "E=mc"},
		&doctree.EqFunction{Code: "super", Args: [][]doctree.EqNode{eqText("2")}},
	}}
	got := r.Inlines([]doctree.Inline{eq}, "q1")
	if got != "$E=mc^{2}$" {
		t.Errorf("got %q", got)
	}
}

func TestFunctionLatex(t *testing.T) {
	tests := []struct {
		name string
		fn   *doctree.EqFunction
		want string
	}{
		{
			"fraction",
			&doctree.EqFunction{Code: "frac", Args: [][]doctree.EqNode{eqText("1"), eqText("2")}},
			`\frac{1}{2}`,
		},
		{
			// Extra denominator arguments concatenate instead of being lost.
			"fraction with split denominator",
			&doctree.EqFunction{Code: "frac", Args: [][]doctree.EqNode{
				eqText("100"),
				eqText(""),
				{&doctree.EqSymbol{Code: `\times`}},
			}},
			`\frac{100}{\times}`,
		},
		{
			"root with index",
			&doctree.EqFunction{Code: "root", Args: [][]doctree.EqNode{eqText("x"), eqText("3")}},
			`\sqrt[3]{x}`,
		},
		{
			"root without index",
			&doctree.EqFunction{Code: "root", Args: [][]doctree.EqNode{eqText("x")}},
			`\sqrt{x}`,
		},
		{
			"superscript",
			&doctree.EqFunction{Code: "superscript", Args: [][]doctree.EqNode{eqText("n")}},
			"^{n}",
		},
		{
			"subscript",
			&doctree.EqFunction{Code: "sub", Args: [][]doctree.EqNode{eqText("0")}},
			"_{0}",
		},
		{
			"empty code concatenates",
			&doctree.EqFunction{Code: "", Args: [][]doctree.EqNode{eqText("a"), eqText("b")}},
			"ab",
		},
		{
			"unknown function",
			&doctree.EqFunction{Code: "binom", Args: [][]doctree.EqNode{eqText("n"), eqText("k")}},
			`\binom{n}{k}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := functionLatex(tt.fn); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSymbolLatex(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"alpha", `\alpha`},
		{`\alpha`, `\alpha`},
		{"times", `\times`},
		{"Sigma", `\Sigma`},
		{"superscript", "^"},
		{"subscript", "_"},
		{"x", "x"},
		{"7", "7"},
		{"speed", "speed"}, // variable name, passed through
		{"%", `\%`},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := symbolLatex(tt.code); got != tt.want {
				t.Errorf("symbolLatex(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestEquationTextEscaped(t *testing.T) {
	got := renderEqNodes([]doctree.EqNode{&doctree.EqText{Text: "a<b"}})
	if got != "a&lt;b" {
		t.Errorf("got %q", got)
	}
}
