package render

import (
	"strings"

	"github.com/NobleSoftware-Backend/quiz-builder-docs/doctree"
)

// Equation rendering translates the document's equation tree into LaTeX and
// wraps it in single-dollar inline-math delimiters. Inside equation context
// text renders as literal escaped characters with no style wrapping.

func equationHTML(eq *doctree.Equation) string {
	return "$" + renderEqNodes(eq.Nodes) + "$"
}

func renderEqNodes(nodes []doctree.EqNode) string {
	var sb strings.Builder
	for _, n := range nodes {
		switch node := n.(type) {
		case *doctree.EqText:
			sb.WriteString(EscapeText(node.Text))
		case *doctree.EqSymbol:
			sb.WriteString(symbolLatex(node.Code))
		case *doctree.EqFunction:
			sb.WriteString(functionLatex(node))
		}
	}
	return sb.String()
}

// functionLatex applies the fixed function translation table. Arguments are
// rendered recursively in equation context before translation.
func functionLatex(fn *doctree.EqFunction) string {
	args := make([]string, 0, len(fn.Args))
	for _, a := range fn.Args {
		args = append(args, renderEqNodes(a))
	}
	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return ""
	}
	switch fn.Code {
	case "frac":
		// Numerator is the first argument; the denominator is the
		// concatenation of everything else, which tolerates malformed
		// multi-argument fraction nodes.
		return `\frac{` + arg(0) + `}{` + strings.Join(argsAfter(args, 1), "") + `}`
	case "root":
		// Argument order is assumed [base, index]. Some equation
		// editors may emit [index, base]; see DESIGN.md.
		if len(args) > 1 && args[1] != "" {
			return `\sqrt[` + args[1] + `]{` + arg(0) + `}`
		}
		return `\sqrt{` + arg(0) + `}`
	case "super", "superscript":
		return "^{" + arg(0) + "}"
	case "sub", "subscript":
		return "_{" + arg(0) + "}"
	case "":
		return strings.Join(args, "")
	default:
		var sb strings.Builder
		sb.WriteString(`\`)
		sb.WriteString(fn.Code)
		for _, a := range args {
			sb.WriteString("{")
			sb.WriteString(a)
			sb.WriteString("}")
		}
		return sb.String()
	}
}

func argsAfter(args []string, i int) []string {
	if i >= len(args) {
		return nil
	}
	return args[i:]
}

// latexNames is the allow-list of symbol codes that take a backslash prefix:
// Greek letters plus common operator and relation names.
var latexNames = map[string]bool{
	// Greek, lowercase.
	"alpha": true, "beta": true, "gamma": true, "delta": true,
	"epsilon": true, "varepsilon": true, "zeta": true, "eta": true,
	"theta": true, "vartheta": true, "iota": true, "kappa": true,
	"lambda": true, "mu": true, "nu": true, "xi": true, "pi": true,
	"rho": true, "sigma": true, "tau": true, "upsilon": true,
	"phi": true, "varphi": true, "chi": true, "psi": true, "omega": true,
	// Greek, uppercase.
	"Gamma": true, "Delta": true, "Theta": true, "Lambda": true,
	"Xi": true, "Pi": true, "Sigma": true, "Upsilon": true,
	"Phi": true, "Psi": true, "Omega": true,
	// Operators and relations.
	"times": true, "div": true, "pm": true, "mp": true, "cdot": true,
	"leq": true, "geq": true, "neq": true, "approx": true, "equiv": true,
	"sim": true, "propto": true, "infty": true, "partial": true,
	"nabla": true, "sum": true, "prod": true, "int": true, "sqrt": true,
	"rightarrow": true, "leftarrow": true, "Rightarrow": true,
	"Leftarrow": true, "leftrightarrow": true, "to": true,
	"forall": true, "exists": true, "in": true, "notin": true,
	"subset": true, "supset": true, "subseteq": true, "supseteq": true,
	"cup": true, "cap": true, "emptyset": true, "setminus": true,
	"angle": true, "perp": true, "parallel": true, "circ": true,
	"therefore": true, "because": true, "ldots": true, "cdots": true,
}

// symbolLatex maps an internal symbol code to its LaTeX form.
func symbolLatex(code string) string {
	code = strings.TrimLeft(code, `\`)
	switch code {
	case "":
		return ""
	case "superscript":
		return "^"
	case "subscript":
		return "_"
	}
	if len(code) == 1 && isAlnum(rune(code[0])) {
		return code
	}
	if latexNames[code] {
		return `\` + code
	}
	if isAlphaOnly(code) {
		// An alphabetic token outside the allow-list is a user-typed
		// variable name; pass it through untouched.
		return code
	}
	return `\` + code
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isAlphaOnly(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return len(s) > 0
}
