package view

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/casierfr/console/pkg/api"
	"github.com/casierfr/console/pkg/money"
)

// Where is a compiled row predicate for the orders command's --where flag.
type Where struct {
	prog *vm.Program
}

// CompileWhere compiles an expression evaluated against each row's columns.
// String columns are exposed by name; MONTANT is the numeric amount.
func CompileWhere(src string) (*Where, error) {
	prog, err := expr.Compile(src, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("view: compile where: %w", err)
	}
	return &Where{prog: prog}, nil
}

// Match evaluates the predicate for one row. Evaluation errors count as no
// match.
func (w *Where) Match(r api.Record) bool {
	env := make(map[string]any, len(r)+1)
	for k, v := range r {
		env[k] = v
	}
	if amount, ok := money.Parse(r.Get("MONTANT_HT")); ok {
		env["MONTANT"] = amount
	} else {
		env["MONTANT"] = 0.0
	}
	out, err := expr.Run(w.prog, env)
	if err != nil {
		return false
	}
	b, _ := out.(bool)
	return b
}

// ApplyWhere filters rows by the predicate, preserving order.
func (w *Where) ApplyWhere(rows []api.Record) []api.Record {
	out := make([]api.Record, 0, len(rows))
	for _, r := range rows {
		if w.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
