package store

import (
	"encoding/json"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/pkg/errors"
)

// Filter keeps the entries for which the boolean expression where holds.
// Front matter fields are available by name next to id, collection, path
// and updatedAt, e.g. `"go" in tags && pubDate >= "2024-01-01"`.
func Filter(entries []Entry, where string) ([]Entry, error) {
	if where == "" {
		return entries, nil
	}

	program, err := expr.Compile(where, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, errors.Wrap(err, "invalid filter expression")
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		ok, err := matches(program, e)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to evaluate filter for '%s/%s'", e.Collection, e.ID)
		}
		if ok {
			out = append(out, e)
		}
	}

	return out, nil
}

func matches(program *vm.Program, e Entry) (bool, error) {
	env := map[string]any{}
	if e.Data != "" {
		if err := json.Unmarshal([]byte(e.Data), &env); err != nil {
			return false, err
		}
	}
	env["id"] = e.ID
	env["collection"] = e.Collection
	env["path"] = e.Path
	env["updatedAt"] = e.UpdatedAt

	res, err := expr.Run(program, env)
	if err != nil {
		return false, err
	}

	ok, isBool := res.(bool)
	if !isBool {
		return false, errors.Errorf("filter must evaluate to a boolean, got %T", res)
	}
	return ok, nil
}
