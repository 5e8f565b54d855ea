package compiler

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/fizzbuzz/internal/ir"
)

//go:embed schema.cue
var schemaSource string

// schemaFor compiles the rule-set schema in the same context as v.
func schemaFor(v cue.Value) (cue.Value, error) {
	schema := v.Context().CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("compile schema: %w", err)
	}
	return schema.LookupPath(cue.ParsePath("#RuleSet")), nil
}

// CompileCUE parses a CUE value into a RuleSet.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The value is unified with the #RuleSet schema first, so unknown fields,
// wrong types and out-of-range integers are reported with their position:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`rules: [{kind: "numeric"}]`)
//	rs, err := CompileCUE(v)
func CompileCUE(v cue.Value) (*ir.RuleSet, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	schema, err := schemaFor(v)
	if err != nil {
		return nil, err
	}
	u := schema.Unify(v)
	if err := u.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	rs := &ir.RuleSet{}

	if rs.Name, err = optionalString(u, "name"); err != nil {
		return nil, err
	}

	if rs.Format, err = parseFormat(u); err != nil {
		return nil, err
	}

	rs.Rules, err = parseRules(u)
	if err != nil {
		return nil, err
	}

	return rs, nil
}

// parseFormat extracts the optional format block.
func parseFormat(v cue.Value) (ir.FormatOptions, error) {
	var opts ir.FormatOptions

	fv := v.LookupPath(cue.ParsePath("format"))
	if !fv.Exists() {
		return opts, nil
	}

	sep, err := optionalString(fv, "separator")
	if err != nil {
		return opts, err
	}
	opts.Separator = sep

	c, err := optionalString(fv, "case")
	if err != nil {
		return opts, err
	}
	opts.Case = ir.Case(c)

	return opts, nil
}

// parseRules extracts the rule list in declaration order.
func parseRules(v cue.Value) ([]ir.Rule, error) {
	rulesVal := v.LookupPath(cue.ParsePath("rules"))
	if !rulesVal.Exists() {
		return nil, &CompileError{
			Field:   "rules",
			Message: "rules is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := rulesVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var rules []ir.Rule
	for iter.Next() {
		r, err := parseRule(iter.Value())
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// parseRule extracts a single rule definition.
func parseRule(v cue.Value) (ir.Rule, error) {
	var (
		r   ir.Rule
		err error
	)

	kind, err := optionalString(v, "kind")
	if err != nil {
		return r, err
	}
	r.Kind = ir.RuleKind(kind)

	if r.Name, err = optionalString(v, "name"); err != nil {
		return r, err
	}
	if r.Token, err = optionalString(v, "token"); err != nil {
		return r, err
	}
	if r.Suffix, err = optionalString(v, "suffix"); err != nil {
		return r, err
	}
	if r.Priority, err = optionalUint32(v, "priority"); err != nil {
		return r, err
	}
	if r.Divisor, err = optionalUint32(v, "divisor"); err != nil {
		return r, err
	}
	if r.Divisors, err = uint32List(v, "divisors"); err != nil {
		return r, err
	}
	if r.Rivals, err = uint32List(v, "rivals"); err != nil {
		return r, err
	}

	return r, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalUint32(v cue.Value, field string) (uint32, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return 0, nil
	}
	return toUint32(fv, field)
}

func uint32List(v cue.Value, field string) ([]uint32, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, nil
	}

	iter, err := fv.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var out []uint32
	for iter.Next() {
		n, err := toUint32(iter.Value(), field)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func toUint32(v cue.Value, field string) (uint32, error) {
	n, err := v.Uint64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	if n > uint64(^uint32(0)) {
		return 0, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("%d does not fit in 32 bits", n),
			Pos:     v.Pos(),
		}
	}
	return uint32(n), nil
}
