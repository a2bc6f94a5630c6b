package loader

import (
	"strings"

	"github.com/cottand/dltype/frontend/ast"
	"github.com/cottand/dltype/frontend/ops"
	"gopkg.in/yaml.v3"
)

// negationKey introduces a negated atom in a body: `{not: {r: [...]}}`
const negationKey = "not"

func (d *decoder) literals(n *yaml.Node) ([]ast.Literal, bool) {
	items, ok := d.sequence(n, "a body")
	if !ok {
		return nil, false
	}
	lits := make([]ast.Literal, 0, len(items))
	for _, item := range items {
		lit, ok := d.literal(item)
		if !ok {
			return nil, false
		}
		lits = append(lits, lit)
	}
	return lits, true
}

// literal reads a negation, a comparison keyed by its operator, or else an atom keyed by its relation
func (d *decoder) literal(n *yaml.Node) (ast.Literal, bool) {
	key, value, ok := d.single(n, "a literal")
	if !ok {
		return nil, false
	}
	if key == negationKey {
		atom, ok := d.atom(value)
		if !ok {
			return nil, false
		}
		negation := ast.NewNegation(atom)
		negation.Location = locationOf(n)
		return negation, true
	}
	if op, isConstraint := ops.ParseConstraintOp(key); isConstraint {
		args, ok := d.arguments(value, 2, "the operands of '"+key+"'")
		if !ok {
			return nil, false
		}
		bc := ast.NewBinaryConstraint(op, args[0], args[1])
		bc.Location = locationOf(n)
		return bc, true
	}
	return d.atom(n)
}

func (d *decoder) atom(n *yaml.Node) (*ast.Atom, bool) {
	name, value, ok := d.single(n, "an atom")
	if !ok {
		return nil, false
	}
	args, ok := d.arguments(value, -1, "the arguments of '"+name+"'")
	if !ok {
		return nil, false
	}
	atom := ast.NewAtom(name, args...)
	atom.Location = locationOf(n)
	return atom, true
}

// arguments reads a sequence of arguments, which must have length arity unless arity is negative
func (d *decoder) arguments(n *yaml.Node, arity int, what string) ([]ast.Argument, bool) {
	items, ok := d.sequence(n, what)
	if !ok {
		return nil, false
	}
	if arity >= 0 && len(items) != arity {
		d.errorf(n, "expected %d element(s) in %s but got %d", arity, what, len(items))
		return nil, false
	}
	args := make([]ast.Argument, 0, len(items))
	for _, item := range items {
		arg, ok := d.argument(item)
		if !ok {
			return nil, false
		}
		args = append(args, arg)
	}
	return args, true
}

// named reads a sequence whose first element is a name, like `[max, {var: x}, {num: 1}]`
func (d *decoder) named(n *yaml.Node, what string) (string, []ast.Argument, bool) {
	items, ok := d.sequence(n, what)
	if !ok {
		return "", nil, false
	}
	if len(items) == 0 {
		d.errorf(n, "expected %s to start with a name", what)
		return "", nil, false
	}
	name, ok := d.scalar(items[0], "the name in "+what)
	if !ok {
		return "", nil, false
	}
	rest := &yaml.Node{Kind: yaml.SequenceNode, Content: items[1:], Line: n.Line, Column: n.Column}
	args, ok := d.arguments(rest, -1, what)
	return name, args, ok
}

func (d *decoder) argument(n *yaml.Node) (ast.Argument, bool) {
	form, value, ok := d.single(n, "an argument")
	if !ok {
		return nil, false
	}
	loc := locationOf(n)
	switch form {
	case "var":
		name, ok := d.scalar(value, "a variable name")
		return &ast.Variable{Name: name, Location: loc}, ok
	case "_":
		return &ast.UnnamedVariable{Location: loc}, true
	case "num":
		value, ok := d.scalar(value, "a number")
		if !ok {
			return nil, false
		}
		nc := numericConstant(value)
		nc.Location = loc
		return nc, true
	case "str":
		value, ok := d.scalar(value, "a string")
		return &ast.StringConstant{Value: value, Location: loc}, ok
	case "nil":
		return &ast.NilConstant{Location: loc}, true
	case "counter":
		return &ast.Counter{Location: loc}, true
	case "iteration":
		return &ast.IterationCounter{Location: loc}, true
	case "call":
		symbol, args, ok := d.named(value, "a functor call")
		if !ok {
			return nil, false
		}
		return &ast.IntrinsicFunctor{Symbol: symbol, Args: args, Location: loc}, true
	case "udf":
		name, args, ok := d.named(value, "a user-defined functor call")
		if !ok {
			return nil, false
		}
		return &ast.UserDefinedFunctor{Name: name, Args: args, Location: loc}, true
	case "branch":
		name, args, ok := d.named(value, "a branch constructor")
		if !ok {
			return nil, false
		}
		return &ast.BranchInit{Branch: name, Args: args, Location: loc}, true
	case "record":
		args, ok := d.arguments(value, -1, "a record")
		if !ok {
			return nil, false
		}
		return &ast.RecordInit{Args: args, Location: loc}, true
	case "as":
		items, ok := d.sequence(value, "a cast")
		if !ok {
			return nil, false
		}
		if len(items) != 2 {
			d.errorf(value, "expected a cast as [argument, type]")
			return nil, false
		}
		arg, ok := d.argument(items[0])
		if !ok {
			return nil, false
		}
		typeName, ok := d.scalar(items[1], "the type of a cast")
		return &ast.TypeCast{Value: arg, Type: typeName, Location: loc}, ok
	case "agg":
		return d.aggregator(value, loc)
	case "uda":
		return d.userAggregator(value, loc)
	}
	d.errorf(n, "unknown argument '%s'", form)
	return nil, false
}

// numericConstant fixes the type of literals that spell it: a `u` suffix is unsigned,
// a decimal point or exponent is a float. Anything else is left for inference to decide
func numericConstant(value string) *ast.NumericConstant {
	isHex := strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X")
	switch {
	case strings.HasSuffix(value, "u"):
		return ast.NewFixedNumericConstant(strings.TrimSuffix(value, "u"), ast.Uint)
	case !isHex && strings.ContainsAny(value, ".eE"):
		return ast.NewFixedNumericConstant(value, ast.Float)
	}
	return ast.NewNumericConstant(value)
}

// aggregateFields are the fields of `agg` and `uda` mappings
type aggregateFields struct {
	op, name     string
	init, target ast.Argument
	body         []ast.Literal
}

func (d *decoder) aggregateFields(n *yaml.Node, allowed ...string) (aggregateFields, bool) {
	var fields aggregateFields
	if n.Kind != yaml.MappingNode {
		d.errorf(n, "expected an aggregate as a mapping")
		return fields, false
	}
	for _, kv := range pairs(n) {
		key, value := kv[0], kv[1]
		known := false
		for _, a := range allowed {
			known = known || a == key.Value
		}
		if !known {
			d.errorf(key, "unknown field '%s' in aggregate", key.Value)
			return fields, false
		}
		var ok bool
		switch key.Value {
		case "op":
			fields.op, ok = d.scalar(value, "an aggregate operator")
		case "name":
			fields.name, ok = d.scalar(value, "an aggregate name")
		case "init":
			fields.init, ok = d.argument(value)
		case "target":
			fields.target, ok = d.argument(value)
		case "body":
			fields.body, ok = d.literals(value)
		}
		if !ok {
			return fields, false
		}
	}
	return fields, true
}

func (d *decoder) aggregator(n *yaml.Node, loc ast.Location) (ast.Argument, bool) {
	fields, ok := d.aggregateFields(n, "op", "target", "body")
	if !ok {
		return nil, false
	}
	op, known := ops.ParseAggregateOp(fields.op)
	if !known {
		d.errorf(n, "unknown aggregate operator '%s'", fields.op)
		return nil, false
	}
	if fields.target == nil && op != ops.CountAgg {
		d.errorf(n, "aggregate '%s' needs a target", fields.op)
		return nil, false
	}
	agg := ast.NewIntrinsicAggregator(op, fields.target, fields.body...)
	agg.Location = loc
	return agg, true
}

func (d *decoder) userAggregator(n *yaml.Node, loc ast.Location) (ast.Argument, bool) {
	fields, ok := d.aggregateFields(n, "name", "init", "target", "body")
	if !ok {
		return nil, false
	}
	if fields.name == "" || fields.init == nil || fields.target == nil {
		d.errorf(n, "user-defined aggregate needs a name, an init and a target")
		return nil, false
	}
	agg := ast.NewUserDefinedAggregator(fields.name, fields.init, fields.target, fields.body...)
	agg.Location = loc
	return agg, true
}
