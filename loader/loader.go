// Package loader reads Datalog programs written as YAML documents into an ast.Program.
//
// A document may declare `types`, `relations`, `functors` and `clauses`; the declarations
// of every document in a stream are merged into a single program. Arguments and body literals
// are single-key mappings whose key says what they are, for example
//
//	clauses:
//	  - head: {r: [{var: x}]}
//	    body:
//	      - {r: [{var: y}]}
//	      - {"=": [{var: x}, {call: ["+", {var: y}, {num: 1}]}]}
//
// Every node carries the line and column of the YAML node it was read from.
package loader

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cottand/dltype/frontend/ast"
	"github.com/cottand/dltype/frontend/ilerr"
	"github.com/cottand/dltype/internal/log"
	"gopkg.in/yaml.v3"
)

var loaderLogger = log.DefaultLogger.With("section", "loader")

// Load decodes every YAML document in r into a single program.
//
// Malformed declarations or clauses are reported in the returned *ilerr.Errors and skipped,
// while the error is only non-nil when r cannot be read or is not YAML at all.
func Load(r io.Reader) (*ast.Program, *ilerr.Errors, error) {
	d := &decoder{program: &ast.Program{Location: ast.Location{Line: 1, Column: 1}}}
	dec := yaml.NewDecoder(r)
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, d.errs, fmt.Errorf("decode YAML: %w", err)
		}
		d.document(&doc)
	}
	loaderLogger.Debug("loaded program",
		"types", len(d.program.Types),
		"relations", len(d.program.Relations),
		"functors", len(d.program.Functors),
		"clauses", len(d.program.Clauses),
		"errors", d.errs,
	)
	return d.program, d.errs, nil
}

// LoadString is Load over the contents of src
func LoadString(src string) (*ast.Program, *ilerr.Errors, error) {
	return Load(strings.NewReader(src))
}

type decoder struct {
	program *ast.Program
	errs    *ilerr.Errors
}

func locationOf(n *yaml.Node) ast.Location {
	return ast.Location{Line: n.Line, Column: n.Column}
}

func (d *decoder) errorf(at *yaml.Node, format string, args ...any) {
	d.errs = d.errs.With(ilerr.New(ilerr.NewParse{
		Positioner: locationOf(at),
		Message:    fmt.Sprintf(format, args...),
	}))
}

// pairs iterates over the key/value nodes of a mapping
func pairs(n *yaml.Node) [][2]*yaml.Node {
	var kvs [][2]*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		kvs = append(kvs, [2]*yaml.Node{n.Content[i], n.Content[i+1]})
	}
	return kvs
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

// single returns the only key and value of a single-key mapping
func (d *decoder) single(n *yaml.Node, what string) (key string, value *yaml.Node, ok bool) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		d.errorf(n, "expected %s as a mapping with a single key", what)
		return "", nil, false
	}
	return n.Content[0].Value, n.Content[1], true
}

func (d *decoder) scalar(n *yaml.Node, what string) (string, bool) {
	if n.Kind != yaml.ScalarNode || isNull(n) {
		d.errorf(n, "expected %s as a scalar", what)
		return "", false
	}
	return n.Value, true
}

func (d *decoder) sequence(n *yaml.Node, what string) ([]*yaml.Node, bool) {
	if isNull(n) {
		return nil, true
	}
	if n.Kind != yaml.SequenceNode {
		d.errorf(n, "expected %s as a sequence", what)
		return nil, false
	}
	return n.Content, true
}

func (d *decoder) document(doc *yaml.Node) {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return
	}
	root := doc.Content[0]
	if isNull(root) {
		return
	}
	if root.Kind != yaml.MappingNode {
		d.errorf(root, "expected a program as a mapping of types, relations, functors and clauses")
		return
	}
	for _, kv := range pairs(root) {
		key, value := kv[0], kv[1]
		switch key.Value {
		case "types":
			d.types(value)
		case "relations":
			d.relations(value)
		case "functors":
			d.functors(value)
		case "clauses":
			d.clauses(value)
		default:
			d.errorf(key, "unknown section '%s'", key.Value)
		}
	}
}

// attributes reads a sequence of single-key `{name: type}` mappings
func (d *decoder) attributes(n *yaml.Node) ([]*ast.Attribute, bool) {
	items, ok := d.sequence(n, "attributes")
	if !ok {
		return nil, false
	}
	attrs := make([]*ast.Attribute, 0, len(items))
	for _, item := range items {
		name, typeNode, ok := d.single(item, "an attribute")
		if !ok {
			return nil, false
		}
		typeName, ok := d.scalar(typeNode, "the type of attribute '"+name+"'")
		if !ok {
			return nil, false
		}
		attr := ast.NewAttribute(name, typeName)
		attr.Location = locationOf(item)
		attrs = append(attrs, attr)
	}
	return attrs, true
}

func (d *decoder) types(n *yaml.Node) {
	if n.Kind != yaml.MappingNode {
		d.errorf(n, "expected types as a mapping from type name to definition")
		return
	}
	for _, kv := range pairs(n) {
		if decl, ok := d.typeDecl(kv[0], kv[1]); ok {
			d.program.Types = append(d.program.Types, decl)
		}
	}
}

func (d *decoder) typeDecl(nameNode, n *yaml.Node) (ast.TypeDecl, bool) {
	name := nameNode.Value
	form, value, ok := d.single(n, "the definition of type '"+name+"'")
	if !ok {
		return nil, false
	}
	loc := locationOf(nameNode)
	switch form {
	case "subset":
		base, ok := d.scalar(value, "the base type of '"+name+"'")
		return &ast.SubsetType{Name: name, Base: base, Location: loc}, ok
	case "alias":
		aliased, ok := d.scalar(value, "the aliased type of '"+name+"'")
		return &ast.AliasType{Name: name, Aliased: aliased, Location: loc}, ok
	case "union":
		items, ok := d.sequence(value, "the elements of union '"+name+"'")
		if !ok {
			return nil, false
		}
		union := &ast.UnionType{Name: name, Location: loc}
		for _, item := range items {
			element, ok := d.scalar(item, "an element of union '"+name+"'")
			if !ok {
				return nil, false
			}
			union.Elements = append(union.Elements, element)
		}
		return union, true
	case "record":
		fields, ok := d.attributes(value)
		return &ast.RecordType{Name: name, Fields: fields, Location: loc}, ok
	case "adt":
		if value.Kind != yaml.MappingNode {
			d.errorf(value, "expected the branches of '%s' as a mapping from branch name to fields", name)
			return nil, false
		}
		adt := &ast.AlgebraicDataType{Name: name, Location: loc}
		for _, kv := range pairs(value) {
			fields, ok := d.attributes(kv[1])
			if !ok {
				return nil, false
			}
			adt.Branches = append(adt.Branches, &ast.BranchDeclaration{
				Name:     kv[0].Value,
				Fields:   fields,
				Location: locationOf(kv[0]),
			})
		}
		return adt, true
	}
	d.errorf(n, "unknown type definition '%s' for '%s'", form, name)
	return nil, false
}

func (d *decoder) relations(n *yaml.Node) {
	if n.Kind != yaml.MappingNode {
		d.errorf(n, "expected relations as a mapping from relation name to attributes")
		return
	}
	for _, kv := range pairs(n) {
		attrs, ok := d.attributes(kv[1])
		if !ok {
			continue
		}
		rel := ast.NewRelation(kv[0].Value, attrs...)
		rel.Location = locationOf(kv[0])
		d.program.Relations = append(d.program.Relations, rel)
	}
}

func (d *decoder) functors(n *yaml.Node) {
	if n.Kind != yaml.MappingNode {
		d.errorf(n, "expected functors as a mapping from functor name to signature")
		return
	}
	for _, kv := range pairs(n) {
		if decl, ok := d.functor(kv[0], kv[1]); ok {
			d.program.Functors = append(d.program.Functors, decl)
		}
	}
}

func (d *decoder) functor(nameNode, n *yaml.Node) (*ast.FunctorDeclaration, bool) {
	name := nameNode.Value
	if n.Kind != yaml.MappingNode {
		d.errorf(n, "expected the signature of functor '%s' as a mapping", name)
		return nil, false
	}
	decl := &ast.FunctorDeclaration{Name: name, Location: locationOf(nameNode)}
	for _, kv := range pairs(n) {
		key, value := kv[0], kv[1]
		switch key.Value {
		case "params":
			params, ok := d.attributes(value)
			if !ok {
				return nil, false
			}
			decl.Params = params
		case "returns":
			returns, ok := d.scalar(value, "the return type of '"+name+"'")
			if !ok {
				return nil, false
			}
			decl.Return = ast.NewAttribute("", returns)
			decl.Return.Location = locationOf(value)
		case "stateful":
			if err := value.Decode(&decl.Stateful); err != nil {
				d.errorf(value, "expected 'stateful' of '%s' to be a boolean", name)
				return nil, false
			}
		default:
			d.errorf(key, "unknown field '%s' in functor '%s'", key.Value, name)
			return nil, false
		}
	}
	if decl.Return == nil {
		d.errorf(nameNode, "functor '%s' declares no return type", name)
		return nil, false
	}
	return decl, true
}

func (d *decoder) clauses(n *yaml.Node) {
	items, ok := d.sequence(n, "clauses")
	if !ok {
		return
	}
	for _, item := range items {
		if clause, ok := d.clause(item); ok {
			d.program.Clauses = append(d.program.Clauses, clause)
		}
	}
}

func (d *decoder) clause(n *yaml.Node) (*ast.Clause, bool) {
	if n.Kind != yaml.MappingNode {
		d.errorf(n, "expected a clause as a mapping with a head and an optional body")
		return nil, false
	}
	clause := &ast.Clause{Location: locationOf(n)}
	for _, kv := range pairs(n) {
		key, value := kv[0], kv[1]
		switch key.Value {
		case "head":
			head, ok := d.atom(value)
			if !ok {
				return nil, false
			}
			clause.Head = head
		case "body":
			body, ok := d.literals(value)
			if !ok {
				return nil, false
			}
			clause.Body = body
		default:
			d.errorf(key, "unknown field '%s' in clause", key.Value)
			return nil, false
		}
	}
	if clause.Head == nil {
		d.errorf(n, "clause has no head")
		return nil, false
	}
	return clause, true
}
