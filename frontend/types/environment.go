package types

import (
	"iter"
	"slices"
	"strings"

	"github.com/benbjohnson/immutable"
	"github.com/cottand/dltype/frontend/ast"
	"github.com/cottand/dltype/frontend/ilerr"
	"github.com/cottand/dltype/frontend/ops"
	"github.com/pkg/errors"
)

const (
	NumberConstant   = "__numberConstant"
	UnsignedConstant = "__unsignedConstant"
	FloatConstant    = "__floatConstant"
	SymbolConstant   = "__symbolConstant"

	Number   = "number"
	Unsigned = "unsigned"
	Float    = "float"
	Symbol   = "symbol"
)

// Environment holds every type known to a program, by name.
// It is immutable once built, and safe to share
type Environment struct {
	types      *immutable.SortedMap[string, Type]
	constants  map[ops.Kind]*ConstantType
	primitives map[ops.Kind]*PrimitiveType
	branches   map[string]*AlgebraicDataType
}

// NewEnvironment builds the Environment of the types declared in program.
// Invalid declarations are reported and left out, together with the declarations that depend on them
func NewEnvironment(program *ast.Program) (*Environment, *ilerr.Errors) {
	b := newEnvBuilder()
	b.declare(program.Types)
	b.resolve()
	b.rejectCycles()
	b.rejectInvalid()
	return b.build(), b.errs
}

func (env *Environment) LookupType(name string) (Type, bool) {
	return env.types.Get(name)
}

// MustLookupType is LookupType for names known to be types, like the ones of a checked program
func (env *Environment) MustLookupType(name string) Type {
	t, ok := env.types.Get(name)
	if !ok {
		panic(errors.Errorf("type %v is not part of the environment", name))
	}
	return t
}

func (env *Environment) IsType(name string) bool {
	_, ok := env.types.Get(name)
	return ok
}

// ConstantType returns the type of literals of a primitive kind
func (env *Environment) ConstantType(kind ops.Kind) *ConstantType {
	c, ok := env.constants[kind]
	if !ok {
		panic(errors.Errorf("no constant type for kind %v", kind))
	}
	return c
}

func (env *Environment) PrimitiveType(kind ops.Kind) *PrimitiveType {
	p, ok := env.primitives[kind]
	if !ok {
		panic(errors.Errorf("no primitive type for kind %v", kind))
	}
	return p
}

// ConstantNumericTypes is the set of constant types of every numeric kind
func (env *Environment) ConstantNumericTypes() TypeSet {
	return NewTypeSet(env.constants[ops.Signed], env.constants[ops.Unsigned], env.constants[ops.Float])
}

// Types iterates over every type, sorted by name
func (env *Environment) Types() iter.Seq[Type] {
	return func(yield func(Type) bool) {
		itr := env.types.Iterator()
		for !itr.Done() {
			_, t, _ := itr.Next()
			if !yield(t) {
				return
			}
		}
	}
}

// RecordTypes returns the record types of the given arity, or all record types when arity is negative
func (env *Environment) RecordTypes(arity int) TypeSet {
	var records []Type
	for t := range env.Types() {
		if r, ok := t.(*RecordType); ok && (arity < 0 || r.Arity() == arity) {
			records = append(records, r)
		}
	}
	return NewTypeSet(records...)
}

// BranchType returns the algebraic data type that declares the branch called branch
func (env *Environment) BranchType(branch string) (*AlgebraicDataType, bool) {
	adt, ok := env.branches[branch]
	return adt, ok
}

func (env *Environment) String() string {
	sb := strings.Builder{}
	for t := range env.Types() {
		sb.WriteString(t.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

type envBuilder struct {
	types *immutable.SortedMapBuilder[string, Type]
	decls map[string]ast.TypeDecl
	// order is the declaration order of decls
	order      []string
	constants  map[ops.Kind]*ConstantType
	primitives map[ops.Kind]*PrimitiveType
	branches   map[string]*AlgebraicDataType
	errs       *ilerr.Errors
}

func newEnvBuilder() *envBuilder {
	b := &envBuilder{
		types:      immutable.NewSortedMapBuilder[string, Type](nil),
		decls:      make(map[string]ast.TypeDecl),
		constants:  make(map[ops.Kind]*ConstantType),
		primitives: make(map[ops.Kind]*PrimitiveType),
		branches:   make(map[string]*AlgebraicDataType),
	}
	builtins := []struct {
		kind      ops.Kind
		constant  string
		primitive string
	}{
		{ops.Signed, NumberConstant, Number},
		{ops.Unsigned, UnsignedConstant, Unsigned},
		{ops.Float, FloatConstant, Float},
		{ops.Symbol, SymbolConstant, Symbol},
	}
	for _, builtin := range builtins {
		c := &ConstantType{name: builtin.constant, kind: builtin.kind}
		p := &PrimitiveType{name: builtin.primitive, constant: c}
		b.constants[builtin.kind] = c
		b.primitives[builtin.kind] = p
		b.types.Set(c.name, c)
		b.types.Set(p.name, p)
	}
	return b
}

// declare allocates a Type for every declaration, so that they can refer to each other
func (b *envBuilder) declare(decls []ast.TypeDecl) {
	for _, decl := range decls {
		name := decl.TypeName()
		if _, exists := b.types.Get(name); exists {
			b.errs = b.errs.With(ilerr.New(ilerr.NewDuplicateType{Positioner: decl, Name: name}))
			continue
		}
		var t Type
		switch decl := decl.(type) {
		case *ast.SubsetType:
			t = &SubsetType{name: name}
		case *ast.AliasType:
			t = &AliasType{name: name}
		case *ast.UnionType:
			t = &UnionType{name: name}
		case *ast.RecordType:
			t = &RecordType{name: name}
		case *ast.AlgebraicDataType:
			t = &AlgebraicDataType{name: name}
		default:
			panic(ast.Unsupported("declare type", decl))
		}
		b.types.Set(name, t)
		b.decls[name] = decl
		b.order = append(b.order, name)
	}
}

// resolve links the declared types to the types they mention.
// Declarations mentioning unknown types are dropped
func (b *envBuilder) resolve() {
	for _, name := range b.order {
		decl := b.decls[name]
		t, _ := b.types.Get(name)
		ok := true
		lookup := func(ref string) Type {
			found, exists := b.types.Get(ref)
			if !exists {
				b.errs = b.errs.With(ilerr.New(ilerr.NewUndefinedType{Positioner: decl, Name: ref, In: name}))
				ok = false
			}
			return found
		}
		switch decl := decl.(type) {
		case *ast.SubsetType:
			t.(*SubsetType).base = lookup(decl.Base)
		case *ast.AliasType:
			t.(*AliasType).aliased = lookup(decl.Aliased)
		case *ast.UnionType:
			union := t.(*UnionType)
			for _, e := range decl.Elements {
				union.elements = append(union.elements, lookup(e))
			}
		case *ast.RecordType:
			record := t.(*RecordType)
			for _, f := range decl.Fields {
				record.fields = append(record.fields, RecordField{Name: f.Name, Type: lookup(f.Type)})
			}
		case *ast.AlgebraicDataType:
			adt := t.(*AlgebraicDataType)
			for _, branchDecl := range decl.Branches {
				branch := Branch{Name: branchDecl.Name}
				for _, f := range branchDecl.Fields {
					branch.Types = append(branch.Types, lookup(f.Type))
				}
				adt.branches = append(adt.branches, branch)
				if _, taken := b.branches[branchDecl.Name]; taken {
					b.errs = b.errs.With(ilerr.New(ilerr.NewDuplicateType{Positioner: branchDecl, Name: branchDecl.Name}))
					continue
				}
				b.branches[branchDecl.Name] = adt
			}
		default:
			panic(ast.Unsupported("resolve type", decl))
		}
		if !ok {
			b.drop(name)
		}
	}
}

// references lists the types t is defined in terms of, without indirection through a record or branch
func references(t Type) []Type {
	switch t := t.(type) {
	case *SubsetType:
		return []Type{t.base}
	case *AliasType:
		return []Type{t.aliased}
	case *UnionType:
		return t.elements
	default:
		return nil
	}
}

func (b *envBuilder) rejectCycles() {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[Type]int)
	cyclic := make(map[Type]bool)
	var path []Type
	var visit func(t Type)
	visit = func(t Type) {
		state[t] = visiting
		path = append(path, t)
		for _, ref := range references(t) {
			switch state[ref] {
			case visiting:
				for _, member := range path[slices.Index(path, ref):] {
					cyclic[member] = true
				}
			case unvisited:
				visit(ref)
			}
		}
		path = path[:len(path)-1]
		state[t] = done
	}
	for _, name := range b.order {
		if t, ok := b.types.Get(name); ok && state[t] == unvisited {
			visit(t)
		}
	}
	for _, name := range b.order {
		if t, ok := b.types.Get(name); ok && cyclic[t] {
			b.errs = b.errs.With(ilerr.New(ilerr.NewCyclicType{Positioner: b.decls[name], Name: name}))
			b.drop(name)
		}
	}
}

// rejectInvalid drops types that depend on dropped types, and unions mixing kinds,
// until every remaining type is well-formed
func (b *envBuilder) rejectInvalid() {
	for {
		b.dropDangling()
		if !b.dropMixedUnions() {
			return
		}
	}
}

func (b *envBuilder) dropDangling() {
	for changed := true; changed; {
		changed = false
		for _, name := range b.order {
			if t, ok := b.types.Get(name); ok && !b.dependenciesDefined(t) {
				b.drop(name)
				changed = true
			}
		}
	}
}

func (b *envBuilder) dropMixedUnions() (dropped bool) {
	for _, name := range b.order {
		t, ok := b.types.Get(name)
		if !ok {
			continue
		}
		if union, isUnion := t.(*UnionType); isUnion && !homogeneous(union) {
			b.errs = b.errs.With(ilerr.New(ilerr.NewMixedUnion{Positioner: b.decls[name], Name: name}))
			b.drop(name)
			dropped = true
		}
	}
	return dropped
}

func (b *envBuilder) dependenciesDefined(t Type) bool {
	defined := func(ref Type) bool {
		found, ok := b.types.Get(ref.Name())
		return ok && found == ref
	}
	var refs []Type
	switch t := t.(type) {
	case *RecordType:
		for _, f := range t.fields {
			refs = append(refs, f.Type)
		}
	case *AlgebraicDataType:
		for _, branch := range t.branches {
			refs = append(refs, branch.Types...)
		}
	default:
		refs = references(t)
	}
	for _, ref := range refs {
		if !defined(ref) {
			return false
		}
	}
	return true
}

func homogeneous(union *UnionType) bool {
	if len(union.elements) == 0 {
		return false
	}
	for _, k := range allKinds {
		if IsOfKind(union, k) {
			return true
		}
	}
	return false
}

func (b *envBuilder) drop(name string) {
	if t, ok := b.types.Get(name); ok {
		if adt, isADT := t.(*AlgebraicDataType); isADT {
			for branch, owner := range b.branches {
				if owner == adt {
					delete(b.branches, branch)
				}
			}
		}
	}
	b.types.Delete(name)
}

func (b *envBuilder) build() *Environment {
	return &Environment{
		types:      b.types.Map(),
		constants:  b.constants,
		primitives: b.primitives,
		branches:   b.branches,
	}
}
