package types

import (
	"strings"

	"github.com/cottand/dltype/frontend/ops"
)

// Type is a type of the program's type environment.
//
// Types are compared by identity: within one Environment, each name maps to exactly one Type.
// The set of implementations is closed.
type Type interface {
	Name() string
	String() string
	typ()
}

var (
	_ Type = (*ConstantType)(nil)
	_ Type = (*PrimitiveType)(nil)
	_ Type = (*SubsetType)(nil)
	_ Type = (*AliasType)(nil)
	_ Type = (*UnionType)(nil)
	_ Type = (*RecordType)(nil)
	_ Type = (*AlgebraicDataType)(nil)
)

func (*ConstantType) typ()      {}
func (*PrimitiveType) typ()     {}
func (*SubsetType) typ()        {}
func (*AliasType) typ()         {}
func (*UnionType) typ()         {}
func (*RecordType) typ()        {}
func (*AlgebraicDataType) typ() {}

// ConstantType is the type of literals of one primitive kind, like `__numberConstant`.
// It is the top of the lattice of its kind
type ConstantType struct {
	name string
	kind ops.Kind
}

func (t *ConstantType) Name() string   { return t.name }
func (t *ConstantType) String() string { return t.name }
func (t *ConstantType) Kind() ops.Kind { return t.kind }

// PrimitiveType is a built-in type, like number or symbol
type PrimitiveType struct {
	name     string
	constant *ConstantType
}

func (t *PrimitiveType) Name() string            { return t.name }
func (t *PrimitiveType) String() string          { return t.name }
func (t *PrimitiveType) Constant() *ConstantType { return t.constant }

// SubsetType is a user-declared subtype of another type
type SubsetType struct {
	name string
	base Type
}

func (t *SubsetType) Name() string   { return t.name }
func (t *SubsetType) String() string { return t.name + " <: " + t.base.Name() }
func (t *SubsetType) Base() Type     { return t.base }

// AliasType is another name for an existing type, indistinguishable from it
type AliasType struct {
	name    string
	aliased Type
}

func (t *AliasType) Name() string   { return t.name }
func (t *AliasType) String() string { return t.name + " = " + t.aliased.Name() }
func (t *AliasType) Aliased() Type  { return t.aliased }

type UnionType struct {
	name     string
	elements []Type
}

func (t *UnionType) Name() string { return t.name }
func (t *UnionType) String() string {
	names := make([]string, len(t.elements))
	for i, e := range t.elements {
		names[i] = e.Name()
	}
	return t.name + " = " + strings.Join(names, " | ")
}
func (t *UnionType) Elements() []Type { return t.elements }

type RecordField struct {
	Name string
	Type Type
}

// RecordType is a product type. Its fields may refer to itself
type RecordType struct {
	name   string
	fields []RecordField
}

func (t *RecordType) Name() string { return t.name }
func (t *RecordType) String() string {
	fields := make([]string, len(t.fields))
	for i, f := range t.fields {
		fields[i] = f.Name + ": " + f.Type.Name()
	}
	return t.name + " = [" + strings.Join(fields, ", ") + "]"
}
func (t *RecordType) Fields() []RecordField { return t.fields }
func (t *RecordType) Arity() int            { return len(t.fields) }

type Branch struct {
	Name  string
	Types []Type
}

// AlgebraicDataType is a sum of branches, each with its own fields
type AlgebraicDataType struct {
	name     string
	branches []Branch
}

func (t *AlgebraicDataType) Name() string { return t.name }
func (t *AlgebraicDataType) String() string {
	branches := make([]string, len(t.branches))
	for i, b := range t.branches {
		fields := make([]string, len(b.Types))
		for j, f := range b.Types {
			fields[j] = f.Name()
		}
		branches[i] = b.Name + " {" + strings.Join(fields, ", ") + "}"
	}
	return t.name + " = " + strings.Join(branches, " | ")
}
func (t *AlgebraicDataType) Branches() []Branch { return t.branches }

// Branch looks up the branch called name
func (t *AlgebraicDataType) Branch(name string) (Branch, bool) {
	for _, b := range t.branches {
		if b.Name == name {
			return b, true
		}
	}
	return Branch{}, false
}
