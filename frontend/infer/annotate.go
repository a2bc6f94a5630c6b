package infer

import (
	"fmt"
	"io"
	"strings"

	"github.com/cottand/dltype/frontend/ast"
	"github.com/cottand/dltype/frontend/ops"
	"github.com/cottand/dltype/frontend/types"
)

const isIn = "∈"

// annotatedClause returns a copy of clause where every variable is renamed to
// carry its inferred TypeSet, like `x∈{number}`
func annotatedClause(clause *ast.Clause, ct *ClauseTypes) *ast.Clause {
	clone := clause.Clone().(*ast.Clause)
	cloneTypes := ct.Rebind(clone)

	var annotate ast.Mapper
	annotate = func(n ast.Node) ast.Node {
		switch n := n.(type) {
		case *ast.Variable:
			return &ast.Variable{Name: n.Name + isIn + cloneTypes.Of(n).String(), Location: n.Location}
		case *ast.UnnamedVariable:
			return &ast.Variable{Name: "_" + isIn + cloneTypes.Of(n).String(), Location: n.Location}
		}
		n.Apply(annotate)
		return n
	}
	clone.Apply(annotate)
	return clone
}

// AnnotatedClauses returns the clauses of the last iteration with their variables renamed
// to carry their types. It is empty unless Config.Debug is set
func (a *Analysis) AnnotatedClauses() []*ast.Clause {
	return a.annotatedClauses
}

// Print writes the debug report of the analysis: the constraint-solving logs,
// the annotated clauses, and every clause with the type of each of its arguments
func (a *Analysis) Print(w io.Writer) error {
	var sb strings.Builder
	sb.WriteString("-- Analysis logs --\n")
	sb.WriteString(a.logs.String())
	sb.WriteString("\n-- Result --\n")
	for _, clause := range a.annotatedClauses {
		sb.WriteString(clause.String())
		sb.WriteString("\n")
	}
	sb.WriteString("\n-- Result (2) --\n")
	p := &annotationPrinter{a: a, sb: &sb}
	for _, clause := range a.program.Clauses {
		p.clause(clause)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Annotate renders a single clause with the type of each of its arguments
func (a *Analysis) Annotate(clause *ast.Clause) string {
	var sb strings.Builder
	(&annotationPrinter{a: a, sb: &sb}).clause(clause)
	return sb.String()
}

type annotationPrinter struct {
	a  *Analysis
	sb *strings.Builder
}

func (p *annotationPrinter) print(parts ...any) {
	for _, part := range parts {
		fmt.Fprint(p.sb, part)
	}
}

func (p *annotationPrinter) typesOf(arg ast.Argument) types.TypeSet {
	ts, ok := p.a.argumentTypes[arg]
	if !ok {
		return types.AllTypes()
	}
	return ts
}

func (p *annotationPrinter) clause(clause *ast.Clause) {
	p.atom(clause.Head)
	if len(clause.Body) > 0 {
		p.print(" :- \n    ")
		p.literals(clause.Body, "    ")
	}
	p.print(".\n")
}

func (p *annotationPrinter) literals(lits []ast.Literal, indent string) {
	for i, lit := range lits {
		if i > 0 {
			p.print(",\n", indent)
		}
		switch lit := lit.(type) {
		case *ast.Atom:
			p.atom(lit)
		case *ast.Negation:
			p.print("!")
			p.atom(lit.Atom)
		case *ast.BinaryConstraint:
			p.argument(lit.LHS)
			op := lit.Op
			if resolved, ok := p.a.resolvedComparison(lit); ok {
				op = resolved
			}
			p.print(" ", op, " ")
			p.argument(lit.RHS)
		default:
			panic(ast.Unsupported("annotation printer", lit))
		}
	}
}

func (p *annotationPrinter) atom(atom *ast.Atom) {
	p.print(atom.Name, "(")
	p.arguments(atom.Args, ",")
	p.print(")")
}

func (p *annotationPrinter) arguments(args []ast.Argument, sep string) {
	for i, arg := range args {
		if i > 0 {
			p.print(sep)
		}
		p.argument(arg)
	}
}

func (p *annotationPrinter) argument(arg ast.Argument) {
	switch arg := arg.(type) {
	case *ast.Variable:
		p.print(arg.Name, isIn, p.typesOf(arg))
	case *ast.UnnamedVariable:
		p.print("_", isIn, p.typesOf(arg))
	case *ast.NumericConstant:
		p.print(arg.Value, isIn)
		if t, ok := p.a.resolvedConstant(arg); ok {
			p.print("{", t, "}")
		} else {
			p.print("{???}")
		}
	case *ast.StringConstant:
		p.print(arg, isIn, "{string}")
	case *ast.NilConstant:
		p.print(arg, isIn, "{any_record}")
	case *ast.Counter:
		p.print(arg, isIn, "{", types.Number, "}")
	case *ast.IterationCounter:
		p.print(arg, isIn, "{", types.Unsigned, "}")
	case *ast.IntrinsicFunctor:
		name := arg.Symbol
		if info, ok := p.a.resolvedFunctor(arg); ok {
			name = info.Op.String()
		}
		if len(arg.Args) == 2 && ops.IsInfixFunctorOp(arg.Symbol) {
			p.print("(")
			p.argument(arg.Args[0])
			p.print(" ", name, " ")
			p.argument(arg.Args[1])
			p.print(")")
		} else {
			p.print(name, "(")
			p.arguments(arg.Args, ",")
			p.print(")")
		}
		p.print(isIn, p.typesOf(arg))
	case *ast.UserDefinedFunctor:
		p.print("@", arg.Name, "(")
		p.arguments(arg.Args, ",")
		p.print(")", isIn, p.typesOf(arg))
	case *ast.TypeCast:
		p.print("as(")
		p.argument(arg.Value)
		p.print(",", arg.Type, ")")
	case *ast.RecordInit:
		p.print("[")
		p.arguments(arg.Args, ",")
		p.print("]", isIn, p.typesOf(arg))
	case *ast.BranchInit:
		p.print("$", arg.Branch, "(")
		p.arguments(arg.Args, ", ")
		p.print(")", isIn, p.typesOf(arg))
	case *ast.IntrinsicAggregator:
		op := arg.Op
		if resolved, ok := p.a.resolvedAggregator(arg); ok {
			op = resolved
		}
		p.print(op, " ")
		if arg.Target != nil {
			p.argument(arg.Target)
		}
		p.print(" : { ")
		p.literals(arg.Body, "        ")
		p.print(" }")
	case *ast.UserDefinedAggregator:
		p.print("@@", arg.Name, " ")
		p.argument(arg.Target)
		p.print(", ")
		p.argument(arg.Init)
		p.print(" : { ")
		p.literals(arg.Body, "        ")
		p.print(" }")
	default:
		panic(ast.Unsupported("annotation printer", arg))
	}
}
