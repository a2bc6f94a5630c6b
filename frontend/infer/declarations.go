package infer

import (
	"github.com/cottand/dltype/frontend/ast"
	"github.com/cottand/dltype/frontend/types"
)

// validDeclaration looks up the declaration of a user-defined functor or aggregate.
// It is absent if the functor was never declared, or if its signature mentions unknown types
func validDeclaration(env *types.Environment, program *ast.Program, name string) (*ast.FunctorDeclaration, bool) {
	decl, ok := program.FunctorDeclaration(name)
	if !ok || !declarationTypesKnown(env, decl) {
		return nil, false
	}
	return decl, true
}

func declarationTypesKnown(env *types.Environment, decl *ast.FunctorDeclaration) bool {
	if decl.Return == nil || !env.IsType(decl.Return.Type) {
		return false
	}
	for _, param := range decl.Params {
		if !env.IsType(param.Type) {
			return false
		}
	}
	return true
}

// unknownDeclarationType returns the first type of decl's signature missing from env
func unknownDeclarationType(env *types.Environment, decl *ast.FunctorDeclaration) (string, bool) {
	for _, param := range decl.Params {
		if !env.IsType(param.Type) {
			return param.Type, true
		}
	}
	if decl.Return != nil && !env.IsType(decl.Return.Type) {
		return decl.Return.Type, true
	}
	return "", false
}
