package enumvalidator

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/analysis"
)

// enumTypes are the named string types whose values must come from declared constants.
var enumTypes = map[string]bool{
	"EventRequestStatus": true,
	"PinCategory":        true,
}

var Analyzer = &analysis.Analyzer{
	Name: "enumvalidator",
	Doc:  "checks that request status and pin category fields are set from constants, not string literals",
	Run:  run,
}

func run(pass *analysis.Pass) (any, error) {
	for _, file := range pass.Files {
		ast.Inspect(file, func(n ast.Node) bool {
			switch node := n.(type) {
			case *ast.AssignStmt:
				for i, lhs := range node.Lhs {
					if i >= len(node.Rhs) {
						continue
					}
					sel, ok := lhs.(*ast.SelectorExpr)
					if ok && isEnum(pass, sel) && isStringLiteral(node.Rhs[i]) {
						pass.Reportf(node.Pos(),
							"enum field %s assigned string literal; use defined constant instead",
							sel.Sel.Name)
					}
				}
			case *ast.KeyValueExpr:
				key, ok := node.Key.(*ast.Ident)
				if ok && isField(pass, key) && isEnum(pass, key) && isStringLiteral(node.Value) {
					pass.Reportf(node.Pos(),
						"enum field %s assigned string literal; use defined constant instead",
						key.Name)
				}
			}
			return true
		})
	}
	return nil, nil
}

func isEnum(pass *analysis.Pass, expr ast.Expr) bool {
	if t := pass.TypesInfo.TypeOf(expr); t != nil {
		if named, ok := t.(*types.Named); ok {
			return enumTypes[named.Obj().Name()]
		}
	}
	return false
}

// isField excludes map literal keys, which are constants rather than struct fields.
func isField(pass *analysis.Pass, ident *ast.Ident) bool {
	v, ok := pass.TypesInfo.Uses[ident].(*types.Var)
	return ok && v.IsField()
}

func isStringLiteral(expr ast.Expr) bool {
	lit, ok := expr.(*ast.BasicLit)
	return ok && lit.Kind == token.STRING
}
