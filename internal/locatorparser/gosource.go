package locatorparser

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"

	"stepfuse/pkg/locator"
)

// ParseGoSource scans a Go page-object source file for locator bindings.
// Two shapes are recognized:
//
//	var UserNameInput = page.Locator("#username")   // top-level var
//	p.SubmitButton = page.GetByRole("button")       // assignment in a method
//
// The declared name becomes the identifier and the right-hand side, rendered
// back to source, becomes the access expression.
func ParseGoSource(path string) (*locator.Table, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("could not parse locator source %s: %w", path, err)
	}

	builder := locator.NewBuilder()

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.VAR {
				continue
			}
			for _, spec := range d.Specs {
				valueSpec, ok := spec.(*ast.ValueSpec)
				if !ok {
					continue
				}
				collectValueSpec(builder, fset, valueSpec)
			}
		case *ast.FuncDecl:
			if d.Body == nil {
				continue
			}
			ast.Inspect(d.Body, func(n ast.Node) bool {
				assign, ok := n.(*ast.AssignStmt)
				if !ok {
					return true
				}
				collectAssignment(builder, fset, assign)
				return true
			})
		}
	}

	return builder.Build(), nil
}

func collectValueSpec(builder *locator.Builder, fset *token.FileSet, spec *ast.ValueSpec) {
	for i, name := range spec.Names {
		if i >= len(spec.Values) {
			break
		}
		expr := renderExpr(fset, spec.Values[i])
		if expr == "" {
			continue
		}
		builder.Add(name.Name, expr, name.Name)
	}
}

func collectAssignment(builder *locator.Builder, fset *token.FileSet, assign *ast.AssignStmt) {
	for i, lhs := range assign.Lhs {
		if i >= len(assign.Rhs) {
			break
		}

		selector, ok := lhs.(*ast.SelectorExpr)
		if !ok {
			continue
		}
		expr := renderExpr(fset, assign.Rhs[i])
		if expr == "" {
			continue
		}
		builder.Add(renderExpr(fset, selector), expr, selector.Sel.Name)
	}
}

// renderExpr prints an AST expression back to source text.
func renderExpr(fset *token.FileSet, expr ast.Expr) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, expr); err != nil {
		return ""
	}
	return buf.String()
}
