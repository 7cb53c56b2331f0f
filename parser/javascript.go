package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// JavaScriptParser extracts module references from JavaScript and TypeScript sources.
// The TypeScript grammars add `import type` and `export type` forms.
type JavaScriptParser struct {
	BaseParser
}

func newScriptParser(language *sitter.Language, langName string) *JavaScriptParser {
	parser := sitter.NewParser()
	parser.SetLanguage(language)

	return &JavaScriptParser{
		BaseParser: BaseParser{
			parser:   parser,
			language: language,
			langName: langName,
		},
	}
}

// NewJavaScriptParser creates a parser for .js, .jsx, .mjs and .cjs files
func NewJavaScriptParser() (*JavaScriptParser, error) {
	return newScriptParser(javascript.GetLanguage(), "javascript"), nil
}

// NewTypeScriptParser creates a parser for .ts, .mts and .cts files
func NewTypeScriptParser() (*JavaScriptParser, error) {
	return newScriptParser(typescript.GetLanguage(), "typescript"), nil
}

// NewTSXParser creates a parser for .tsx files
func NewTSXParser() (*JavaScriptParser, error) {
	return newScriptParser(tsx.GetLanguage(), "tsx"), nil
}

func (p *JavaScriptParser) ParseFile(filePath string) (*ParseResult, error) {
	return p.ParseFileGeneric(filePath)
}

// ExtractImports returns every import declaration, re-export, require call and
// literal dynamic import in document order. Repeated specifiers are kept since
// each call site is reported on its own.
func (p *JavaScriptParser) ExtractImports(node *sitter.Node, source []byte) ([]ImportSpecifier, error) {
	var imports []ImportSpecifier

	WalkAST(node, source, func(n *sitter.Node) {
		var imp *ImportSpecifier

		switch n.Type() {
		case "import_statement":
			imp = p.processImportStatement(n, source)
		case "export_statement":
			imp = p.processExportStatement(n, source)
		case "call_expression":
			imp = p.processCallExpression(n, source)
		}

		if imp != nil {
			imports = append(imports, *imp)
		}
	})

	return imports, nil
}

func (p *JavaScriptParser) processImportStatement(node *sitter.Node, source []byte) *ImportSpecifier {
	var literal *sitter.Node
	typeOnly := false
	clauseTypeOnly := false

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)

		switch child.Type() {
		case "type":
			// import type { A } from "pkg"
			typeOnly = true
		case "import_clause":
			clauseTypeOnly = p.isTypeOnlyClause(child)
		case "import_require_clause":
			// import x = require("pkg")
			literal = findChild(child, "string")
		case "string":
			literal = child
		}
	}

	if literal == nil {
		return nil
	}

	kind := KindValue
	if typeOnly || clauseTypeOnly {
		kind = KindType
	}

	return newSpecifier(literal, source, kind, SourceImport)
}

// isTypeOnlyClause reports whether a clause consists solely of named imports that
// are each marked `type`.
func (p *JavaScriptParser) isTypeOnlyClause(clause *sitter.Node) bool {
	named := 0
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		child := clause.NamedChild(i)
		if child.Type() != "named_imports" {
			// default or namespace binding
			return false
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			spec := child.NamedChild(j)
			if spec.Type() != "import_specifier" {
				continue
			}
			if findChild(spec, "type") == nil {
				return false
			}
			named++
		}
	}
	return named > 0
}

func (p *JavaScriptParser) processExportStatement(node *sitter.Node, source []byte) *ImportSpecifier {
	literal := node.ChildByFieldName("source")
	if literal == nil || literal.Type() != "string" {
		return nil
	}

	kind := KindValue
	if findChild(node, "type") != nil {
		// export type { A } from "pkg"
		kind = KindType
	} else if clause := findChild(node, "export_clause"); clause != nil && p.isTypeOnlyExportClause(clause) {
		kind = KindType
	}

	return newSpecifier(literal, source, kind, SourceExport)
}

func (p *JavaScriptParser) isTypeOnlyExportClause(clause *sitter.Node) bool {
	named := 0
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		spec := clause.NamedChild(i)
		if spec.Type() != "export_specifier" {
			continue
		}
		if findChild(spec, "type") == nil {
			return false
		}
		named++
	}
	return named > 0
}

// processCallExpression recognizes require("pkg") and import("pkg") with a string
// literal as the first argument.
func (p *JavaScriptParser) processCallExpression(node *sitter.Node, source []byte) *ImportSpecifier {
	function := node.ChildByFieldName("function")
	arguments := node.ChildByFieldName("arguments")
	if function == nil || arguments == nil || arguments.NamedChildCount() == 0 {
		return nil
	}

	var origin ImportSource
	switch {
	case function.Type() == "identifier" && function.Content(source) == "require":
		origin = SourceRequire
	case function.Type() == "import":
		origin = SourceDynamic
	default:
		return nil
	}

	first := arguments.NamedChild(0)
	if first.Type() != "string" {
		return nil
	}

	return newSpecifier(first, source, KindValue, origin)
}

func newSpecifier(literal *sitter.Node, source []byte, kind ImportKind, origin ImportSource) *ImportSpecifier {
	value := ExtractStringValue(literal, source)
	if value == "" {
		return nil
	}

	start := literal.StartPoint()
	return &ImportSpecifier{
		Value:  value,
		Kind:   kind,
		Source: origin,
		Line:   int(start.Row) + 1,
		Column: int(start.Column),
	}
}

func findChild(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == nodeType {
			return child
		}
	}
	return nil
}
