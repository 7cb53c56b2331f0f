package parser

import sitter "github.com/smacker/go-tree-sitter"

// Parser defines the interface for language-specific source code parsers
type Parser interface {
	GetLanguage() string
	Close()
	ParseFile(filePath string) (*ParseResult, error)
	ExtractImports(node *sitter.Node, source []byte) ([]ImportSpecifier, error)
}

// BaseParser provides common functionality for all language parsers
type BaseParser struct {
	parser   *sitter.Parser
	language *sitter.Language
	langName string
}

// ParseResult contains the parsed AST and metadata for a source file
type ParseResult struct {
	Tree     *sitter.Tree
	Source   []byte
	Language string
	FilePath string
}

// ImportKind tells value imports from type-only imports
type ImportKind string

const (
	KindValue ImportKind = "value"
	KindType  ImportKind = "type"
)

// ImportSource is the syntax an import specifier was found in
type ImportSource string

const (
	SourceImport  ImportSource = "import"  // import x from "pkg"
	SourceExport  ImportSource = "export"  // export { x } from "pkg"
	SourceRequire ImportSource = "require" // require("pkg")
	SourceDynamic ImportSource = "dynamic" // import("pkg")
)

// ImportSpecifier is one module reference as written in source
type ImportSpecifier struct {
	Value  string       // "lodash/fp", "@scope/pkg", "./local"
	Kind   ImportKind   // type-only imports are never checked
	Source ImportSource // declaration or call that produced it
	Line   int          // 1-based line of the specifier literal
	Column int          // 0-based column of the specifier literal
}

// IsTypeOnly reports whether the specifier only brings in types
func (s ImportSpecifier) IsTypeOnly() bool {
	return s.Kind == KindType
}
