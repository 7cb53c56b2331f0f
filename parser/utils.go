package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Extensions lists the source file extensions a parser exists for
var Extensions = []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts"}

// IsSupported reports whether CreateParser accepts the file
func IsSupported(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// CreateParser creates the appropriate parser based on file extension
func CreateParser(filePath string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".js", ".jsx", ".mjs", ".cjs":
		return NewJavaScriptParser()
	case ".ts", ".mts", ".cts":
		return NewTypeScriptParser()
	case ".tsx":
		return NewTSXParser()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
}

// ExtractStringValue removes quotes from string literals in AST nodes
func ExtractStringValue(node *sitter.Node, source []byte) string {
	text := string(source[node.StartByte():node.EndByte()])
	if len(text) >= 2 && (text[0] == '"' || text[0] == '\'') {
		text = text[1 : len(text)-1] // Remove surrounding quotes
	}
	return text
}

// WalkAST recursively traverses an AST and applies a visitor function to each node
func WalkAST(node *sitter.Node, source []byte, visitor func(*sitter.Node)) {
	visitor(node)

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		WalkAST(child, source, visitor)
	}
}

// ParseFileGeneric provides common file parsing functionality for all language parsers
func (bp *BaseParser) ParseFileGeneric(filePath string) (*ParseResult, error) {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return bp.ParseSource(filePath, source)
}

// ParseSource parses source that is already in memory
func (bp *BaseParser) ParseSource(filePath string, source []byte) (*ParseResult, error) {
	tree, err := bp.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", filePath, err)
	}
	if tree == nil {
		return nil, fmt.Errorf("failed to parse file %s", filePath)
	}

	return &ParseResult{
		Tree:     tree,
		Source:   source,
		Language: bp.langName,
		FilePath: filePath,
	}, nil
}

// GetLanguage returns the language name for this parser
func (bp *BaseParser) GetLanguage() string {
	return bp.langName
}

// Close releases the underlying tree-sitter parser
func (bp *BaseParser) Close() {
	if bp.parser != nil {
		bp.parser.Close()
	}
}

// ExtractFileImports parses a file and returns its import specifiers
func ExtractFileImports(filePath string) ([]ImportSpecifier, error) {
	fileParser, err := CreateParser(filePath)
	if err != nil {
		return nil, err
	}
	defer fileParser.Close()

	parseResult, err := fileParser.ParseFile(filePath)
	if err != nil {
		return nil, err
	}
	defer parseResult.Tree.Close()

	return fileParser.ExtractImports(parseResult.Tree.RootNode(), parseResult.Source)
}
