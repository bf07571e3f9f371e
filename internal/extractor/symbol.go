package extractor

import (
	"context"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
)

// SymbolKind is the coarse kind of a documented declaration.
type SymbolKind string

const (
	KindFunction SymbolKind = "function"
	KindVariable SymbolKind = "variable"
	KindTypedef  SymbolKind = "typedef"
	KindStruct   SymbolKind = "struct"
	KindEnum     SymbolKind = "enum"
	KindUnion    SymbolKind = "union"
	KindMacro    SymbolKind = "macro"
	KindUnknown  SymbolKind = "unknown"
)

// Symbol is the name and kind of a declaration.
type Symbol struct {
	Name string     `json:"name"`
	Kind SymbolKind `json:"kind"`
}

// SymbolClassifier parses a single declaration statement with tree-sitter's C
// grammar. It is not safe for concurrent use.
type SymbolClassifier struct {
	parser *sitter.Parser
	lang   *sitter.Language
}

// NewSymbolClassifier creates a classifier backed by the C grammar.
func NewSymbolClassifier() *SymbolClassifier {
	lang := c.GetLanguage()
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	return &SymbolClassifier{parser: parser, lang: lang}
}

var identRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// Classify returns the symbol declared by decl. Declarations tree-sitter
// cannot make sense of fall back to a lexical guess with KindUnknown.
func (sc *SymbolClassifier) Classify(ctx context.Context, decl string) Symbol {
	stmt := StatementForm(decl)
	if strings.HasPrefix(stmt, "#") {
		// Preprocessor lines carry their own terminator rules.
		stmt = NormalizeDeclaration(decl) + "\n"
	}
	src := []byte(stmt)
	tree, err := sc.parser.ParseCtx(ctx, nil, src)
	if err != nil || tree == nil {
		return fallbackSymbol(decl)
	}
	root := tree.RootNode()
	if root == nil || root.NamedChildCount() == 0 {
		return fallbackSymbol(decl)
	}

	node := root.NamedChild(0)
	var sym Symbol
	switch node.Type() {
	case "declaration":
		sym = sc.fromDeclaration(node, src)
	case "type_definition":
		sym = sc.fromTypedef(node, src)
	case "struct_specifier", "enum_specifier", "union_specifier":
		sym = fromSpecifier(node, src)
	case "preproc_def", "preproc_function_def":
		sym = Symbol{Kind: KindMacro, Name: fieldContent(node, "name", src)}
	}
	if sym.Name == "" {
		return fallbackSymbol(decl)
	}
	return sym
}

func (sc *SymbolClassifier) fromDeclaration(node *sitter.Node, src []byte) Symbol {
	declarator := node.ChildByFieldName("declarator")
	if declarator == nil {
		if t := node.ChildByFieldName("type"); t != nil {
			return fromSpecifier(t, src)
		}
		return Symbol{}
	}
	name, isFunc := declaratorName(declarator, src)
	kind := KindVariable
	if isFunc {
		kind = KindFunction
	}
	return Symbol{Name: name, Kind: kind}
}

func (sc *SymbolClassifier) fromTypedef(node *sitter.Node, src []byte) Symbol {
	if declarator := node.ChildByFieldName("declarator"); declarator != nil {
		if name, _ := declaratorName(declarator, src); name != "" {
			return Symbol{Name: name, Kind: KindTypedef}
		}
	}
	// "typedef struct Name" followed by a body on the next lines.
	if t := node.ChildByFieldName("type"); t != nil {
		return fromSpecifier(t, src)
	}
	return Symbol{}
}

func fromSpecifier(node *sitter.Node, src []byte) Symbol {
	var kind SymbolKind
	switch node.Type() {
	case "struct_specifier":
		kind = KindStruct
	case "enum_specifier":
		kind = KindEnum
	case "union_specifier":
		kind = KindUnion
	default:
		return Symbol{}
	}
	return Symbol{Name: fieldContent(node, "name", src), Kind: kind}
}

// declaratorName walks nested declarators down to the declared identifier.
// A pointer inside parentheses turns an enclosing function declarator into a
// function pointer, so "void (*cb)(int)" is a variable while
// "void (*get(void))(int)" is still a function.
func declaratorName(node *sitter.Node, src []byte) (string, bool) {
	isFunc := false
	inParens := false
	for node != nil {
		switch node.Type() {
		case "identifier", "type_identifier", "field_identifier":
			return node.Content(src), isFunc
		case "function_declarator":
			isFunc = true
			inParens = false
		case "pointer_declarator":
			if inParens {
				isFunc = false
			}
		case "parenthesized_declarator":
			if node.NamedChildCount() == 0 {
				return "", isFunc
			}
			inParens = true
			node = node.NamedChild(0)
			continue
		}
		node = node.ChildByFieldName("declarator")
	}
	return "", isFunc
}

func fieldContent(node *sitter.Node, field string, src []byte) string {
	if child := node.ChildByFieldName(field); child != nil {
		return child.Content(src)
	}
	return ""
}

func fallbackSymbol(decl string) Symbol {
	decl = NormalizeDeclaration(decl)
	if idx := strings.Index(decl, "("); idx >= 0 {
		decl = decl[:idx]
	}
	idents := identRe.FindAllString(decl, -1)
	if len(idents) == 0 {
		return Symbol{Kind: KindUnknown}
	}
	return Symbol{Name: idents[len(idents)-1], Kind: KindUnknown}
}
