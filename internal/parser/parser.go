package parser

import (
	"lexis/internal/diag"
	"lexis/internal/lexer"
	"lexis/internal/schema"
	"lexis/internal/source"
	"lexis/internal/syntax"
	"lexis/internal/token"
)

// DefaultMaxDepth bounds nesting of expressions, types and blocks.
const DefaultMaxDepth = 256

type Options struct {
	Reporter diag.Reporter // может быть nil
	// MaxErrors stops forwarding errors to Reporter once reached; 0 means no limit.
	MaxErrors uint
	// MaxDepth caps syntactic nesting; 0 selects DefaultMaxDepth.
	MaxDepth int
	// RejectEditorPlaceholders reports <#...#> placeholders as errors.
	RejectEditorPlaceholders bool
	// MaxInterpolationDepth is passed to the lexer.
	MaxInterpolationDepth int
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

// Result of parsing one file. Tokens are the leaves of Tree in source order;
// they differ from the lexer output where the parser split a token
// (">>" closing two generic clauses) or synthesized a missing one.
type Result struct {
	Tree        *syntax.Tree
	Tokens      []token.Token
	Diagnostics []diag.Diagnostic // лексические и синтаксические, в порядке позиций
}

// Parser - состояние парсера на один файл
type Parser struct {
	file     *source.File
	toks     []token.Token
	pos      int
	partial  int    // сколько байт текущего токена уже отрезано
	minDepth uint16 // токены с меньшей Depth для грамматики выглядят как конец файла
	depth    int
	lastEnd  uint32 // конец текста последнего настоящего токена
	pending  []pendingDiag
	quiet    bool // после превышения глубины восстановление идёт молча
	tooDeep  bool
	opts     Options
}

// ParseFile lexes and parses file. It never fails: malformed input yields a
// tree with missing and unexpected nodes plus diagnostics.
func ParseFile(file *source.File, opts Options) Result {
	lexDiags := &collector{}
	toks := lexer.Tokenize(file, lexer.Options{
		Reporter:              lexDiags,
		MaxInterpolationDepth: opts.MaxInterpolationDepth,
	})
	return parseTokens(file, toks, lexDiags.items, opts)
}

// ParseTokens parses an already lexed token slice ending with EOF.
func ParseTokens(file *source.File, toks []token.Token, opts Options) Result {
	return parseTokens(file, toks, nil, opts)
}

func parseTokens(file *source.File, toks []token.Token, lexDiags []diag.Diagnostic, opts Options) Result {
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		panic("parser: token stream must end with EOF")
	}
	p := &Parser{file: file, toks: toks, opts: opts}
	root := p.parseSourceFile()
	tree := syntax.NewTree(root, file.ID)
	return Result{
		Tree:        tree,
		Tokens:      root.Tokens(),
		Diagnostics: p.finish(lexDiags),
	}
}

// parseSourceFile - основной цикл верхнего уровня.
func (p *Parser) parseSourceFile() *syntax.Node {
	items := p.parseCodeBlockItems(blockTopLevel, "")
	eof := p.toks[len(p.toks)-1]
	return syntax.NewComposite(schema.SourceFile,
		syntax.NewCollection(schema.CodeBlockItemList, items...),
		syntax.NewToken(eof),
	)
}

// enter учитывает вложенность; false - предел превышен, и вызывающий
// должен вернуть заглушку, ничего не потребляя.
func (p *Parser) enter() bool {
	p.depth++
	if p.depth <= p.opts.maxDepth() {
		return true
	}
	if !p.tooDeep && !p.quiet {
		p.tooDeep = true
		p.errorAt(diag.SynNestingTooDeep, p.cur().Span, "code is nested too deeply").emit()
	}
	p.quiet = true
	return false
}

func (p *Parser) leave() { p.depth-- }
