package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"lexis/internal/diag"
	"lexis/internal/lexer"
	"lexis/internal/source"
	"lexis/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

// Report реализует интерфейс diag.Reporter
func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
		Fixes:    fixes,
	})
}

// HasErrors возвращает true, если были зарегистрированы ошибки
func (r *testReporter) HasErrors() bool {
	for _, d := range r.diagnostics {
		if d.Severity == diag.SevError {
			return true
		}
	}
	return false
}

// Messages возвращает тексты диагностик в порядке выдачи
func (r *testReporter) Messages() []string {
	out := make([]string, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, d.Message)
	}
	return out
}

// ErrorMessages возвращает диагностики с кодами (для сообщений об ошибках в тестах)
func (r *testReporter) ErrorMessages() []string {
	messages := make([]string, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		messages = append(messages, fmt.Sprintf("[%s] %s: %s", d.Code.ID(), d.Severity, d.Message))
	}
	return messages
}

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	return makeTestLexerOpts(input, lexer.Options{})
}

func makeTestLexerOpts(input string, opts lexer.Options) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.lx", []byte(input))
	file := fs.Get(fileID)

	reporter := &testReporter{diagnostics: make([]diag.Diagnostic, 0)}
	opts.Reporter = reporter
	return lexer.New(file, opts), reporter
}

// collectAllTokens собирает все токены до EOF включительно
func collectAllTokens(lx *lexer.Lexer) []token.Token {
	tokens := make([]token.Token, 0)
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens
}

// expectTokens проверяет последовательность токенов (без EOF)
func expectTokens(t *testing.T, input string, expected []token.Kind) []token.Token {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	tokens := collectAllTokens(lx)
	tokens = tokens[:len(tokens)-1]

	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d\nInput: %q\nTokens: %v\nErrors: %v",
			len(expected), len(tokens), input, tokensToString(tokens), reporter.ErrorMessages())
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("Token %d: expected %v, got %v (text: %q)", i, expected[i], tok.Kind, tok.Text)
		}
	}
	return tokens
}

// expectSingleToken проверяет первый токен входа
func expectSingleToken(t *testing.T, input string, expectedKind token.Kind, expectedText string) token.Token {
	t.Helper()
	lx, _ := makeTestLexer(input)
	tok := lx.Next()

	if tok.Kind != expectedKind {
		t.Errorf("Expected kind %v, got %v", expectedKind, tok.Kind)
	}
	if tok.Text != expectedText {
		t.Errorf("Expected text %q, got %q", expectedText, tok.Text)
	}
	return tok
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func fullText(tokens []token.Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteString(tok.FullText())
	}
	return sb.String()
}

// ====== Round trip ======

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"   \n\t\n",
		"let x = 123 + 456 // sum\n",
		"func f(a: Int) -> Int { return a }",
		"/* a /* nested */ b */ x /** doc */ y\n/// line doc\nz",
		"\xEF\xBB\xBFimport Foundation",
		`_ = "a\(b + "c\(d)")e"`,
		`_ = #"raw \(not) \#(yes)"#`,
		"_ = \"\"\"\n    one\n    \\(two\n    )\n    \"\"\"\n",
		"_ = \"\"\"\r\n  x\r\n  \"\"\"\r\n",
		"_ = \"unterminated\nnext",
		"<<<<<<< HEAD\nx\n=======\ny\n>>>>>>> b\nz\n",
		">>>> ORIGINAL\nx\n<<<<\n",
		"a \u0301b \uE000 `c` <#T#> 0b12 1.5e-3",
		"_ = \"\"\"abc",
		`"\(`,
	}
	for _, input := range inputs {
		t.Run(fmt.Sprintf("%q", input), func(t *testing.T) {
			lx, _ := makeTestLexer(input)
			tokens := collectAllTokens(lx)
			if got := fullText(tokens); got != input {
				t.Fatalf("round trip mismatch\nwant %q\ngot  %q\ntokens %v", input, got, tokensToString(tokens))
			}
		})
	}
}

func TestTokenize_EndsWithEOF(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("a.lx", []byte("x // trailing")))
	toks := lexer.Tokenize(file, lexer.Options{})
	if len(toks) != 2 || toks[1].Kind != token.EOF {
		t.Fatalf("tokens: %v", tokensToString(toks))
	}
	if len(toks[0].Trailing) != 2 {
		t.Fatalf("expected space and comment as trailing trivia, got %d", len(toks[0].Trailing))
	}
}

// ====== Идентификаторы и ключевые слова ======

func TestIdentifiers_ASCII(t *testing.T) {
	tests := []struct {
		input string
		text  string
	}{
		{"foo", "foo"},
		{"_bar", "_bar"},
		{"x1", "x1"},
		{"$0", "$0"},
		{"camelCase ", "camelCase"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, token.Identifier, tt.text)
		})
	}
}

func TestUnderscore_Single(t *testing.T) {
	expectSingleToken(t, "_", token.Wildcard, "_")
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"func", token.KwFunc},
		{"let", token.KwLet},
		{"class", token.KwClass},
		{"switch", token.KwSwitch},
		{"Self", token.KwCapitalSelf},
		{"self", token.KwSelf},
		{"Any", token.KwAny},
		{"associatedtype", token.KwAssociatedType},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := expectSingleToken(t, tt.input, tt.kind, tt.input)
			if !tok.IsKeyword() {
				t.Errorf("%q must be a keyword", tt.input)
			}
		})
	}
}

func TestKeywords_ContextualAreIdents(t *testing.T) {
	for _, word := range []string{"prefix", "infix", "postfix", "available", "message", "Func", "LET"} {
		t.Run(word, func(t *testing.T) {
			expectSingleToken(t, word, token.Identifier, word)
		})
	}
}

func TestIdentifiers_Unicode(t *testing.T) {
	tests := []string{"привет", "你好", "שלום", "café", "a\u0301b", "ǅungla"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			lx, reporter := makeTestLexer(input)
			toks := collectAllTokens(lx)
			if len(toks) != 2 || toks[0].Kind != token.Identifier || toks[0].Text != input {
				t.Fatalf("expected one identifier, got %v", tokensToString(toks))
			}
			if reporter.HasErrors() {
				t.Fatalf("unexpected errors: %v", reporter.ErrorMessages())
			}
		})
	}
}

func TestIdentifiers_UnicodeChain(t *testing.T) {
	expectTokens(t, "你好.שלום...привет()", []token.Kind{
		token.Identifier, token.Period, token.Identifier, token.BinaryOperator,
		token.Identifier, token.LeftParen, token.RightParen,
	})
}

func TestIdentifiers_CombiningStart(t *testing.T) {
	lx, reporter := makeTestLexer("\u0301ab")
	toks := collectAllTokens(lx)
	if len(toks) != 2 || toks[0].Kind != token.Identifier {
		t.Fatalf("expected one identifier, got %v", tokensToString(toks))
	}
	if toks[0].Flags&token.FlagInvalidStart == 0 {
		t.Error("expected FlagInvalidStart")
	}
	msgs := reporter.Messages()
	if len(msgs) != 1 || msgs[0] != "identifiers cannot start with combining characters" {
		t.Fatalf("diagnostics: %v", msgs)
	}
	if d := reporter.diagnostics[0]; d.Code != diag.LexCombiningStart || d.Primary.Start != 0 || d.Primary.End != 2 {
		t.Fatalf("diagnostic: %+v", d)
	}
}

func TestIdentifiers_PrivateUse(t *testing.T) {
	lx, reporter := makeTestLexer("a\uE000b")
	toks := collectAllTokens(lx)
	want := []token.Kind{token.Identifier, token.Unknown, token.Identifier, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("tokens: %v", tokensToString(toks))
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: %v, want %v", i, toks[i].Kind, k)
		}
	}
	msgs := reporter.Messages()
	if len(msgs) != 1 || msgs[0] != "invalid character in source file" {
		t.Fatalf("diagnostics: %v", msgs)
	}
}

func TestIdentifiers_InvalidUTF8(t *testing.T) {
	lx, reporter := makeTestLexer("a \xff b")
	toks := collectAllTokens(lx)
	if toks[1].Kind != token.Unknown {
		t.Fatalf("tokens: %v", tokensToString(toks))
	}
	if msgs := reporter.Messages(); len(msgs) != 1 || msgs[0] != "invalid UTF-8 found in source file" {
		t.Fatalf("diagnostics: %v", msgs)
	}
}

func TestIdentifiers_Backtick(t *testing.T) {
	tok := expectSingleToken(t, "`switch`", token.Identifier, "`switch`")
	if tok.Flags&token.FlagBacktick == 0 {
		t.Error("expected FlagBacktick")
	}

	lx, reporter := makeTestLexer("`abc")
	tok = lx.Next()
	if tok.Kind != token.Identifier || tok.Flags&token.FlagBacktick == 0 {
		t.Fatalf("unterminated backtick: %v %q", tok.Kind, tok.Text)
	}
	if msgs := reporter.Messages(); len(msgs) != 1 || msgs[0] != "expected '`' to end escaped identifier" {
		t.Fatalf("diagnostics: %v", msgs)
	}
}

func TestIdentifiers_EditorPlaceholder(t *testing.T) {
	tok := expectSingleToken(t, "<#value#>", token.Identifier, "<#value#>")
	if tok.Flags&token.FlagEditorPlaceholder == 0 {
		t.Error("expected FlagEditorPlaceholder")
	}
	// перевод строки обрывает плейсхолдер
	lx, _ := makeTestLexer("<#a\n#>")
	if tok := lx.Next(); tok.Kind == token.Identifier {
		t.Fatalf("placeholder must not span lines, got %q", tok.Text)
	}
}

// ====== Числа ======

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"0", token.IntegerLiteral},
		{"1_000_000", token.IntegerLiteral},
		{"0b1010", token.IntegerLiteral},
		{"0o755", token.IntegerLiteral},
		{"0xFF_ff", token.IntegerLiteral},
		{"1.5", token.FloatingLiteral},
		{"1e10", token.FloatingLiteral},
		{"2.5E-3", token.FloatingLiteral},
		{"0x1.8p3", token.FloatingLiteral},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lx, reporter := makeTestLexer(tt.input)
			tok := lx.Next()
			if tok.Kind != tt.kind || tok.Text != tt.input {
				t.Fatalf("got %v(%q), want %v(%q)", tok.Kind, tok.Text, tt.kind, tt.input)
			}
			if reporter.HasErrors() {
				t.Fatalf("unexpected errors: %v", reporter.ErrorMessages())
			}
		})
	}
}

func TestNumbers_DotNotPartOfNumber(t *testing.T) {
	expectTokens(t, "1.foo", []token.Kind{token.IntegerLiteral, token.Period, token.Identifier})
	expectTokens(t, "1..<2", []token.Kind{token.IntegerLiteral, token.BinaryOperator, token.IntegerLiteral})
}

func TestNumbers_Invalid(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"0b12", "'2' is not a valid binary digit (0 or 1) in integer literal"},
		{"0o78", "'8' is not a valid octal digit (0-7) in integer literal"},
		{"12abc", "'a' is not a valid digit in integer literal"},
		{"0xg", "expected hexadecimal digit (0-9, A-F) in integer literal"},
		{"1e", "expected a digit in floating point exponent"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lx, reporter := makeTestLexer(tt.input)
			toks := collectAllTokens(lx)
			if len(toks) != 2 || toks[0].Text != tt.input {
				t.Fatalf("bad literal must stay one token: %v", tokensToString(toks))
			}
			msgs := reporter.Messages()
			if len(msgs) != 1 || msgs[0] != tt.msg {
				t.Fatalf("diagnostics %v, want %q", msgs, tt.msg)
			}
			if reporter.diagnostics[0].Code != diag.LexBadNumber {
				t.Fatalf("code %v", reporter.diagnostics[0].Code)
			}
		})
	}
}

// ====== Операторы и пунктуация ======

func TestOperators_Boundness(t *testing.T) {
	tests := []struct {
		input string
		kinds []token.Kind
	}{
		{"a + b", []token.Kind{token.Identifier, token.BinaryOperator, token.Identifier}},
		{"a+b", []token.Kind{token.Identifier, token.BinaryOperator, token.Identifier}},
		{"-a", []token.Kind{token.PrefixOperator, token.Identifier}},
		{"a++ ", []token.Kind{token.Identifier, token.PostfixOperator}},
		{"a!", []token.Kind{token.Identifier, token.ExclamationMark}},
		{"!a", []token.Kind{token.PrefixOperator, token.Identifier}},
		{"a?", []token.Kind{token.Identifier, token.PostfixQuestionMark}},
		{"a ? b", []token.Kind{token.Identifier, token.InfixQuestionMark, token.Identifier}},
		{"&a", []token.Kind{token.PrefixAmpersand, token.Identifier}},
		{"a & b", []token.Kind{token.Identifier, token.BinaryOperator, token.Identifier}},
		{"a -> b", []token.Kind{token.Identifier, token.Arrow, token.Identifier}},
		{"x = 1", []token.Kind{token.Identifier, token.Equal, token.IntegerLiteral}},
		{"a.b", []token.Kind{token.Identifier, token.Period, token.Identifier}},
		{"a <<<<<<< b", []token.Kind{token.Identifier, token.BinaryOperator, token.Identifier}},
		{"a /* c */+b", []token.Kind{token.Identifier, token.PrefixOperator, token.Identifier}},
		{"(-a)", []token.Kind{token.LeftParen, token.PrefixOperator, token.Identifier, token.RightParen}},
		{"a ∪ b", []token.Kind{token.Identifier, token.BinaryOperator, token.Identifier}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectTokens(t, tt.input, tt.kinds)
		})
	}
}

func TestOperators_Greedy(t *testing.T) {
	tests := []struct {
		input string
		text  string
	}{
		{"a <<= b", "<<="},
		{"a ... b", "..."},
		{"a ..< b", "..<"},
		{"a +- b", "+-"},
		{"a +//c\n", "+"},
		{"a +/*c*/ b", "+"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lx, _ := makeTestLexer(tt.input)
			lx.Next()
			if tok := lx.Next(); tok.Text != tt.text {
				t.Fatalf("operator text %q, want %q", tok.Text, tt.text)
			}
		})
	}
}

func TestOperators_DotOnlyLeading(t *testing.T) {
	// '.' обрывает оператор, начавшийся не с точки; за ним оператор не связан справа
	expectTokens(t, "a+.b", []token.Kind{token.Identifier, token.PostfixOperator, token.Period, token.Identifier})
}

func TestPunctuation(t *testing.T) {
	expectTokens(t, "( ) { } [ ] , : ; @ #", []token.Kind{
		token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
		token.LeftSquare, token.RightSquare, token.Comma, token.Colon,
		token.Semicolon, token.AtSign, token.Pound,
	})
}

func TestInvalidControlCharacter(t *testing.T) {
	lx, reporter := makeTestLexer("a \x01 b")
	toks := collectAllTokens(lx)
	if toks[1].Kind != token.Unknown {
		t.Fatalf("tokens: %v", tokensToString(toks))
	}
	if msgs := reporter.Messages(); len(msgs) != 1 || msgs[0] != "invalid character in source file" {
		t.Fatalf("diagnostics: %v", msgs)
	}
}

// ====== Trivia ======

func TestTrivia_Kinds(t *testing.T) {
	lx, _ := makeTestLexer("\t// c\n/* b */ /// d\n/** e */\nfoo")
	tok := lx.Next()
	if tok.Kind != token.Identifier {
		t.Fatalf("expected identifier, got %v", tok.Kind)
	}
	want := []token.TriviaKind{
		token.TriviaSpace, token.TriviaLineComment, token.TriviaNewline,
		token.TriviaBlockComment, token.TriviaSpace, token.TriviaDocLineComment, token.TriviaNewline,
		token.TriviaDocBlockComment, token.TriviaNewline,
	}
	if len(tok.Leading) != len(want) {
		t.Fatalf("leading trivia count %d, want %d", len(tok.Leading), len(want))
	}
	for i, k := range want {
		if tok.Leading[i].Kind != k {
			t.Errorf("trivia %d: %v, want %v", i, tok.Leading[i].Kind, k)
		}
	}
	if !tok.AtLineStart() {
		t.Error("token after newline must report AtLineStart")
	}
}

func TestTrivia_NewlinesCoalesce(t *testing.T) {
	lx, _ := makeTestLexer("a\r\n\n\rb")
	lx.Next()
	tok := lx.Next()
	if len(tok.Leading) != 1 || tok.Leading[0].Text != "\r\n\n\r" {
		t.Fatalf("leading %+v", tok.Leading)
	}
}

func TestTrivia_UnterminatedBlockComment(t *testing.T) {
	lx, reporter := makeTestLexer("/* unterminated\nfoo")
	if tok := lx.Next(); tok.Kind != token.EOF {
		t.Errorf("Expected EOF after unterminated block comment consuming all input, got %v", tok.Kind)
	}
	if msgs := reporter.Messages(); len(msgs) != 1 || msgs[0] != "unterminated '/*' comment" {
		t.Fatalf("diagnostics: %v", msgs)
	}
}

// ====== Конфликтные маркеры ======

func TestConflictMarkers(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		marker string // текст TriviaConflictMarker
		kinds  []token.Kind
	}{
		{
			name:   "git",
			input:  "<<<<<<< HEAD:conflict_markers.swift\nvar a : String = \"A\"\n=======\nvar a : String = \"a\"\n>>>>>>> 18844bc65229786b96b89a9fc7739c0fc897905e:conflict_markers.swift\nprint(a)",
			marker: "<<<<<<< HEAD:conflict_markers.swift\nvar a : String = \"A\"\n=======\nvar a : String = \"a\"\n>>>>>>> 18844bc65229786b96b89a9fc7739c0fc897905e:conflict_markers.swift",
			kinds:  []token.Kind{token.Identifier, token.LeftParen, token.Identifier, token.RightParen},
		},
		{
			name:   "perforce",
			input:  ">>>> ORIGINAL\nvar b : String = \"B\"\n==== THEIRS\nvar b : String = \"b\"\n==== YOURS\nvar b : String = \"b\"\n<<<<\nprint(b)",
			marker: ">>>> ORIGINAL\nvar b : String = \"B\"\n==== THEIRS\nvar b : String = \"b\"\n==== YOURS\nvar b : String = \"b\"\n<<<<",
			kinds:  []token.Kind{token.Identifier, token.LeftParen, token.Identifier, token.RightParen},
		},
		{
			name:   "unterminated",
			input:  "<<<<<<< HEAD\nvar c = 1\n",
			marker: "<<<<<<< HEAD\nvar c = 1\n",
			kinds:  []token.Kind{},
		},
		{
			name:   "crlf",
			input:  "<<<<<<< A\r\nx\r\n>>>>>>> B\r\ny",
			marker: "<<<<<<< A\r\nx\r\n>>>>>>> B",
			kinds:  []token.Kind{token.Identifier},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx, reporter := makeTestLexer(tt.input)
			toks := collectAllTokens(lx)
			if len(toks) != len(tt.kinds)+1 {
				t.Fatalf("tokens: %v", tokensToString(toks))
			}
			for i, k := range tt.kinds {
				if toks[i].Kind != k {
					t.Errorf("token %d: %v, want %v", i, toks[i].Kind, k)
				}
			}
			first := toks[0]
			if len(first.Leading) == 0 || first.Leading[0].Kind != token.TriviaConflictMarker {
				t.Fatalf("expected conflict marker trivia, got %+v", first.Leading)
			}
			if first.Leading[0].Text != tt.marker {
				t.Fatalf("marker text %q, want %q", first.Leading[0].Text, tt.marker)
			}
			msgs := reporter.Messages()
			if len(msgs) != 1 || msgs[0] != "source control conflict marker in source file" {
				t.Fatalf("diagnostics: %v", msgs)
			}
			if fullText(toks) != tt.input {
				t.Fatal("conflict region must round trip")
			}
		})
	}
}

func TestConflictMarkers_NotMarkers(t *testing.T) {
	inputs := []string{
		"prefix operator <<<<<<<\n",
		"infix operator >>>>>>>\n",
		"func <<<<<<< (x : String) {}\n",
		"<<<<<<<<\n",         // длиннее маркера
		"<<<<<<<\"HEAD\"\n",  // сразу за маркером не пробел
		"_ = \"<<<<<<< x\"\n", // внутри строки
	}
	for _, input := range inputs {
		t.Run(fmt.Sprintf("%q", input), func(t *testing.T) {
			lx, reporter := makeTestLexer(input)
			collectAllTokens(lx)
			for _, d := range reporter.diagnostics {
				if d.Code == diag.LexConflictMarker {
					t.Fatalf("unexpected conflict marker diagnostic at %v", d.Primary)
				}
			}
		})
	}
}

// ====== Строковые литералы ======

type tokShape struct {
	kind  token.Kind
	text  string
	depth uint16
}

func expectShape(t *testing.T, input string, want []tokShape) []token.Token {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	toks := collectAllTokens(lx)
	toks = toks[:len(toks)-1]
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v (errors %v)", len(toks), len(want), tokensToString(toks), reporter.ErrorMessages())
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Text != w.text || toks[i].Depth != w.depth {
			t.Errorf("token %d: %v(%q)@%d, want %v(%q)@%d", i, toks[i].Kind, toks[i].Text, toks[i].Depth, w.kind, w.text, w.depth)
		}
	}
	return toks
}

func TestString_Simple(t *testing.T) {
	toks := expectShape(t, `"hello"`, []tokShape{
		{token.StringQuote, `"`, 0},
		{token.StringSegment, "hello", 0},
		{token.StringQuote, `"`, 0},
	})
	for _, tok := range toks {
		if tok.Flags&token.FlagStringPart == 0 {
			t.Errorf("%v must carry FlagStringPart", tok.Kind)
		}
	}
	if toks[0].Flags&token.FlagClosingDelimiter != 0 || toks[2].Flags&token.FlagClosingDelimiter == 0 {
		t.Error("only the closing quote carries FlagClosingDelimiter")
	}
}

func TestString_Empty(t *testing.T) {
	expectShape(t, `""`, []tokShape{
		{token.StringQuote, `"`, 0},
		{token.StringQuote, `"`, 0},
	})
}

func TestString_Interpolation(t *testing.T) {
	expectShape(t, `"a\(b + c)d"`, []tokShape{
		{token.StringQuote, `"`, 0},
		{token.StringSegment, "a", 0},
		{token.Backslash, `\`, 0},
		{token.LeftParen, "(", 0},
		{token.Identifier, "b", 1},
		{token.BinaryOperator, "+", 1},
		{token.Identifier, "c", 1},
		{token.RightParen, ")", 0},
		{token.StringSegment, "d", 0},
		{token.StringQuote, `"`, 0},
	})
}

func TestString_NestedInterpolation(t *testing.T) {
	expectShape(t, `"\(f("\(x)"))"`, []tokShape{
		{token.StringQuote, `"`, 0},
		{token.Backslash, `\`, 0},
		{token.LeftParen, "(", 0},
		{token.Identifier, "f", 1},
		{token.LeftParen, "(", 1},
		{token.StringQuote, `"`, 1},
		{token.Backslash, `\`, 1},
		{token.LeftParen, "(", 1},
		{token.Identifier, "x", 2},
		{token.RightParen, ")", 1},
		{token.StringQuote, `"`, 1},
		{token.RightParen, ")", 1},
		{token.RightParen, ")", 0},
		{token.StringQuote, `"`, 0},
	})
}

func TestString_Raw(t *testing.T) {
	expectShape(t, `#"a\(b)\#(c)"#`, []tokShape{
		{token.RawStringPoundDelimiter, "#", 0},
		{token.StringQuote, `"`, 0},
		{token.StringSegment, `a\(b)`, 0},
		{token.Backslash, `\`, 0},
		{token.RawStringPoundDelimiter, "#", 0},
		{token.LeftParen, "(", 0},
		{token.Identifier, "c", 1},
		{token.RightParen, ")", 0},
		{token.StringQuote, `"`, 0},
		{token.RawStringPoundDelimiter, "#", 0},
	})
	// кавычка без нужного числа '#' не закрывает литерал
	expectShape(t, `##"a"#b"##`, []tokShape{
		{token.RawStringPoundDelimiter, "##", 0},
		{token.StringQuote, `"`, 0},
		{token.StringSegment, `a"#b`, 0},
		{token.StringQuote, `"`, 0},
		{token.RawStringPoundDelimiter, "##", 0},
	})
}

func TestString_Unterminated(t *testing.T) {
	lx, reporter := makeTestLexer("\"abc\nfoo")
	toks := collectAllTokens(lx)
	want := []token.Kind{token.StringQuote, token.StringSegment, token.Identifier, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("tokens: %v", tokensToString(toks))
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: %v, want %v", i, toks[i].Kind, k)
		}
	}
	if !toks[2].AtLineStart() {
		t.Error("newline after the literal belongs to the next token")
	}
	if reporter.HasErrors() {
		t.Fatalf("lexer leaves unterminated strings to the parser: %v", reporter.ErrorMessages())
	}
}

func TestString_Escapes(t *testing.T) {
	tests := []struct {
		input string
		msgs  []string
	}{
		{`"\0\\\t\n\r\"\'"`, nil},
		{`"\u{1F600}"`, nil},
		{`"\q"`, []string{"invalid escape sequence in literal"}},
		{`"\u{}"`, []string{`\u{...} escape sequence expects between 1 and 8 hex digits`}},
		{`"\u{123456789}"`, []string{`\u{...} escape sequence expects between 1 and 8 hex digits`}},
		{`"\u{D800}"`, []string{"invalid unicode scalar"}},
		{`"\u12"`, []string{`expected '{' in \u{...} escape sequence`}},
		{`"\u{12"`, []string{`expected '}' in \u{...} escape sequence`}},
		{`"a \ b"`, []string{"invalid escape sequence in literal"}},
		{`#"\q"#`, nil},
		{`#"\#q"#`, []string{"invalid escape sequence in literal"}},
		{`"\`, []string{"invalid escape sequence in literal"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lx, reporter := makeTestLexer(tt.input)
			collectAllTokens(lx)
			got := reporter.Messages()
			if len(got) != len(tt.msgs) {
				t.Fatalf("diagnostics %v, want %v", got, tt.msgs)
			}
			for i := range got {
				if got[i] != tt.msgs[i] {
					t.Errorf("diagnostic %d: %q, want %q", i, got[i], tt.msgs[i])
				}
			}
		})
	}
}

func TestString_InterpolationDepthCap(t *testing.T) {
	lx, reporter := makeTestLexerOpts(`"\("\(x)")"`, lexer.Options{MaxInterpolationDepth: 1})
	toks := collectAllTokens(lx)
	msgs := reporter.Messages()
	if len(msgs) != 1 || msgs[0] != "string interpolation nested too deeply" {
		t.Fatalf("diagnostics: %v", msgs)
	}
	for _, tok := range toks {
		if tok.Kind == token.Identifier {
			t.Fatalf("too deep interpolation must stay string content, got identifier %q", tok.Text)
		}
	}
	if fullText(toks) != `"\("\(x)")"` {
		t.Fatal("round trip mismatch")
	}

	// по умолчанию предел - 16
	deep := strings.Repeat(`"\(`, 17) + "x" + strings.Repeat(`)"`, 17)
	lx, reporter = makeTestLexer(deep)
	collectAllTokens(lx)
	if msgs := reporter.Messages(); len(msgs) != 1 {
		t.Fatalf("expected one depth diagnostic, got %v", msgs)
	}
}

func TestString_SingleLineInterpolationStopsAtNewline(t *testing.T) {
	lx, _ := makeTestLexer("\"\\(a\nb")
	toks := collectAllTokens(lx)
	want := []token.Kind{token.StringQuote, token.Backslash, token.LeftParen, token.Identifier, token.Identifier, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("tokens: %v", tokensToString(toks))
	}
	if toks[3].Depth != 1 || toks[4].Depth != 0 {
		t.Fatalf("depths %d %d", toks[3].Depth, toks[4].Depth)
	}
}

func TestString_MultilineTokens(t *testing.T) {
	toks := expectShape(t, "\"\"\"\n  a\n  b\n  \"\"\"", []tokShape{
		{token.MultilineStringQuote, `"""`, 0},
		{token.StringSegment, "  a", 0},
		{token.StringSegment, "\n  b", 0},
		{token.MultilineStringQuote, `"""`, 0},
	})
	open, closing := toks[0], toks[3]
	if len(open.Trailing) != 1 || open.Trailing[0].Kind != token.TriviaNewline {
		t.Fatalf("opening quote trailing: %+v", open.Trailing)
	}
	if len(closing.Leading) != 2 || closing.Leading[0].Text != "\n" || closing.Leading[1].Text != "  " {
		t.Fatalf("closing quote leading: %+v", closing.Leading)
	}
}

func TestString_MultilineInterpolationEndsAtClosingLine(t *testing.T) {
	lx, _ := makeTestLexer("\"\"\"\n\\(x\n\"\"\"\ny")
	toks := collectAllTokens(lx)
	var closing *token.Token
	for i := range toks {
		if toks[i].Flags&token.FlagClosingDelimiter != 0 {
			closing = &toks[i]
		}
	}
	if closing == nil {
		t.Fatalf("literal must close on the delimiter line: %v", tokensToString(toks))
	}
	if !closing.AtLineStart() {
		t.Fatal("closing delimiter must carry the newline before it")
	}
	if last := toks[len(toks)-2]; last.Kind != token.Identifier || last.Depth != 0 {
		t.Fatalf("code after the literal: %v", tokensToString(toks))
	}
}

// ====== Интерфейс лексера ======

func TestLexer_PeekBehavior(t *testing.T) {
	lx, _ := makeTestLexer(`a "b"`)
	if p := lx.Peek(); p.Kind != token.Identifier {
		t.Fatalf("Peek: %v", p.Kind)
	}
	if n := lx.Next(); n.Kind != token.Identifier {
		t.Fatalf("Next after Peek: %v", n.Kind)
	}
	// Peek внутри строкового литерала видит уже готовые токены
	if p := lx.Peek(); p.Kind != token.StringQuote {
		t.Fatalf("Peek: %v", p.Kind)
	}
	lx.Next()
	if p := lx.Peek(); p.Kind != token.StringSegment {
		t.Fatalf("Peek: %v", p.Kind)
	}
}

func TestLexer_EOFRepeats(t *testing.T) {
	lx, _ := makeTestLexer("  ")
	first := lx.Next()
	if first.Kind != token.EOF || len(first.Leading) != 1 {
		t.Fatalf("EOF must carry trailing whitespace: %+v", first)
	}
	for i := 0; i < 3; i++ {
		if tok := lx.Next(); tok.Kind != token.EOF {
			t.Fatalf("Next after EOF: %v", tok.Kind)
		}
	}
}

func TestLexer_FunctionDefinition(t *testing.T) {
	expectTokens(t, "func add(_ a: Int, b: Int) -> Int { return a + b }", []token.Kind{
		token.KwFunc, token.Identifier, token.LeftParen, token.Wildcard, token.Identifier, token.Colon,
		token.Identifier, token.Comma, token.Identifier, token.Colon, token.Identifier, token.RightParen,
		token.Arrow, token.Identifier, token.LeftBrace, token.KwReturn, token.Identifier,
		token.BinaryOperator, token.Identifier, token.RightBrace,
	})
}
