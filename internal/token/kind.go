package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Unknown is a placeholder for a character that cannot start any token.
	Unknown

	// Identifier represents an identifier, a backtick-escaped identifier or an editor placeholder.
	Identifier
	// Wildcard represents '_'.
	Wildcard // _
	// IntegerLiteral represents an integer literal.
	IntegerLiteral
	// FloatingLiteral represents a floating point literal.
	FloatingLiteral

	// StringQuote opens or closes a single-line string literal.
	StringQuote // "
	// MultilineStringQuote opens or closes a multi-line string literal.
	MultilineStringQuote // """
	// RawStringPoundDelimiter is the run of '#' around a raw string literal.
	RawStringPoundDelimiter // #
	// StringSegment is a run of literal string content.
	StringSegment
	// Backslash starts a string interpolation.
	Backslash // \

	// KwAssociatedType represents the 'associatedtype' keyword.
	KwAssociatedType // associatedtype
	// KwClass represents the 'class' keyword.
	KwClass // class
	// KwDeinit represents the 'deinit' keyword.
	KwDeinit // deinit
	// KwEnum represents the 'enum' keyword.
	KwEnum // enum
	// KwExtension represents the 'extension' keyword.
	KwExtension // extension
	// KwFileprivate represents the 'fileprivate' keyword.
	KwFileprivate // fileprivate
	// KwFunc represents the 'func' keyword.
	KwFunc // func
	// KwImport represents the 'import' keyword.
	KwImport // import
	// KwInit represents the 'init' keyword.
	KwInit // init
	// KwInout represents the 'inout' keyword.
	KwInout // inout
	// KwInternal represents the 'internal' keyword.
	KwInternal // internal
	// KwLet represents the 'let' keyword.
	KwLet // let
	// KwOperator represents the 'operator' keyword.
	KwOperator // operator
	// KwPrecedenceGroup represents the 'precedencegroup' keyword.
	KwPrecedenceGroup // precedencegroup
	// KwPrivate represents the 'private' keyword.
	KwPrivate // private
	// KwProtocol represents the 'protocol' keyword.
	KwProtocol // protocol
	// KwPublic represents the 'public' keyword.
	KwPublic // public
	// KwRethrows represents the 'rethrows' keyword.
	KwRethrows // rethrows
	// KwStatic represents the 'static' keyword.
	KwStatic // static
	// KwStruct represents the 'struct' keyword.
	KwStruct // struct
	// KwSubscript represents the 'subscript' keyword.
	KwSubscript // subscript
	// KwTypealias represents the 'typealias' keyword.
	KwTypealias // typealias
	// KwVar represents the 'var' keyword.
	KwVar // var
	// KwBreak represents the 'break' keyword.
	KwBreak // break
	// KwCase represents the 'case' keyword.
	KwCase // case
	// KwCatch represents the 'catch' keyword.
	KwCatch // catch
	// KwContinue represents the 'continue' keyword.
	KwContinue // continue
	// KwDefault represents the 'default' keyword.
	KwDefault // default
	// KwDefer represents the 'defer' keyword.
	KwDefer // defer
	// KwDo represents the 'do' keyword.
	KwDo // do
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwFallthrough represents the 'fallthrough' keyword.
	KwFallthrough // fallthrough
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwGuard represents the 'guard' keyword.
	KwGuard // guard
	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwIn represents the 'in' keyword.
	KwIn // in
	// KwRepeat represents the 'repeat' keyword.
	KwRepeat // repeat
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwThrow represents the 'throw' keyword.
	KwThrow // throw
	// KwSwitch represents the 'switch' keyword.
	KwSwitch // switch
	// KwWhere represents the 'where' keyword.
	KwWhere // where
	// KwWhile represents the 'while' keyword.
	KwWhile // while
	// KwAny represents the 'Any' keyword.
	KwAny // Any
	// KwAs represents the 'as' keyword.
	KwAs // as
	// KwFalse represents the 'false' keyword.
	KwFalse // false
	// KwIs represents the 'is' keyword.
	KwIs // is
	// KwNil represents the 'nil' keyword.
	KwNil // nil
	// KwSelf represents the 'self' keyword.
	KwSelf // self
	// KwCapitalSelf represents the 'Self' keyword.
	KwCapitalSelf // Self
	// KwSuper represents the 'super' keyword.
	KwSuper // super
	// KwThrows represents the 'throws' keyword.
	KwThrows // throws
	// KwTrue represents the 'true' keyword.
	KwTrue // true
	// KwTry represents the 'try' keyword.
	KwTry // try

	// LeftParen represents '('.
	LeftParen // (
	// RightParen represents ')'.
	RightParen // )
	// LeftBrace represents '{'.
	LeftBrace // {
	// RightBrace represents '}'.
	RightBrace // }
	// LeftSquare represents '['.
	LeftSquare // [
	// RightSquare represents ']'.
	RightSquare // ]
	// LeftAngle is a '<' operator reinterpreted by the parser as a generic bracket.
	LeftAngle // <
	// RightAngle is a '>' operator reinterpreted by the parser as a generic bracket.
	RightAngle // >
	// Period represents '.'.
	Period // .
	// Comma represents ','.
	Comma // ,
	// Colon represents ':'.
	Colon // :
	// Semicolon represents ';'.
	Semicolon // ;
	// Equal represents the assignment '='.
	Equal // =
	// AtSign represents '@'.
	AtSign // @
	// Pound represents '#'.
	Pound // #
	// Arrow represents '->'.
	Arrow // ->
	// PrefixAmpersand represents a prefix '&'.
	PrefixAmpersand // &
	// PostfixQuestionMark represents a left-bound '?'.
	PostfixQuestionMark // ?
	// InfixQuestionMark represents a free-standing '?'.
	InfixQuestionMark // ?
	// ExclamationMark represents a postfix '!'.
	ExclamationMark // !

	// BinaryOperator is an operator with equal whitespace on both sides.
	BinaryOperator
	// PrefixOperator is an operator bound only to the right.
	PrefixOperator
	// PostfixOperator is an operator bound only to the left.
	PostfixOperator

	kindCount
)

var kindNames = [...]string{
	Invalid:                 "Invalid",
	EOF:                     "EOF",
	Unknown:                 "Unknown",
	Identifier:              "Identifier",
	Wildcard:                "Wildcard",
	IntegerLiteral:          "IntegerLiteral",
	FloatingLiteral:         "FloatingLiteral",
	StringQuote:             "StringQuote",
	MultilineStringQuote:    "MultilineStringQuote",
	RawStringPoundDelimiter: "RawStringPoundDelimiter",
	StringSegment:           "StringSegment",
	Backslash:               "Backslash",
	LeftParen:               "LeftParen",
	RightParen:              "RightParen",
	LeftBrace:               "LeftBrace",
	RightBrace:              "RightBrace",
	LeftSquare:              "LeftSquare",
	RightSquare:             "RightSquare",
	LeftAngle:               "LeftAngle",
	RightAngle:              "RightAngle",
	Period:                  "Period",
	Comma:                   "Comma",
	Colon:                   "Colon",
	Semicolon:               "Semicolon",
	Equal:                   "Equal",
	AtSign:                  "AtSign",
	Pound:                   "Pound",
	Arrow:                   "Arrow",
	PrefixAmpersand:         "PrefixAmpersand",
	PostfixQuestionMark:     "PostfixQuestionMark",
	InfixQuestionMark:       "InfixQuestionMark",
	ExclamationMark:         "ExclamationMark",
	BinaryOperator:          "BinaryOperator",
	PrefixOperator:          "PrefixOperator",
	PostfixOperator:         "PostfixOperator",
	kindCount:               "",
}

var fixedSpelling = map[Kind]string{
	Wildcard:             "_",
	StringQuote:          `"`,
	MultilineStringQuote: `"""`,
	Backslash:            `\`,
	LeftParen:            "(",
	RightParen:           ")",
	LeftBrace:            "{",
	RightBrace:           "}",
	LeftSquare:           "[",
	RightSquare:          "]",
	LeftAngle:            "<",
	RightAngle:           ">",
	Period:               ".",
	Comma:                ",",
	Colon:                ":",
	Semicolon:            ";",
	Equal:                "=",
	AtSign:               "@",
	Pound:                "#",
	Arrow:                "->",
	PrefixAmpersand:      "&",
	PostfixQuestionMark:  "?",
	InfixQuestionMark:    "?",
	ExclamationMark:      "!",
}

var descriptions = map[Kind]string{
	EOF:                     "end of file",
	Unknown:                 "unknown token",
	Identifier:              "identifier",
	IntegerLiteral:          "integer literal",
	FloatingLiteral:         "floating literal",
	StringSegment:           "string segment",
	RawStringPoundDelimiter: "raw string delimiter",
	BinaryOperator:          "binary operator",
	PrefixOperator:          "prefix operator",
	PostfixOperator:         "postfix operator",
}

var kindByName = make(map[string]Kind, int(kindCount))

// String returns the Go-style name of the kind ("LeftParen", "KwSwitch").
func (k Kind) String() string {
	if k.IsKeyword() {
		return "Kw" + keywordNames[k]
	}
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Spelling returns the fixed source text of the kind, or "" when the text varies.
func (k Kind) Spelling() string {
	if k.IsKeyword() {
		return keywordSpelling[k]
	}
	return fixedSpelling[k]
}

// Describe returns how diagnostics refer to the kind: the quoted spelling
// when it is fixed, a description otherwise.
func (k Kind) Describe() string {
	if s := k.Spelling(); s != "" {
		return "'" + s + "'"
	}
	if d, ok := descriptions[k]; ok {
		return d
	}
	return k.String()
}

// IsKeyword reports whether the kind is a reserved keyword.
func (k Kind) IsKeyword() bool {
	return k >= KwAssociatedType && k <= KwTry
}

// IsOperator reports whether the kind is one of the operator kinds.
func (k Kind) IsOperator() bool {
	return k == BinaryOperator || k == PrefixOperator || k == PostfixOperator
}

// KindByName resolves the name produced by Kind.String.
func KindByName(name string) (Kind, bool) {
	k, ok := kindByName[name]
	return k, ok
}
