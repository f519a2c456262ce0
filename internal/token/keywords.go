package token

var keywords = map[string]Kind{
	"associatedtype":  KwAssociatedType,
	"class":           KwClass,
	"deinit":          KwDeinit,
	"enum":            KwEnum,
	"extension":       KwExtension,
	"fileprivate":     KwFileprivate,
	"func":            KwFunc,
	"import":          KwImport,
	"init":            KwInit,
	"inout":           KwInout,
	"internal":        KwInternal,
	"let":             KwLet,
	"operator":        KwOperator,
	"precedencegroup": KwPrecedenceGroup,
	"private":         KwPrivate,
	"protocol":        KwProtocol,
	"public":          KwPublic,
	"rethrows":        KwRethrows,
	"static":          KwStatic,
	"struct":          KwStruct,
	"subscript":       KwSubscript,
	"typealias":       KwTypealias,
	"var":             KwVar,
	"break":           KwBreak,
	"case":            KwCase,
	"catch":           KwCatch,
	"continue":        KwContinue,
	"default":         KwDefault,
	"defer":           KwDefer,
	"do":              KwDo,
	"else":            KwElse,
	"fallthrough":     KwFallthrough,
	"for":             KwFor,
	"guard":           KwGuard,
	"if":              KwIf,
	"in":              KwIn,
	"repeat":          KwRepeat,
	"return":          KwReturn,
	"throw":           KwThrow,
	"switch":          KwSwitch,
	"where":           KwWhere,
	"while":           KwWhile,
	"Any":             KwAny,
	"as":              KwAs,
	"false":           KwFalse,
	"is":              KwIs,
	"nil":             KwNil,
	"self":            KwSelf,
	"Self":            KwCapitalSelf,
	"super":           KwSuper,
	"throws":          KwThrows,
	"true":            KwTrue,
	"try":             KwTry,
}

var (
	keywordSpelling = make(map[Kind]string, len(keywords))
	keywordNames    = make(map[Kind]string, len(keywords))
)

func init() {
	for text, k := range keywords {
		keywordSpelling[k] = text
		keywordNames[k] = exportName(text)
	}
	// Self и self дают одинаковое имя
	keywordNames[KwCapitalSelf] = "CapitalSelf"
	keywordNames[KwAssociatedType] = "AssociatedType"
	keywordNames[KwPrecedenceGroup] = "PrecedenceGroup"

	for k := Invalid; k < kindCount; k++ {
		kindByName[k.String()] = k
	}
}

func exportName(text string) string {
	if text == "" || text[0] < 'a' || text[0] > 'z' {
		return text
	}
	return string(text[0]-'a'+'A') + text[1:]
}

// LookupKeyword returns the keyword kind spelled by ident.
// Keywords are case-sensitive: "Self" and "self" are different keywords.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// Contextual keywords are lexed as identifiers and matched by text.
const (
	CtxPrefix      = "prefix"
	CtxInfix       = "infix"
	CtxPostfix     = "postfix"
	CtxMessage     = "message"
	CtxRenamed     = "renamed"
	CtxIntroduced  = "introduced"
	CtxObsoleted   = "obsoleted"
	CtxDeprecated  = "deprecated"
	CtxUnavailable = "unavailable"
	CtxNoasync     = "noasync"
)

var declModifiers = map[string]struct{}{
	"class": {}, "static": {}, "public": {}, "private": {}, "fileprivate": {}, "internal": {},
	"open": {}, "final": {}, "override": {}, "mutating": {}, "nonmutating": {},
	"convenience": {}, "required": {}, "lazy": {}, "weak": {}, "unowned": {},
	"prefix": {}, "infix": {}, "postfix": {}, "indirect": {}, "dynamic": {},
}

// IsDeclModifier reports whether text may appear as a declaration modifier.
func IsDeclModifier(text string) bool {
	_, ok := declModifiers[text]
	return ok
}
