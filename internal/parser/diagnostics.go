package parser

import (
	"fmt"
	"sort"
	"strings"

	"lexis/internal/diag"
	"lexis/internal/fix"
	"lexis/internal/source"
	"lexis/internal/token"
)

const (
	codeExpectedExpression = diag.SynExpectedExpression
	codeExpectedType       = diag.SynExpectedType
)

// collector собирает диагностики лексера, чтобы отдать их вместе с
// синтаксическими в порядке позиций.
type collector struct{ items []diag.Diagnostic }

func (c *collector) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	c.items = append(c.items, diag.Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes, Fixes: fixes,
	})
}

// missingItem - один отсутствующий элемент в сообщении "expected X and Y".
type missingItem struct {
	desc string // "')'", "value"
	text string // что вставляет исправление
}

type matchNote struct {
	span source.Span
	text string
}

// pendingDiag живёт в парсере до конца разбора: restore может его отбросить,
// а соседние отсутствующие элементы сливаются в одно сообщение.
type pendingDiag struct {
	d      diag.Diagnostic
	items  []missingItem
	phrase string
}

type pendingBuilder struct {
	p  *Parser
	pd pendingDiag
}

func (p *Parser) errorAt(code diag.Code, sp source.Span, msg string) *pendingBuilder {
	return &pendingBuilder{p: p, pd: pendingDiag{d: diag.NewError(code, sp, msg)}}
}

func (b *pendingBuilder) note(sp source.Span, msg string) *pendingBuilder {
	b.pd.d = b.pd.d.WithNote(sp, msg)
	return b
}

func (b *pendingBuilder) fix(f diag.Fix) *pendingBuilder {
	b.pd.d = b.pd.d.WithFixSuggestion(f)
	return b
}

func (b *pendingBuilder) emit() {
	if b.p.quiet {
		return
	}
	b.p.pending = append(b.p.pending, b.pd)
}

// reportMissing сообщает об отсутствующем элементе. Если предыдущая
// диагностика описывает отсутствующие элементы в той же точке и в том же
// контексте, элемент добавляется к ней.
func (p *Parser) reportMissing(code diag.Code, desc, text, phrase string, note *matchNote) {
	if p.quiet {
		return
	}
	at := p.missingAt()
	item := missingItem{desc: desc, text: text}
	if n := len(p.pending); n > 0 {
		last := p.pending[n-1]
		if len(last.items) > 0 && last.phrase == phrase && last.d.Primary == at {
			// полные срезы: снимок хранит копию last и не должен видеть дописанное
			last.items = append(last.items[:len(last.items):len(last.items)], item)
			last.d.Notes = last.d.Notes[:len(last.d.Notes):len(last.d.Notes)]
			if note != nil {
				last.d.Notes = append(last.d.Notes, matchingNote(note))
			}
			p.pending[n-1] = p.describeMissingDiag(last)
			return
		}
	}
	pd := pendingDiag{d: diag.NewError(code, at, ""), items: []missingItem{item}, phrase: phrase}
	if note != nil {
		pd.d.Notes = []diag.Note{matchingNote(note)}
	}
	p.pending = append(p.pending, p.describeMissingDiag(pd))
}

func matchingNote(n *matchNote) diag.Note {
	return diag.Note{Span: n.span, Msg: fmt.Sprintf("to match this opening '%s'", n.text)}
}

func (p *Parser) describeMissingDiag(pd pendingDiag) pendingDiag {
	descs := make([]string, len(pd.items))
	var text strings.Builder
	for i, it := range pd.items {
		descs[i] = it.desc
		text.WriteString(it.text)
	}
	list := joinList(descs)
	msg := "expected " + list
	if pd.phrase != "" {
		msg += " " + pd.phrase
	}
	pd.d.Message = msg
	at := pd.d.Primary
	pd.d.Fixes = nil
	if text.Len() == 0 {
		return pd
	}
	pd.d.Fixes = []diag.Fix{fix.InsertText(
		"insert "+list,
		at,
		text.String(),
		fix.Preferred(),
		fix.WithID(fmt.Sprintf("%s-%d-%d", pd.d.Code.ID(), at.File, at.Start)),
	)}
	return pd
}

// joinList: "a", "a and b", "a, b, and c".
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
}

func missingKindCode(k token.Kind) diag.Code {
	switch k {
	case token.Identifier:
		return diag.SynExpectedIdentifier
	case token.StringQuote, token.MultilineStringQuote, token.RawStringPoundDelimiter:
		return diag.SynUnterminatedString
	}
	return diag.SynExpectedToken
}

func describeMissing(k token.Kind) string {
	if k.IsOperator() {
		return "operator"
	}
	return k.Describe()
}

// insertText - текст, который исправление вставляет вместо отсутствующего токена.
func insertText(k token.Kind) string {
	if s := k.Spelling(); s != "" {
		return s
	}
	switch k {
	case token.Identifier:
		return "<#identifier#>"
	case token.IntegerLiteral:
		return "0"
	}
	return ""
}

// quotedCode оборачивает текст для сообщения; многострочный код не цитируется.
func quotedCode(text string) (string, bool) {
	if text == "" || strings.ContainsAny(text, "\r\n") {
		return "", false
	}
	return "'" + text + "'", true
}

// finish объединяет диагностики лексера и парсера, сортирует по позиции и
// отдаёт их Reporter с учётом MaxErrors.
func (p *Parser) finish(lexDiags []diag.Diagnostic) []diag.Diagnostic {
	all := make([]diag.Diagnostic, 0, len(lexDiags)+len(p.pending))
	all = append(all, lexDiags...)
	for _, pd := range p.pending {
		all = append(all, pd.d)
	}
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i].Primary, all[j].Primary
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Start < b.Start
	})
	if p.opts.Reporter == nil {
		return all
	}
	var errs uint
	for _, d := range all {
		if d.Severity == diag.SevError {
			errs++
			if p.opts.MaxErrors > 0 && errs > p.opts.MaxErrors {
				continue
			}
		}
		p.opts.Reporter.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes, d.Fixes)
	}
	return all
}
