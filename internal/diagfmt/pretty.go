package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"lexis/internal/diag"
	"lexis/internal/source"
)

const tabWidth = 4

type prettyStyles struct {
	err, warn, info lipgloss.Style
	code            lipgloss.Style
	gutter          lipgloss.Style
	caret           lipgloss.Style
	note            lipgloss.Style
	added, removed  lipgloss.Style
}

func newPrettyStyles(w io.Writer, enabled bool) prettyStyles {
	if !enabled {
		plain := lipgloss.NewStyle()
		return prettyStyles{plain, plain, plain, plain, plain, plain, plain, plain, plain}
	}
	r := lipgloss.NewRenderer(w)
	return prettyStyles{
		err:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		warn:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		info:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		code:    r.NewStyle().Faint(true),
		gutter:  r.NewStyle().Foreground(lipgloss.Color("4")),
		caret:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		note:    r.NewStyle().Bold(true),
		added:   r.NewStyle().Foreground(lipgloss.Color("2")),
		removed: r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

func (s prettyStyles) severity(sev diag.Severity) lipgloss.Style {
	switch sev {
	case diag.SevError:
		return s.err
	case diag.SevWarning:
		return s.warn
	default:
		return s.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	st := newPrettyStyles(w, opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &d, fs, opts, st)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, st prettyStyles) {
	file := fs.Get(d.Primary.File)
	pos, _ := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		formatPath(file, fs, opts.PathMode), pos.Line, pos.Col,
		st.severity(d.Severity).Render(d.Severity.String()),
		st.code.Render(d.Code.ID()),
		d.Message)
	writeSnippet(w, file, d.Primary, opts, st)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			np, _ := fs.Resolve(n.Span)
			nf := fs.Get(n.Span.File)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", st.note.Render("note:"),
				formatPath(nf, fs, opts.PathMode), np.Line, np.Col, n.Msg)
		}
	}

	if !opts.ShowFixes {
		return
	}
	for i, fx := range sortedFixes(d.Fixes) {
		id := fx.ID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "  fix #%d: %s (id=%s, %s)\n", i+1, fx.Title, id, fx.Applicability)
		for _, e := range fx.Edits {
			start, end := fs.Resolve(e.Span)
			fmt.Fprintf(w, "    edit %d:%d-%d:%d apply=%q\n", start.Line, start.Col, end.Line, end.Col, e.NewText)
			if !opts.ShowPreview {
				continue
			}
			preview, err := buildFixEditPreview(fs, e)
			if err != nil {
				continue
			}
			fmt.Fprintln(w, "    preview:")
			for _, l := range preview.before {
				fmt.Fprintf(w, "      %s\n", st.removed.Render("- "+l))
			}
			for _, l := range preview.after {
				fmt.Fprintf(w, "      %s\n", st.added.Render("+ "+l))
			}
		}
	}
}

// writeSnippet печатает строку span (и Context строк перед ней) и
// подчёркивание. Многострочный span подчёркивается до конца первой строки.
func writeSnippet(w io.Writer, file *source.File, sp source.Span, opts PrettyOpts, st prettyStyles) {
	if len(file.LineStarts) == 0 {
		return
	}
	line := file.LineIndex(sp.Start)
	first := max(line-int(opts.Context), 0)
	gutterWidth := len(fmt.Sprint(line + 1))

	for l := first; l <= line; l++ {
		text := expandTabs(file.GetLine(uint32(l + 1)))
		if opts.Width > 0 {
			text = runewidth.Truncate(text, int(opts.Width), "...")
		}
		fmt.Fprintf(w, " %s %s\n", st.gutter.Render(fmt.Sprintf("%*d |", gutterWidth, l+1)), text)
	}

	raw := file.GetLine(uint32(line + 1))
	col := int(sp.Start - file.LineStarts[line])
	if col > len(raw) {
		col = len(raw)
	}
	end := int(sp.End - file.LineStarts[line])
	if end > len(raw) || end < col {
		end = len(raw)
	}
	pad := runewidth.StringWidth(expandTabs(raw[:col]))
	width := runewidth.StringWidth(expandTabs(raw[col:end]))
	mark := "^"
	if width > 1 {
		mark += strings.Repeat("~", width-1)
	}
	fmt.Fprintf(w, " %s %s%s\n", st.gutter.Render(strings.Repeat(" ", gutterWidth)+" |"),
		strings.Repeat(" ", pad), st.caret.Render(mark))
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	w := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - w%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			w += n
			continue
		}
		b.WriteRune(r)
		w += runewidth.RuneWidth(r)
	}
	return b.String()
}
