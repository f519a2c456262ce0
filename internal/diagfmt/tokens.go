package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"lexis/internal/source"
	"lexis/internal/token"
)

type TokenOutput struct {
	Kind     string      `json:"kind" yaml:"kind"`
	Text     string      `json:"text,omitempty" yaml:"text,omitempty"`
	Span     source.Span `json:"span" yaml:"span"`
	Leading  []string    `json:"leading,omitempty" yaml:"leading,omitempty"`
	Trailing []string    `json:"trailing,omitempty" yaml:"trailing,omitempty"`
	Depth    uint16      `json:"depth,omitempty" yaml:"depth,omitempty"`
	Flags    []string    `json:"flags,omitempty" yaml:"flags,omitempty"`
}

var flagNames = []struct {
	flag token.Flags
	name string
}{
	{token.FlagMissing, "missing"},
	{token.FlagEditorPlaceholder, "placeholder"},
	{token.FlagStringPart, "string-part"},
	{token.FlagBacktick, "backtick"},
	{token.FlagInvalidStart, "invalid-start"},
	{token.FlagClosingDelimiter, "closing"},
}

func triviaKinds(pieces []token.Trivia) []string {
	if len(pieces) == 0 {
		return nil
	}
	out := make([]string, len(pieces))
	for i, tr := range pieces {
		out[i] = tr.Kind.String()
	}
	return out
}

func tokenFlags(f token.Flags) []string {
	var out []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			out = append(out, fn.name)
		}
	}
	return out
}

func buildTokenOutput(tokens []token.Token) []TokenOutput {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		output = append(output, TokenOutput{
			Kind:     tok.Kind.String(),
			Text:     tok.Text,
			Span:     tok.Span,
			Leading:  triviaKinds(tok.Leading),
			Trailing: triviaKinds(tok.Trailing),
			Depth:    tok.Depth,
			Flags:    tokenFlags(tok.Flags),
		})
		if tok.Kind == token.EOF {
			break
		}
	}
	return output
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)

		if _, err := fmt.Fprintf(w, "%3d: %-22s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d",
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col)
		if tok.Depth > 0 {
			fmt.Fprintf(w, " depth=%d", tok.Depth)
		}
		if flags := tokenFlags(tok.Flags); len(flags) > 0 {
			fmt.Fprintf(w, " [%s]", strings.Join(flags, ","))
		}
		if leading := triviaKinds(tok.Leading); len(leading) > 0 {
			fmt.Fprintf(w, " (leading: %s)", strings.Join(leading, ", "))
		}
		if trailing := triviaKinds(tok.Trailing); len(trailing) > 0 {
			fmt.Fprintf(w, " (trailing: %s)", strings.Join(trailing, ", "))
		}
		fmt.Fprintln(w)

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildTokenOutput(tokens))
}

// FormatTokensYAML выводит токены в YAML формате
func FormatTokensYAML(w io.Writer, tokens []token.Token) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(buildTokenOutput(tokens)); err != nil {
		return err
	}
	return encoder.Close()
}
