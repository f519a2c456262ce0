package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"lexis/internal/diag"
	"lexis/internal/source"
)

// Short печатает по строке на диагностику, как компиляторы для IDE:
// path:line:col: severity: message [CODE]
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode, colored bool) error {
	paint := map[diag.Severity]*color.Color{
		diag.SevError:   color.New(color.FgRed, color.Bold),
		diag.SevWarning: color.New(color.FgYellow, color.Bold),
		diag.SevInfo:    color.New(color.FgCyan),
	}
	for _, c := range paint {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	for _, d := range bag.Items() {
		pos, _ := fs.Resolve(d.Primary)
		path := formatPath(fs.Get(d.Primary.File), fs, mode)
		sev := paint[d.Severity].Sprint(d.Severity.Label())
		if _, err := fmt.Fprintf(w, "%s:%d:%d: %s: %s [%s]\n", path, pos.Line, pos.Col, sev, d.Message, d.Code.ID()); err != nil {
			return err
		}
	}
	return nil
}
