package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"lexis/internal/syntax"
)

// FormatTree пишет дерево в выбранном формате. pretty - отступами по
// одному узлу на строку, остальные сериализуют syntax.Export.
func FormatTree(w io.Writer, root *syntax.Node, format Format) error {
	switch format {
	case FormatPretty, "":
		return syntax.Dump(w, root)
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(syntax.Export(root))
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(syntax.Export(root)); err != nil {
			return err
		}
		return encoder.Close()
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(syntax.Export(root))
	}
	return fmt.Errorf("tree: unsupported format %q", format)
}
