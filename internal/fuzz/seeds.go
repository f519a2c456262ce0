package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB - ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

// builtinSeeds cover constructs the testdata corpus may not reach.
var builtinSeeds = []string{
	"",
	"let x = 1\n",
	"func f(_ a: Int, b: [String: Int]) -> Int? { return nil }\n",
	"_ = \"\"\"\n  a\n \tb\n  \"\"\"\n",
	"let s = \"\\u{1F600} \\(\"nested \\(1)\") \"\n",
	"<<<<<<< HEAD\nlet a = 1\n=======\nlet a = 2\n>>>>>>> branch\n",
	"struct Any {}\nclass switch {}\n",
	"@available(*, deprecated, message: \"x\")\nvar v: Int { get }\n",
	"let p = <#placeholder#>\n",
	"\r\nlet crlf = 1\r\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.swift файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".swift" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clamp(src, maxSeedBytes))
		return nil
	})
}

func clamp(src []byte, limit int) []byte {
	if len(src) <= limit {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:limit]...)
}
