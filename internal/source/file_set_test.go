package source

import (
	"testing"

	"github.com/spf13/afero"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSetFs(afero.NewMemMapFs())

	id1 := fs.Add("test.swift", []byte("hello world"), 0)
	if id1 != 0 {
		t.Fatalf("expected first FileID to be 0, got %d", id1)
	}
	id2 := fs.Add("test.swift", []byte("hello universe"), 0)
	if id2 != 1 {
		t.Fatalf("expected second FileID to be 1, got %d", id2)
	}

	latest, ok := fs.GetLatest("test.swift")
	if !ok || latest != id2 {
		t.Fatalf("expected latest id %d, got %d (ok=%v)", id2, latest, ok)
	}
	// старая версия остаётся доступной
	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Fatalf("first version content = %q", got)
	}
}

func TestLineStartsAllTerminators(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		want  []uint32
		flags FileFlags
	}{
		{"lf", "a\nb\n", []uint32{0, 2, 4}, 0},
		{"cr", "a\rb\r", []uint32{0, 2, 4}, FileHasCR},
		{"crlf", "a\r\nb\r\n", []uint32{0, 3, 6}, FileHasCRLF},
		{"mixed", "a\r\nb\nc\rd", []uint32{0, 3, 5, 7}, FileHasCRLF | FileHasCR},
		{"no newline", "abc", []uint32{0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := NewFileSetFs(afero.NewMemMapFs())
			f := fs.Get(fs.AddVirtual("x.swift", []byte(tt.src)))
			if len(f.LineStarts) != len(tt.want) {
				t.Fatalf("line starts = %v, want %v", f.LineStarts, tt.want)
			}
			for i := range tt.want {
				if f.LineStarts[i] != tt.want[i] {
					t.Fatalf("line starts = %v, want %v", f.LineStarts, tt.want)
				}
			}
			if f.Flags&^FileVirtual != tt.flags {
				t.Fatalf("flags = %b, want %b", f.Flags&^FileVirtual, tt.flags)
			}
		})
	}
}

func TestLoadKeepsContentVerbatim(t *testing.T) {
	mem := afero.NewMemMapFs()
	raw := []byte("\xEF\xBB\xBFlet a = 1\r\nlet b = 2\r\n")
	if err := afero.WriteFile(mem, "/src/a.swift", raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fs := NewFileSetFs(mem)
	id, err := fs.Load("/src/a.swift")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != string(raw) {
		t.Fatalf("content was modified: %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileHasCRLF == 0 {
		t.Fatalf("expected BOM and CRLF flags, got %b", f.Flags)
	}
	if f.Newline() != "\r\n" {
		t.Fatalf("newline = %q", f.Newline())
	}
	if _, err := fs.Load("/src/missing.swift"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestResolveAndGetLine(t *testing.T) {
	fs := NewFileSetFs(afero.NewMemMapFs())
	id := fs.AddVirtual("x.swift", []byte("first\r\nsecond\rthird"))
	f := fs.Get(id)

	start, end := fs.Resolve(Span{File: id, Start: 7, End: 9})
	if start != (LineCol{Line: 2, Col: 1}) || end != (LineCol{Line: 2, Col: 3}) {
		t.Fatalf("resolve = %v %v", start, end)
	}
	if got := f.Position(14); got != (LineCol{Line: 3, Col: 1}) {
		t.Fatalf("position(14) = %v", got)
	}
	for line, want := range map[uint32]string{1: "first", 2: "second", 3: "third", 4: "", 0: ""} {
		if got := f.GetLine(line); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", line, got, want)
		}
	}
}

func TestSpanHelpers(t *testing.T) {
	s := Span{File: 1, Start: 10, End: 20}
	if !s.Contains(10) || s.Contains(20) {
		t.Fatal("Contains must be half-open")
	}
	if got := s.Cover(Span{File: 1, Start: 5, End: 12}); got.Start != 5 || got.End != 20 {
		t.Fatalf("cover = %v", got)
	}
	if got := s.Cover(Span{File: 2, Start: 0, End: 50}); got != s {
		t.Fatalf("cover across files must be a no-op, got %v", got)
	}
	if !s.EndPoint().Empty() || s.EndPoint().Start != 20 {
		t.Fatalf("end point = %v", s.EndPoint())
	}
	if s.Len() != 10 {
		t.Fatalf("len = %d", s.Len())
	}
}
