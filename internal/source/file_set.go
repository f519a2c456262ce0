package source

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"

	"fortio.org/safecast"
	"github.com/spf13/afero"
)

// FileSet manages a collection of source files and resolves byte offsets.
type FileSet struct {
	fs      afero.Fs
	files   []File
	index   map[string]FileID // path -> id
	baseDir string
}

// NewFileSet creates an empty FileSet backed by the OS filesystem.
func NewFileSet() *FileSet {
	return NewFileSetFs(afero.NewOsFs())
}

// NewFileSetFs creates an empty FileSet reading through fsys.
func NewFileSetFs(fsys afero.Fs) *FileSet {
	return &FileSet{
		fs:    fsys,
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// Fs returns the filesystem files are loaded from.
func (fileSet *FileSet) Fs() afero.Fs {
	return fileSet.fs
}

// SetBaseDir sets the directory used by FormatPath("relative").
func (fileSet *FileSet) SetBaseDir(dir string) {
	fileSet.baseDir = dir
}

// BaseDir returns the directory set by SetBaseDir.
func (fileSet *FileSet) BaseDir() string {
	return fileSet.baseDir
}

// Add stores content verbatim, computes line starts and hash, and returns a new FileID.
// It always creates a new FileID even if a file with the same path already exists.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	starts, detected := buildLineIndex(content)
	normalizedPath := normalizePath(path)

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("file %s too large: %w", path, err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:         id,
		Path:       normalizedPath,
		Content:    content,
		LineStarts: starts,
		Hash:       sha256.Sum256(content),
		Flags:      flags | detected,
	})
	// индекс всегда указывает на последнюю версию файла
	fileSet.index[normalizedPath] = id
	return id
}

// Load reads a file and calls Add. Content is not normalized.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	content, err := afero.ReadFile(fileSet.fs, path)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", path, err)
	}
	return fileSet.Add(path, content, 0), nil
}

// AddVirtual adds a virtual file (stdin, test, or repl input) with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// Len returns the number of stored file versions.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// GetLatest returns the latest file ID for the given path, if it exists.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := &fileSet.files[span.File]
	return toLineCol(f.LineStarts, span.Start), toLineCol(f.LineStarts, span.End)
}

// Position converts an offset into a line/column pair.
func (f *File) Position(off uint32) LineCol {
	return toLineCol(f.LineStarts, off)
}

// LineIndex returns the 0-based line holding off.
func (f *File) LineIndex(off uint32) int {
	return lineOf(f.LineStarts, off)
}

// Len returns the content length in bytes.
func (f *File) Len() uint32 {
	return uint32(len(f.Content)) // checked in Add
}

// Newline returns the line terminator new text should use: the first
// terminator found in the file, "\n" when there is none.
func (f *File) Newline() string {
	for i, b := range f.Content {
		switch b {
		case '\n':
			return "\n"
		case '\r':
			if i+1 < len(f.Content) && f.Content[i+1] == '\n' {
				return "\r\n"
			}
			return "\r"
		}
	}
	return "\n"
}

// GetLine returns line lineNum (1-based) without its terminator.
// Out-of-range lines yield "".
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 || int(lineNum) > len(f.LineStarts) {
		return ""
	}
	start := f.LineStarts[lineNum-1]
	end := f.Len()
	if int(lineNum) < len(f.LineStarts) {
		end = f.LineStarts[lineNum]
	}
	for end > start && (f.Content[end-1] == '\n' || f.Content[end-1] == '\r') {
		end--
	}
	return string(f.Content[start:end])
}

// FormatPath renders the path. mode: "absolute", "relative", "basename", "auto".
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
		return f.Path
	case "relative":
		if baseDir == "" {
			return f.Path
		}
		if rel, err := filepath.Rel(baseDir, f.Path); err == nil && !filepath.IsAbs(rel) && rel != ".." && !hasParentPrefix(rel) {
			return filepath.ToSlash(rel)
		}
		return f.Path
	case "basename":
		return filepath.Base(f.Path)
	case "auto":
		if len(f.Path) < 40 || !filepath.IsAbs(f.Path) {
			return f.Path
		}
		return filepath.Base(f.Path)
	default:
		return f.Path
	}
}

func hasParentPrefix(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
