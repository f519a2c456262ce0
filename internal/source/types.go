package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32 // просто ID источника
	// FileFlags encodes metadata about a source file.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, repl).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска
	// FileHadBOM marks content that starts with a UTF-8 byte order mark.
	FileHadBOM
	// FileHasCRLF marks content containing at least one "\r\n".
	FileHasCRLF
	// FileHasCR marks content containing a lone "\r" line terminator.
	FileHasCR
)

// File captures metadata and content for a single source file.
// Content is kept byte-exact: no BOM stripping, no newline normalization.
type File struct {
	ID         FileID
	Path       string
	Content    []byte
	LineStarts []uint32 // offset of every line start, LineStarts[0] == 0
	Hash       [32]byte
	Flags      FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}
