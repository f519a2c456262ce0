package source

import (
	"path/filepath"
)

// buildLineIndex records the start offset of every line. "\n", "\r" and
// "\r\n" all terminate a line; "\r\n" counts once.
func buildLineIndex(content []byte) (starts []uint32, flags FileFlags) {
	starts = make([]uint32, 1, len(content)/32+1)
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '\n':
			starts = append(starts, uint32(i+1))
		case '\r':
			if i+1 < len(content) && content[i+1] == '\n' {
				flags |= FileHasCRLF
				i++
			} else {
				flags |= FileHasCR
			}
			starts = append(starts, uint32(i+1))
		}
	}
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		flags |= FileHadBOM
	}
	return starts, flags
}

// lineOf returns the 0-based line holding off.
func lineOf(starts []uint32, off uint32) int {
	// бинпоиск: наибольший starts[i] <= off
	lo, hi := 0, len(starts)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if starts[mid] <= off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if hi < 0 {
		return 0
	}
	return hi
}

func toLineCol(starts []uint32, off uint32) LineCol {
	if len(starts) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	line := lineOf(starts, off)
	return LineCol{Line: uint32(line + 1), Col: off - starts[line] + 1}
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}
