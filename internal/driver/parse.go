package driver

import (

	"lexis/internal/diag"
	"lexis/internal/parser"
	"lexis/internal/source"
	"lexis/internal/syntax"
	"lexis/internal/token"
)

// ParseResult holds the syntax tree of one file.
type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tree    *syntax.Tree
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Parse loads path into fileSet and parses it, bypassing the cache: callers
// of Parse want the tree.
func Parse(fileSet *source.FileSet, path string, opts Options) (*ParseResult, error) {
	opts = opts.withDefaults()
	fileID, err := fileSet.Load(path)
	if err != nil {
		return nil, err
	}
	file := fileSet.Get(fileID)

	bag := diag.NewBag(opts.Config.Diagnostics.Max)
	opts.emit(path, StageParse, StatusWorking, nil)
	var res parser.Result
	measure(opts, string(StageParse), func() {
		res = parser.ParseFile(file, opts.ParserOptions())
	})
	for _, d := range res.Diagnostics {
		if !bag.Add(d) {
			break
		}
	}
	opts.Logger.WithField("file", path).WithField("diagnostics", bag.Len()).Debug("parsed")
	finishStage(opts, path, StageParse, bag)

	return &ParseResult{
		FileSet: fileSet,
		File:    file,
		Tree:    res.Tree,
		Tokens:  res.Tokens,
		Bag:     bag,
	}, nil
}
