package driver

import (

	"lexis/internal/diag"
	"lexis/internal/lexer"
	"lexis/internal/source"
	"lexis/internal/token"
)

// TokenizeResult holds the token stream of one file.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize loads path into fileSet and lexes it. Lexical diagnostics go to
// the returned Bag; an unreadable file is an error.
func Tokenize(fileSet *source.FileSet, path string, opts Options) (*TokenizeResult, error) {
	opts = opts.withDefaults()
	fileID, err := fileSet.Load(path)
	if err != nil {
		return nil, err
	}
	file := fileSet.Get(fileID)

	bag := diag.NewBag(opts.Config.Diagnostics.Max)
	opts.emit(path, StageLex, StatusWorking, nil)
	var toks []token.Token
	measure(opts, string(StageLex), func() {
		toks = lexer.Tokenize(file, lexer.Options{
			Reporter:              &diag.BagReporter{Bag: bag},
			MaxInterpolationDepth: opts.Config.Parse.InterpolationDepth,
		})
	})
	opts.Logger.WithField("file", path).WithField("tokens", len(toks)).Debug("tokenized")
	finishStage(opts, path, StageLex, bag)

	return &TokenizeResult{
		FileSet: fileSet,
		File:    file,
		Tokens:  toks,
		Bag:     bag,
	}, nil
}

func measure(opts Options, phase string, fn func()) {
	if opts.Timer == nil {
		fn()
		return
	}
	opts.Timer.Measure(phase, fn)
}

func finishStage(opts Options, path string, stage Stage, bag *diag.Bag) {
	if bag.HasErrors() {
		opts.emit(path, stage, StatusError, nil)
		return
	}
	opts.emit(path, stage, StatusDone, nil)
}
