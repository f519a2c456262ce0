package driver

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"lexis/internal/diag"
	"lexis/internal/parser"
	"lexis/internal/source"
	"lexis/internal/syntax"
	"lexis/internal/token"
)

// FileResult is the outcome of processing one file.
type FileResult struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag
	// Tree and Tokens are nil when the diagnostics came from the cache or
	// the file failed to load.
	Tree   *syntax.Tree
	Tokens []token.Token
	Cached bool
	Err    error // ошибка загрузки; тогда в Bag лежит IOLoadFileError
}

// loadAll предзагружает файлы: FileSet не потокобезопасен, поэтому всё
// чтение идёт до запуска воркеров.
func loadAll(fileSet *source.FileSet, paths []string, opts Options) ([]source.FileID, []error) {
	ids := make([]source.FileID, len(paths))
	errs := make([]error, len(paths))
	for i, path := range paths {
		start := time.Now()
		opts.emit(path, StageRead, StatusWorking, nil)
		ids[i], errs[i] = fileSet.Load(path)
		if opts.Timer != nil {
			opts.Timer.Add(string(StageRead), time.Since(start))
		}
		if errs[i] != nil {
			// пустой виртуальный файл, чтобы диагностике было куда указывать
			ids[i] = fileSet.Add(path, nil, source.FileVirtual)
			opts.Logger.WithError(errs[i]).WithField("file", path).Warn("failed to load file")
		}
	}
	return ids, errs
}

func loadErrorBag(id source.FileID, err error, max int) *diag.Bag {
	bag := diag.NewBag(max)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.IOLoadFileError,
		Message:  err.Error(),
		Primary:  source.Point(id, 0),
	})
	return bag
}

// Diagnose parses every path concurrently and collects diagnostics per
// file. Results are in the order of paths. A load failure becomes an
// IOLoadFileError diagnostic of that file; only cancellation is returned
// as an error.
func Diagnose(ctx context.Context, fileSet *source.FileSet, paths []string, opts Options) ([]FileResult, error) {
	opts = opts.withDefaults()
	for _, p := range paths {
		opts.emit(p, StageRead, StatusQueued, nil)
	}
	ids, loadErrs := loadAll(fileSet, paths, opts)
	results := make([]FileResult, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	popts := opts.ParserOptions()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(paths)))

	for i, path := range paths {
		if loadErrs[i] != nil {
			results[i] = FileResult{Path: path, FileID: ids[i], Bag: loadErrorBag(ids[i], loadErrs[i], opts.Config.Diagnostics.Max), Err: loadErrs[i]}
			opts.emit(path, StageRead, StatusError, loadErrs[i])
			continue
		}
		file := fileSet.Get(ids[i])
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// индекс i уникален для горутины, мьютекс не нужен
			results[i] = diagnoseFile(file, path, popts, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func diagnoseFile(file *source.File, path string, popts parser.Options, opts Options) FileResult {
	log := opts.Logger.WithField("file", path)
	res := FileResult{Path: path, FileID: file.ID, Bag: diag.NewBag(opts.Config.Diagnostics.Max)}

	key := CacheKey(file, popts)
	if opts.Cache != nil {
		opts.emit(path, StageCache, StatusWorking, nil)
		var payload DiskPayload
		start := time.Now()
		hit, err := opts.Cache.Get(key, &payload)
		if opts.Timer != nil {
			opts.Timer.Add(string(StageCache), time.Since(start))
		}
		if err != nil {
			log.WithError(err).Debug("cache entry unreadable")
		}
		if hit && payload.Hash == Digest(file.Hash) {
			for _, d := range rebase(payload.Diagnostics, file.ID) {
				res.Bag.Add(d)
			}
			res.Cached = true
			log.WithFields(logrus.Fields{"phase": "cache", "diagnostics": res.Bag.Len()}).Debug("cache hit")
			finishEvent(opts, path, res)
			return res
		}
	}

	opts.emit(path, StageParse, StatusWorking, nil)
	start := time.Now()
	pr := parser.ParseFile(file, popts)
	elapsed := time.Since(start)
	if opts.Timer != nil {
		opts.Timer.Add(string(StageParse), elapsed)
	}
	for _, d := range pr.Diagnostics {
		if !res.Bag.Add(d) {
			break
		}
	}
	res.Tree = pr.Tree
	res.Tokens = pr.Tokens
	log.WithFields(logrus.Fields{
		"phase":       "parse",
		"diagnostics": len(pr.Diagnostics),
		"elapsed":     elapsed,
	}).Debug("parsed")

	if opts.Cache != nil {
		payload := &DiskPayload{Path: path, Hash: Digest(file.Hash), Diagnostics: res.Bag.Items(), Created: time.Now()}
		if err := opts.Cache.Put(key, payload); err != nil {
			log.WithError(err).Warn("cache write failed")
		}
	}
	finishEvent(opts, path, res)
	return res
}

func finishEvent(opts Options, path string, res FileResult) {
	if res.Bag.HasErrors() {
		opts.emit(path, StageParse, StatusError, nil)
		return
	}
	opts.emit(path, StageParse, StatusDone, nil)
}

// Summary counts diagnostics across results.
type Summary struct {
	Files, Errors, Warnings, Infos, Cached int
}

// Summarize aggregates results.
func Summarize(results []FileResult) Summary {
	s := Summary{Files: len(results)}
	for _, r := range results {
		if r.Cached {
			s.Cached++
		}
		if r.Bag == nil {
			continue
		}
		for _, d := range r.Bag.Items() {
			switch d.Severity {
			case diag.SevError:
				s.Errors++
			case diag.SevWarning:
				s.Warnings++
			default:
				s.Infos++
			}
		}
	}
	return s
}

// MergeBags собирает диагностики всех файлов в один Bag в порядке путей.
func MergeBags(results []FileResult) *diag.Bag {
	out := diag.NewBag(0)
	for _, r := range results {
		out.Merge(r.Bag)
	}
	return out
}
