package driver

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"lexis/internal/fix"
	"lexis/internal/source"
)

// FixOutcome is the result of a fix run.
type FixOutcome struct {
	Files  []FileResult
	Result *fix.ApplyResult
}

// Fix diagnoses paths and applies the selected fix-its through the
// FileSet's filesystem. NormalizeNewlines is taken from the configuration
// unless applyOpts already sets it. fix.ErrNoFixes is returned unwrapped so
// callers can test for it with errors.Is.
func Fix(ctx context.Context, fileSet *source.FileSet, paths []string, opts Options, applyOpts fix.ApplyOptions) (*FixOutcome, error) {
	opts = opts.withDefaults()
	files, err := Diagnose(ctx, fileSet, paths, opts)
	if err != nil {
		return nil, err
	}
	out := &FixOutcome{Files: files}

	applyOpts.NormalizeNewlines = applyOpts.NormalizeNewlines || opts.Config.Diagnostics.NormalizeNewlines
	bag := MergeBags(files)
	start := time.Now()
	res, err := fix.Apply(fileSet, bag.Items(), applyOpts)
	if opts.Timer != nil {
		opts.Timer.Add(string(StageFix), time.Since(start))
	}
	out.Result = res
	if res != nil {
		for _, ch := range res.FileChanges {
			opts.emit(ch.Path, StageFix, StatusDone, nil)
		}
		opts.Logger.WithFields(logrus.Fields{
			"phase":   "fix",
			"applied": len(res.Applied),
			"skipped": len(res.Skipped),
			"dry_run": applyOpts.DryRun,
		}).Debug("fixes applied")
	}
	if err != nil && !errors.Is(err, fix.ErrNoFixes) {
		opts.Logger.WithError(err).Error("applying fixes")
	}
	return out, err
}
