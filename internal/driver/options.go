package driver

import (
	"fmt"
	"io"
	"runtime"

	"fortio.org/safecast"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"lexis/internal/config"
	"lexis/internal/observ"
	"lexis/internal/parser"
)

// Options configures a driver run. Zero values select defaults.
type Options struct {
	Config config.Config

	// Fs is where sources are read from and fixes are written to.
	Fs afero.Fs
	// Cache stores diagnostics of unchanged files; nil disables caching.
	Cache *DiskCache
	// Sink receives progress events; may be nil.
	Sink ProgressSink
	// Timer accumulates per-phase timings; may be nil.
	Timer  *observ.Timer
	Logger logrus.FieldLogger
}

// withDefaults fills unset fields.
func (o Options) withDefaults() Options {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.Logger = l
	}
	if o.Config.Driver.Extensions == nil {
		o.Config.Driver.Extensions = config.Default().Driver.Extensions
	}
	return o
}

func (o Options) jobs(files int) int {
	jobs := o.Config.Driver.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, files))
}

// ParserOptions maps the configuration onto parser options. The parser
// never forwards to a Reporter here: the driver reads Result.Diagnostics.
func (o Options) ParserOptions() parser.Options {
	maxErrors, err := safecast.Conv[uint](o.Config.Diagnostics.Max)
	if err != nil {
		panic(fmt.Errorf("max diagnostics overflow: %w", err))
	}
	return parser.Options{
		MaxErrors:                maxErrors,
		MaxDepth:                 o.Config.Parse.MaxDepth,
		RejectEditorPlaceholders: o.Config.Parse.RejectEditorPlaceholders,
		MaxInterpolationDepth:    o.Config.Parse.InterpolationDepth,
	}
}

func (o Options) emit(file string, stage Stage, status Status, err error) {
	if o.Sink != nil {
		o.Sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err})
	}
}
