package driver

import "time"

// Stage is a step of the per-file pipeline.
type Stage string

const (
	// StageRead loads the file from disk.
	StageRead Stage = "read"
	// StageCache looks the file up in the disk cache.
	StageCache Stage = "cache"
	// StageLex tokenizes the file.
	StageLex Stage = "lex"
	// StageParse lexes and parses the file.
	StageParse Stage = "parse"
	// StageFix applies fix-its.
	StageFix Stage = "fix"
)

// Status is the state of a file within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is being processed.
	StatusWorking Status = "working"
	// StatusDone indicates the file finished without errors.
	StatusDone Status = "done"
	// StatusError indicates the file has error diagnostics or failed to load.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: workers report from their own goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) { f(evt) }
