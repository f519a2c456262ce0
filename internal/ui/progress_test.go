package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexis/internal/driver"
)

func send(t *testing.T, m tea.Model, ev driver.Event) tea.Model {
	t.Helper()
	next, _ := m.Update(eventMsg(ev))
	return next
}

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("diagnose", []string{"a.swift", "b.swift"}, events)

	m = send(t, m, driver.Event{File: "a.swift", Stage: driver.StageRead, Status: driver.StatusWorking})
	m = send(t, m, driver.Event{File: "a.swift", Stage: driver.StageParse, Status: driver.StatusWorking})
	pm := m.(*progressModel)
	assert.Equal(t, "parsing", pm.items[0].status)
	assert.Equal(t, "queued", pm.items[1].status)
	assert.InDelta(t, 0.3, pm.percent(), 1e-9)

	m = send(t, m, driver.Event{File: "a.swift", Stage: driver.StageParse, Status: driver.StatusDone})
	m = send(t, m, driver.Event{File: "b.swift", Stage: driver.StageRead, Status: driver.StatusError})
	// поздние события для завершённого файла игнорируются
	m = send(t, m, driver.Event{File: "b.swift", Stage: driver.StageParse, Status: driver.StatusWorking})
	m = send(t, m, driver.Event{File: "unknown.swift", Stage: driver.StageParse, Status: driver.StatusDone})
	pm = m.(*progressModel)
	assert.Equal(t, 2, pm.finished)
	assert.Equal(t, 1, pm.failed)
	assert.Equal(t, "error", pm.items[1].status)
	assert.InDelta(t, 1.0, pm.percent(), 1e-9)

	view := m.View()
	assert.Contains(t, view, "diagnose 2/2, 1 with errors")
	assert.Contains(t, view, "a.swift")

	m, cmd := m.Update(doneMsg{})
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "done: diagnose")
	assert.False(t, Aborted(m))
}

func TestProgressModelInterrupt(t *testing.T) {
	m := NewProgressModel("fix", []string{"a.swift"}, nil)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.True(t, Aborted(m))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "abcdefghij", truncate("abcdefghij", 10))
	assert.Equal(t, "a...", truncate("abcdef", 4))
	// широкие руны: результат не шире width
	got := truncate("日本語テキスト", 7)
	assert.Equal(t, "日本...", got)
	assert.LessOrEqual(t, runewidth.StringWidth(got), 7)
}
