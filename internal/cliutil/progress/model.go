// Package progress renders live repo-fetch progress for `apply`, the way
// the teacher's pkg/tui.StatusModel renders live repo-health state — a
// bubbletea program fed by a channel of events from the pipeline, with a
// non-TTY fallback that logs one line per event instead.
package progress

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gizzahub/common-repo/internal/cliutil"
)

// EventKind names one stage of a single repo reference's progress.
type EventKind string

const (
	EventFetchStarted  EventKind = "fetch-started"
	EventFetchCached   EventKind = "fetch-cached"
	EventFetchFailed   EventKind = "fetch-failed"
	EventFetchFinished EventKind = "fetch-finished"
)

// Event is one repo reference's progress update, sent through a Sink and
// read from the channel NewSink returns (by RunTTY or RunPlain).
type Event struct {
	Kind  EventKind
	Label string // e.g. "github.com/acme/shared-ci@v1.0.0"
	Err   error
}

// eventMsg wraps an Event for bubbletea's message loop.
type eventMsg Event

// doneMsg signals the event channel closed (the pipeline run finished).
type doneMsg struct{}

// Sink is what the pipeline's caller feeds progress into. A nil Sink is
// valid and simply discards every event — callers that don't want a TUI
// (piped output, `--quiet`) can skip constructing one.
type Sink interface {
	Send(Event)
	Close()
}

// chanSink is the Sink implementation NewSink hands back to the caller.
type chanSink struct {
	events chan Event
}

func (s *chanSink) Send(e Event) { s.events <- e }
func (s *chanSink) Close()       { close(s.events) }

// NewSink creates a buffered event channel and returns the Sink side for
// the pipeline to write into.
func NewSink() (Sink, <-chan Event) {
	events := make(chan Event, 64)
	return &chanSink{events: events}, events
}

type line struct {
	label  string
	status string
}

// model is the bubbletea program driving the live fetch view.
type model struct {
	events <-chan Event
	lines  []line
	index  map[string]int
	done   bool
}

func waitForEvent(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(e)
	}
}

// New creates the bubbletea model that consumes events until the channel
// closes, then quits.
func New(events <-chan Event) tea.Model {
	return model{events: events, index: make(map[string]int)}
}

func (m model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.applyEvent(Event(msg))
		return m, waitForEvent(m.events)
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *model) applyEvent(e Event) {
	status := statusText(e)
	if idx, ok := m.index[e.Label]; ok {
		m.lines[idx].status = status
		return
	}
	m.index[e.Label] = len(m.lines)
	m.lines = append(m.lines, line{label: e.Label, status: status})
}

func statusText(e Event) string {
	switch e.Kind {
	case EventFetchStarted:
		return "fetching..."
	case EventFetchCached:
		return "cached"
	case EventFetchFailed:
		return fmt.Sprintf("failed: %v", e.Err)
	case EventFetchFinished:
		return "done"
	default:
		return ""
	}
}

func (m model) View() string {
	if len(m.lines) == 0 {
		return cliutil.SubtleStyle.Render("waiting for repository fetches...") + "\n"
	}

	var b strings.Builder
	b.WriteString(cliutil.HeaderStyle.Render(fmt.Sprintf(" apply: %d repositories ", len(m.lines))))
	b.WriteString("\n\n")
	for _, l := range m.lines {
		b.WriteString(fmt.Sprintf("  %-50s %s\n", l.label, statusStyle(l.status).Render(l.status)))
	}
	return b.String()
}

func statusStyle(status string) interface {
	Render(...string) string
} {
	if strings.HasPrefix(status, "failed") {
		return cliutil.WarningStyle
	}
	if status == "done" || status == "cached" {
		return cliutil.AddedStyle
	}
	return cliutil.SubtleStyle
}

// RunTTY drives the bubbletea program to completion against events,
// returning once the channel closes or the user quits.
func RunTTY(events <-chan Event) error {
	_, err := tea.NewProgram(New(events)).Run()
	return err
}

// RunPlain is the non-TTY fallback: print one line per event as it
// arrives instead of rendering a live view, for piped stdout or
// `--quiet`-adjacent non-interactive runs.
func RunPlain(events <-chan Event) {
	for e := range events {
		fmt.Printf("%s: %s\n", e.Label, statusText(e))
	}
}
