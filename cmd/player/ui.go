package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Harsh00198/Auraluxe-Music/internal/catalog"
	"github.com/Harsh00198/Auraluxe-Music/internal/player"
)

const (
	refreshInterval = 250 * time.Millisecond
	volumeStep      = 0.05
	seekStep        = 5.0
	queueWindow     = 8
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	artistStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	currentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Bold(true)
	frameStyle   = lipgloss.NewStyle().Padding(1, 2)
)

// controls is the part of *player.Controller the UI drives.
type controls interface {
	State() player.State
	TogglePlay()
	Next()
	Previous()
	ToggleShuffle()
	ToggleRepeat()
	SetVolume(v float64)
	SetProgress(p float64)
	RemoveFromQueue(index int)
	ClearQueue()
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// model is the now-playing screen. All playback state lives in the
// controller; the model only keeps the latest snapshot for rendering.
type model struct {
	ctrl     controls
	state    player.State
	keys     keyMap
	help     help.Model
	progress progress.Model
}

func newModel(ctrl controls) model {
	return model{
		ctrl:     ctrl,
		state:    ctrl.State(),
		keys:     newKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = max(msg.Width-12, 10)
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.state = m.ctrl.State()
		return m, tick()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		m.handleKey(msg)
		m.state = m.ctrl.State()
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) {
	s := m.state
	switch {
	case key.Matches(msg, m.keys.toggle):
		m.ctrl.TogglePlay()
	case key.Matches(msg, m.keys.next):
		m.ctrl.Next()
	case key.Matches(msg, m.keys.prev):
		m.ctrl.Previous()
	case key.Matches(msg, m.keys.shuffle):
		m.ctrl.ToggleShuffle()
	case key.Matches(msg, m.keys.repeat):
		m.ctrl.ToggleRepeat()
	case key.Matches(msg, m.keys.volUp):
		m.ctrl.SetVolume(s.Volume + volumeStep)
	case key.Matches(msg, m.keys.volDown):
		m.ctrl.SetVolume(s.Volume - volumeStep)
	case key.Matches(msg, m.keys.forward):
		m.seek(seekStep)
	case key.Matches(msg, m.keys.backward):
		m.seek(-seekStep)
	case key.Matches(msg, m.keys.remove):
		if s.Current != nil {
			m.ctrl.RemoveFromQueue(s.Index)
		}
	case key.Matches(msg, m.keys.clear):
		m.ctrl.ClearQueue()
	}
}

func (m model) seek(delta float64) {
	s := m.state
	if s.Duration <= 0 {
		return
	}
	pos := s.Progress/100*s.Duration + delta
	m.ctrl.SetProgress(pos / s.Duration * 100)
}

func (m model) View() string {
	s := m.state
	var b strings.Builder

	if s.Current == nil {
		b.WriteString(dimStyle.Render("Nothing playing"))
	} else {
		b.WriteString(titleStyle.Render(s.Current.Title))
		b.WriteString("\n")
		b.WriteString(artistStyle.Render(s.Current.Artist))
		if s.Current.Album != "" {
			b.WriteString(dimStyle.Render(" · " + s.Current.Album))
		}
	}
	b.WriteString("\n\n")

	elapsed := s.Progress / 100 * s.Duration
	b.WriteString(m.progress.ViewAs(s.Progress / 100))
	b.WriteString(fmt.Sprintf(" %s/%s\n", clock(elapsed), clock(s.Duration)))
	b.WriteString(dimStyle.Render(statusLine(s)))
	b.WriteString("\n\n")

	b.WriteString(renderQueue(s))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return frameStyle.Render(b.String())
}

func statusLine(s player.State) string {
	parts := []string{string(s.Status), fmt.Sprintf("vol %d%%", int(s.Volume*100+0.5))}
	if s.Shuffled {
		parts = append(parts, "shuffle")
	}
	if s.Repeat != player.RepeatOff {
		parts = append(parts, "repeat "+string(s.Repeat))
	}
	return strings.Join(parts, "  ")
}

// renderQueue shows a window of the queue around the current track.
func renderQueue(s player.State) string {
	if len(s.Queue) == 0 {
		return dimStyle.Render("Queue is empty") + "\n"
	}
	start := max(s.Index-queueWindow/2, 0)
	end := min(start+queueWindow, len(s.Queue))
	start = max(end-queueWindow, 0)

	var b strings.Builder
	for i := start; i < end; i++ {
		line := fmt.Sprintf("%2d. %s", i+1, trackLine(s.Queue[i]))
		if i == s.Index && s.Current != nil {
			b.WriteString(currentStyle.Render("▶ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if end < len(s.Queue) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("   … %d more", len(s.Queue)-end)))
		b.WriteString("\n")
	}
	return b.String()
}

func trackLine(t catalog.Track) string {
	line := t.Title + " · " + t.Artist
	if t.Duration != "" {
		line += " (" + t.Duration + ")"
	}
	return line
}

func clock(seconds float64) string {
	if seconds < 1 {
		return "0:00"
	}
	return catalog.FormatDuration(int(seconds))
}
