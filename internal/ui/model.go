// Package ui hosts the visualizer in the terminal: a bubbletea program that
// ticks the frame orchestrator, draws the drum and track, routes the mouse to
// seeking and scrubbing, and exposes the control panel.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/drumvis/internal/config"
	"github.com/olivier-w/drumvis/internal/frame"
	"github.com/olivier-w/drumvis/internal/player"
	"github.com/olivier-w/drumvis/internal/render"
	"github.com/olivier-w/drumvis/internal/termview"
	"github.com/olivier-w/drumvis/internal/util"
)

const (
	trackPixelHeight = 16
	trackRows        = 4
	seekStep         = 5 * time.Second
	volumeStep       = 0.05
	statusTTL        = 5 * time.Second
	// header (title, subtitle, blank) + blank + track + status + help
	chromeRows = 3 + 1 + trackRows + 1 + 1
)

// Options tune the host.
type Options struct {
	FPS        int
	DrumSize   int
	ConfigPath string
	Renderer   *termview.Renderer
	Blend      render.BlendMode
}

// Model is the Bubbletea model for the drumvis TUI.
type Model struct {
	sess     *session
	orch     *frame.Orchestrator
	store    *config.Store
	view     *termview.Renderer
	metadata player.Metadata
	keys     keyMap
	help     help.Model
	ambient  ambientSpring
	opts     Options

	width, height int
	panelOpen     bool
	selected      int
	loop          bool
	quitting      bool

	last       frame.Frame
	drumView   string
	trackView  string
	status     string
	statusTime time.Time
}

// New wires a model around a playing audio session. spectrum may be nil.
func New(audio Audio, meta player.Metadata, spectrum frame.Spectrum, store *config.Store, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.DrumSize <= 0 {
		opts.DrumSize = 400
	}
	if opts.Renderer == nil {
		opts.Renderer = termview.NewRenderer()
	}

	sess := &session{audio: audio}
	frameOpts := []frame.Option{frame.WithPlayback(sess), frame.WithBlendMode(opts.Blend)}
	if spectrum != nil {
		frameOpts = append(frameOpts, frame.WithSpectrum(spectrum))
	}
	orch := frame.New(
		render.NewSurface(opts.DrumSize, opts.DrumSize),
		render.NewSurface(80, trackPixelHeight),
		store,
		frameOpts...,
	)
	orch.Start()

	return Model{
		sess:     sess,
		orch:     orch,
		store:    store,
		view:     opts.Renderer,
		metadata: meta,
		keys:     defaultKeys(),
		help:     help.New(),
		ambient:  newAmbientSpring(opts.FPS),
		opts:     opts,
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		frameCmd(m.opts.FPS),
		waitEnded(m.sess.audio),
		tea.SetWindowTitle(windowTitle(m.metadata.Title, false)),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleMsg(msg)
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width - 4
		m.orch.Track().Resize(max(msg.Width, 1), trackPixelHeight)
		return m, nil

	case frameMsg:
		m = m.renderFrame()
		if m.status != "" && time.Since(m.statusTime) > statusTTL {
			m.status = ""
		}
		return m, frameCmd(m.opts.FPS)

	case playbackEndedMsg:
		if m.loop {
			m.sess.audio.Play()
		} else {
			m = m.setStatus("end of track")
		}
		return m, tea.Batch(waitEnded(m.sess.audio), m.titleCmd())

	case configSavedMsg:
		if msg.err != nil {
			return m.setStatus(fmt.Sprintf("Save failed: %v", msg.err)), nil
		}
		return m.setStatus("Saved to " + msg.path), nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	k := m.keys
	a := m.sess.audio
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		m.orch.Stop()
		a.Close()
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	case key.Matches(msg, k.Pause):
		a.TogglePause()
		return m, m.titleCmd()
	case key.Matches(msg, k.SeekBack):
		a.Seek(-seekStep)
	case key.Matches(msg, k.SeekFwd):
		a.Seek(seekStep)
	case key.Matches(msg, k.VolumeUp):
		m.publish(func(c config.RenderConfig) config.RenderConfig { c.Volume += volumeStep; return c })
	case key.Matches(msg, k.VolumeDown):
		m.publish(func(c config.RenderConfig) config.RenderConfig { c.Volume -= volumeStep; return c })
	case key.Matches(msg, k.Loop):
		m.loop = !m.loop
	case key.Matches(msg, k.Panel):
		m.panelOpen = !m.panelOpen
	case key.Matches(msg, k.Mirror):
		m.publish(func(c config.RenderConfig) config.RenderConfig { c.Mirror = !c.Mirror; return c })
	case key.Matches(msg, k.Easing):
		m.publish(func(c config.RenderConfig) config.RenderConfig { return fieldNamed("easing").Adjust(c, 1) })
	case key.Matches(msg, k.Save):
		return m.setStatus("Saving..."), m.saveCmd()
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	case m.panelOpen && key.Matches(msg, k.Prev):
		m.selected = (m.selected + len(config.Fields()) - 1) % len(config.Fields())
	case m.panelOpen && key.Matches(msg, k.Next):
		m.selected = (m.selected + 1) % len(config.Fields())
	case m.panelOpen && key.Matches(msg, k.Decrease):
		f := config.Fields()[m.selected]
		m.publish(func(c config.RenderConfig) config.RenderConfig { return f.Adjust(c, -1) })
	case m.panelOpen && key.Matches(msg, k.Increase):
		f := config.Fields()[m.selected]
		m.publish(func(c config.RenderConfig) config.RenderConfig { return f.Adjust(c, 1) })
	}
	return m, nil
}

// publish applies a control change and pushes the output gain to the audio
// session, which only follows the volume field.
func (m Model) publish(fn func(config.RenderConfig) config.RenderConfig) {
	m.store.Update(fn)
	m.sess.audio.SetVolume(m.store.Snapshot().Volume)
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if m.width <= 0 {
		return m
	}
	x := (float64(msg.X) + 0.5) / float64(m.width)
	onTrack := m.layout().onTrack(msg.Y)

	switch msg.Action {
	case tea.MouseActionMotion:
		m.sess.hover(x, onTrack)
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			break
		}
		if onTrack {
			m.sess.press(x)
		} else {
			m.sess.audio.TogglePause()
		}
	case tea.MouseActionRelease:
		m.sess.release()
	}
	return m
}

func (m Model) renderFrame() Model {
	f, ok := m.orch.Tick()
	if !ok {
		return m
	}
	m.last = f
	lay := m.layout()
	// non-mirror drums render upside down
	m.drumView = m.view.Render(m.orch.Drum().Image(), lay.drumW, lay.drumH, !f.Config.Mirror)
	m.trackView = m.view.Render(m.orch.Track().Image(), lay.trackW, trackRows, false)
	m.ambient.step(f.Ambient)
	return m
}

func (m Model) setStatus(s string) Model {
	m.status = s
	m.statusTime = time.Now()
	return m
}

func (m Model) saveCmd() tea.Cmd {
	path, cfg := m.opts.ConfigPath, m.store.Snapshot()
	return func() tea.Msg {
		if path == "" {
			path = config.DefaultPath()
		}
		if path == "" {
			return configSavedMsg{err: fmt.Errorf("no config path: home directory unknown")}
		}
		return configSavedMsg{path: path, err: config.Save(path, cfg)}
	}
}

func (m Model) titleCmd() tea.Cmd {
	return tea.SetWindowTitle(windowTitle(m.metadata.Title, m.sess.audio.Paused()))
}

// layout places the views for the current window size.
type layout struct {
	drumW, drumH int
	trackTop     int
	trackW       int
}

func (l layout) onTrack(y int) bool {
	return y >= l.trackTop && y < l.trackTop+trackRows
}

func (m Model) layout() layout {
	availW := m.width - 4
	if m.panelOpen {
		availW -= panelInnerWidth + 6
	}
	availH := max(m.height-chromeRows, 2)
	drumW, drumH := termview.CellsFor(max(availW, 4), availH, m.opts.DrumSize, m.opts.DrumSize, m.view.Color())
	return layout{
		drumW:    drumW,
		drumH:    drumH,
		trackTop: 3 + max(drumH, m.panelHeight()) + 1,
		trackW:   max(m.width, 1),
	}
}

func (m Model) panelHeight() int {
	if !m.panelOpen {
		return 0
	}
	return len(config.Fields()) + 3
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	bg := m.ambient.current()
	fill := lipgloss.WithWhitespaceBackground(lipglossColor(bg))
	line := func(s string) string {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Left, "  "+s, fill)
	}

	var b strings.Builder
	b.WriteString(line(headerStyle.Render("drumvis") + "  " + titleStyle.Render(m.metadata.Title)))
	b.WriteByte('\n')
	b.WriteString(line(artistStyle.Render(m.metadata.Subtitle())))
	b.WriteByte('\n')
	b.WriteString(line(""))
	b.WriteByte('\n')

	body := m.drumView
	if m.panelOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", renderPanel(m.store.Snapshot(), m.selected))
	}
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, body, fill))
	b.WriteByte('\n')
	b.WriteString(line(""))
	b.WriteByte('\n')
	b.WriteString(m.trackView)
	b.WriteByte('\n')
	b.WriteString(line(m.statusLine()))
	b.WriteByte('\n')
	b.WriteString(line(m.help.View(m.keys)))
	return b.String()
}

func (m Model) statusLine() string {
	a := m.sess.audio
	state := "▶  playing"
	if a.Paused() {
		state = "❚❚ paused"
	}
	if m.loop {
		state += "  [loop]"
	}
	parts := []string{
		timeStyle.Render(util.FormatDuration(a.Position()) + " / " + util.FormatDuration(a.Duration())),
		statusStyle.Render(state),
		statusStyle.Render(util.FormatPercent("vol", m.store.Snapshot().Volume)),
		statusStyle.Render("#" + m.last.AmbientHex()),
	}
	if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}
	return strings.Join(parts, "   ")
}

func fieldNamed(name string) config.Field {
	for _, f := range config.Fields() {
		if f.Name == name {
			return f
		}
	}
	return config.Field{}
}

func windowTitle(title string, paused bool) string {
	if paused {
		return "⏸ " + title + " — drumvis"
	}
	return "▶ " + title + " — drumvis"
}
