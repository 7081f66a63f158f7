// Package screen renders the order history in the terminal.
package screen

import (
	"context"
	"fmt"
	"strings"

	"orders-bff/internal/view"

	tea "github.com/charmbracelet/bubbletea"
)

// Loader fetches the screen state once. It must honour ctx.
type Loader func(ctx context.Context) (view.State, error)

type loadedMsg struct {
	seq   int
	state view.State
	err   error
}

const (
	rowHeight      = 5
	chromeHeight   = 6
	defaultPerPage = 5
)

type Model struct {
	load   Loader
	ctx    context.Context
	cancel context.CancelFunc

	seq    int
	state  view.State
	alert  *view.Notice
	err    error
	offset int
	height int
}

func New(ctx context.Context, load Loader) Model {
	ctx, cancel := context.WithCancel(ctx)
	return Model{
		load:   load,
		ctx:    ctx,
		cancel: cancel,
		seq:    1,
		state:  view.Loading(),
	}
}

// Init starts the single fetch of the screen's lifetime.
func (m Model) Init() tea.Cmd {
	return fetchCmd(m.ctx, m.load, m.seq)
}

func fetchCmd(ctx context.Context, load Loader, seq int) tea.Cmd {
	return func() tea.Msg {
		state, err := load(ctx)
		return loadedMsg{seq: seq, state: state, err: err}
	}
}

func (m Model) State() view.State { return m.state }

// Err is the transport error of the last fetch, if any. The screen itself
// only shows the generic notice.
func (m Model) Err() error { return m.err }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.offset = m.clampOffset(m.offset)
	case loadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.state = msg.state
		m.err = msg.err
		m.offset = 0
		if msg.state.Notice != nil {
			notice := *msg.state.Notice
			m.alert = &notice
		}
	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return m.quit()
		}
		if m.alert != nil {
			if key == "enter" || key == "esc" {
				m.alert = nil
			}
			return m, nil
		}
		switch key {
		case "q":
			return m.quit()
		case "up", "k":
			m.offset = m.clampOffset(m.offset - 1)
		case "down", "j":
			m.offset = m.clampOffset(m.offset + 1)
		case "pgup":
			m.offset = m.clampOffset(m.offset - m.perPage())
		case "pgdown":
			m.offset = m.clampOffset(m.offset + m.perPage())
		case "home", "g":
			m.offset = 0
		case "end", "G":
			m.offset = m.clampOffset(len(m.state.Rows))
		}
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	return m, tea.Quit
}

func (m Model) perPage() int {
	if m.height <= 0 {
		return defaultPerPage
	}
	return max(1, (m.height-chromeHeight)/rowHeight)
}

func (m Model) clampOffset(offset int) int {
	maxOffset := max(0, len(m.state.Rows)-m.perPage())
	return min(max(0, offset), maxOffset)
}

func (m Model) View() string {
	b := &strings.Builder{}
	fmt.Fprintln(b, "Đơn hàng của bạn")
	fmt.Fprintln(b, strings.Repeat("=", 32))

	if m.alert != nil {
		renderAlert(b, *m.alert)
		return b.String()
	}

	switch m.state.Phase {
	case view.PhaseLoading:
		fmt.Fprintln(b, "Đang tải đơn hàng...")
	case view.PhaseEmpty:
		fmt.Fprintln(b, view.EmptyMessage)
	case view.PhaseFailed:
		if m.state.Notice != nil {
			fmt.Fprintf(b, "! %s\n", m.state.Notice.Message)
		}
	case view.PhaseLoaded:
		end := min(m.offset+m.perPage(), len(m.state.Rows))
		for _, row := range m.state.Rows[m.offset:end] {
			fmt.Fprintf(b, "[img] %s\n", row.ImageURI)
			fmt.Fprintf(b, "  %s\n", row.Name)
			fmt.Fprintf(b, "  %s\n", row.QuantityLabel)
			fmt.Fprintf(b, "  %s\n", row.PriceLabel)
			fmt.Fprintln(b, strings.Repeat("-", 32))
		}
		fmt.Fprintf(b, "%d-%d/%d\n", m.offset+1, end, len(m.state.Rows))
	}

	fmt.Fprintln(b, "\nControls: up/down scroll, pgup/pgdown page, q to quit")
	return b.String()
}

func renderAlert(b *strings.Builder, n view.Notice) {
	lines := []string{}
	if n.Title != "" {
		lines = append(lines, n.Title)
	}
	lines = append(lines, n.Message, "", "[ OK ] (enter)")

	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	border := "+" + strings.Repeat("-", width+2) + "+"
	fmt.Fprintln(b, border)
	for _, l := range lines {
		fmt.Fprintf(b, "| %s%s |\n", l, strings.Repeat(" ", width-len([]rune(l))))
	}
	fmt.Fprintln(b, border)
}
