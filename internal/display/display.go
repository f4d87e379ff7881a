// Package display renders lot comparisons for the terminal.
//
// The Render functions return styled strings and never write. [Browser]
// is an interactive Bubble Tea program for walking a dish's lots: arrow
// keys move, "/" filters, enter shows the comparison against the lot's
// baseline.
package display

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/lotbook/internal/catalog"
	"github.com/hammamikhairi/lotbook/internal/domain"
	"github.com/hammamikhairi/lotbook/internal/engine"
)

// LotService is what the browser needs from the engine.
type LotService interface {
	ListLots(ctx context.Context, dishID string) ([]*domain.Lot, error)
	Compare(ctx context.Context, lotID, baselineID string) (*engine.LotComparison, error)
}

var _ LotService = (*engine.Engine)(nil)

// ── Browser ──────────────────────────────────────────────────────

// Browser is an interactive lot browser for one dish.
type Browser struct {
	svc  LotService
	dish *domain.Dish
}

// NewBrowser creates a browser. Call Run to start.
func NewBrowser(svc LotService, dish *domain.Dish) *Browser {
	return &Browser{svc: svc, dish: dish}
}

// Run loads the dish's lots and starts the Bubble Tea event loop. Blocks
// until the user quits or ctx is cancelled.
func (b *Browser) Run(ctx context.Context) error {
	lots, err := b.svc.ListLots(ctx, b.dish.ID)
	if err != nil {
		return fmt.Errorf("listing lots: %w", err)
	}
	m := newModel(b.dish, lots, func(lotID string) (*engine.LotComparison, error) {
		return b.svc.Compare(ctx, lotID, "")
	})
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type mode int

const (
	modeList mode = iota
	modeSearch
	modeDetail
)

type compareFunc func(lotID string) (*engine.LotComparison, error)

type model struct {
	dish    *domain.Dish
	lots    []*domain.Lot
	visible []*domain.Lot
	cursor  int
	mode    mode
	search  textinput.Model
	compare compareFunc
	detail  string
	width   int
}

// Messages.
type compareMsg struct {
	lot *domain.Lot
	cmp *engine.LotComparison
	err error
}

func newModel(dish *domain.Dish, lots []*domain.Lot, compare compareFunc) model {
	ti := textinput.New()
	// Plain-text prompt keeps the textinput width math correct.
	ti.Prompt = "/ "
	ti.PromptStyle = promptStyle
	ti.Placeholder = "lot number, ingredient, step..."
	ti.CharLimit = 100
	ti.Width = 60

	return model{
		dish:    dish,
		lots:    lots,
		visible: lots,
		search:  ti,
		compare: compare,
	}
}

func (m model) Init() tea.Cmd {
	return tea.SetWindowTitle("lotbook: " + m.dish.Name)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		// Leave room for the "/ " prompt.
		if msg.Width > 2 {
			m.search.Width = msg.Width - 2
		}
		return m, nil

	case compareMsg:
		m.mode = modeDetail
		switch {
		case errors.Is(msg.err, domain.ErrNoBaseline):
			m.detail = secondaryStyle.Render(msg.lot.LotNumber + " has no baseline lot")
		case msg.err != nil:
			m.detail = RenderError(msg.err)
		default:
			m.detail = RenderComparison(msg.cmp, m.dish.Settings)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeDetail:
			switch msg.String() {
			case "esc", "q", "backspace":
				m.mode = modeList
				m.detail = ""
			}
			return m, nil
		default:
			return m.updateList(msg)
		}
	}

	if m.mode == modeSearch {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case "/":
		m.mode = modeSearch
		return m, m.search.Focus()
	case "enter":
		if len(m.visible) == 0 {
			return m, nil
		}
		lot := m.visible[m.cursor]
		compare := m.compare
		return m, func() tea.Msg {
			cmp, err := compare(lot.ID)
			return compareMsg{lot: lot, cmp: cmp, err: err}
		}
	}
	return m, nil
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.mode = modeList
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.mode = modeList
		m.search.Blur()
		m.search.Reset()
		m.refilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refilter()
	return m, cmd
}

func (m *model) refilter() {
	m.visible = catalog.Search(m.lots, m.search.Value())
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}

func (m model) View() string {
	if m.mode == modeDetail {
		return m.detail + "\n" + secondaryStyle.Render("esc back · ctrl+c quit")
	}

	var b strings.Builder
	b.WriteString(headingStyle.Render(m.dish.Name))
	b.WriteString(secondaryStyle.Render(fmt.Sprintf("  %d/%d lots", len(m.visible), len(m.lots))))
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(indent + secondaryStyle.Render("no matching lots") + "\n")
	}
	for i, l := range m.visible {
		row := LotRow(l)
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + row))
		} else {
			b.WriteString(primaryStyle.Render(indent + row))
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.mode == modeSearch || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteByte('\n')
	}
	help := "↑/↓ move · / search · enter compare · q quit"
	if m.width > 0 {
		help = lipgloss.NewStyle().MaxWidth(m.width).Render(help)
	}
	b.WriteString(secondaryStyle.Render(help))
	return b.String()
}
