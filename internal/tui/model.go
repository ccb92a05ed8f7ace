package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/ecoshopper/internal/session"
	"github.com/rshade/ecoshopper/internal/shop"
)

// ViewState is the screen the browser is showing.
type ViewState int

const (
	// ViewStateList is the product table.
	ViewStateList ViewState = iota
	// ViewStateDanger is the eco warning shown before a low-scoring product.
	ViewStateDanger
	// ViewStateDetail is the product detail pane.
	ViewStateDetail
	// ViewStateQuitting is set once the program is exiting.
	ViewStateQuitting
)

// Key bindings.
const (
	keyQuit      = "q"
	keyCtrlC     = "ctrl+c"
	keyEnter     = "enter"
	keyEsc       = "esc"
	keyBackspace = "backspace"
	keySlash     = "/"
	keyAdd       = "a"
	keyTheme     = "t"
	keyUpvote    = "+"
	keyDownvote  = "-"
	keyYes       = "y"
	keyNo        = "n"
)

const (
	defaultTableHeight = 12
	chromeHeight       = 8
)

// Model is the Bubble Tea model for the product browser.
type Model struct {
	shop *shop.Shop

	all      []shop.ScoredProduct
	products []shop.ScoredProduct
	table    table.Model
	filter   textinput.Model

	state      ViewState
	showFilter bool
	current    shop.ProductView
	theme      session.Theme
	styles     Styles
	status     string

	width  int
	height int
}

// New builds a browser over s, starting in the session's theme.
func New(s *shop.Shop) Model {
	ti := textinput.New()
	ti.Placeholder = "filter by name, brand or category"
	ti.Prompt = "/ "

	theme := s.Store().Theme()
	m := Model{
		shop:   s,
		all:    s.Scored(""),
		filter: ti,
		state:  ViewStateList,
		theme:  theme,
		styles: NewStyles(theme),
		width:  TerminalWidth(),
	}
	m.products = m.all
	m.table = newProductTable(m.products, defaultTableHeight, m.styles)
	return m
}

// Run starts the browser on the terminal and blocks until the user quits.
func Run(ctx context.Context, s *shop.Shop, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(New(s), opts...).Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}

func newProductTable(products []shop.ScoredProduct, height int, st Styles) table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 4},        //nolint:mnd // Column width.
		{Title: "Product", Width: 42},  //nolint:mnd // Column width.
		{Title: "Brand", Width: 12},    //nolint:mnd // Column width.
		{Title: "Category", Width: 14}, //nolint:mnd // Column width.
		{Title: "Price", Width: 9},     //nolint:mnd // Column width.
		{Title: "EcoScore", Width: 10}, //nolint:mnd // Column width.
	}

	rows := make([]table.Row, len(products))
	for i, p := range products {
		rows[i] = table.Row{
			p.ID,
			p.Name,
			p.Brand,
			p.Category,
			fmt.Sprintf("$%.2f", p.Price),
			fmt.Sprintf("%d %s", p.Result.Score, p.Result.Level),
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = st.TableHeader
	s.Selected = st.TableSelected
	t.SetStyles(s)

	return t
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// State returns the current screen.
func (m Model) State() ViewState {
	return m.state
}

// Current returns the product shown in the detail or warning screen.
func (m Model) Current() shop.ProductView {
	return m.current
}

// Status returns the last status message.
func (m Model) Status() string {
	return m.status
}

// Theme returns the active theme.
func (m Model) Theme() session.Theme {
	return m.theme
}

// Visible returns the products currently listed.
func (m Model) Visible() []shop.ScoredProduct {
	return m.products
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if winMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = winMsg.Width
		m.height = winMsg.Height
		m.rebuildTable()
		return m, nil
	}

	if m.showFilter {
		return m.handleFilterInput(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case keyCtrlC, keyQuit:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyTheme:
		m.toggleTheme()
		return m, nil
	}

	switch m.state {
	case ViewStateList:
		return m.handleListKeypress(keyMsg)
	case ViewStateDanger:
		return m.handleDangerKeypress(keyMsg)
	case ViewStateDetail:
		return m.handleDetailKeypress(keyMsg)
	default:
		return m, nil
	}
}

func (m Model) handleFilterInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEnter, keyEsc:
			m.showFilter = false
			m.filter.Blur()
			m.applyFilter(m.filter.Value())
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter(m.filter.Value())
	return m, cmd
}

func (m Model) handleListKeypress(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case keyEnter:
		if p, ok := m.highlighted(); ok {
			m.open(p.ID)
		}
		return m, nil
	case keyAdd:
		if p, ok := m.highlighted(); ok {
			m.addToCart(p.ID)
		}
		return m, nil
	case keySlash:
		m.showFilter = true
		m.filter.Focus()
		return m, textinput.Blink
	case keyEsc:
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.applyFilter("")
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(keyMsg)
		return m, cmd
	}
}

func (m Model) handleDangerKeypress(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case keyYes:
		m.record(m.current.Product.ID)
	case keyNo, keyEsc, keyBackspace:
		m.state = ViewStateList
		m.status = ""
	}
	return m, nil
}

func (m Model) handleDetailKeypress(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.current.Product.ID
	switch keyMsg.String() {
	case keyAdd:
		m.addToCart(id)
	case keyUpvote:
		m.vote(id, session.VoteUp)
	case keyDownvote:
		m.vote(id, session.VoteDown)
	case keyEsc, keyBackspace:
		m.state = ViewStateList
	}
	return m, nil
}

// open shows a product, gating low scorers behind the warning screen.
func (m *Model) open(id string) {
	preview, err := m.shop.Preview(id)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.current = preview
	if preview.RequiresDangerAck {
		m.state = ViewStateDanger
		return
	}
	m.record(id)
}

// record counts the view and switches to the detail screen.
func (m *Model) record(id string) {
	v, err := m.shop.View(id)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.current = v
	m.state = ViewStateDetail
	m.status = ""
	if v.Qualified {
		m.status = fmt.Sprintf("🌿 +%d green points", m.shop.Policy().Points)
	}
}

func (m *Model) addToCart(id string) {
	sp, err := m.shop.AddToCart(id)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = sp.Name + " added to cart! 🛒"
	if m.shop.Policy().Qualifies(sp.Result.Score) {
		m.status += " 🌿 Great eco-friendly choice!"
	}
}

func (m *Model) vote(id string, v session.Vote) {
	if _, err := m.shop.Vote(id, v); err != nil {
		m.status = err.Error()
		return
	}
	if v == session.VoteUp {
		m.status = "Thanks for your feedback! 👍"
	} else {
		m.status = "Thanks for your feedback! 👎"
	}
}

func (m *Model) toggleTheme() {
	m.theme = m.shop.Store().ToggleTheme()
	m.styles = NewStyles(m.theme)
	m.rebuildTable()
}

func (m *Model) highlighted() (shop.ScoredProduct, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.products) {
		return shop.ScoredProduct{}, false
	}
	return m.products[i], true
}

func (m *Model) applyFilter(q string) {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		m.products = m.all
	} else {
		m.products = nil
		for _, p := range m.all {
			hay := strings.ToLower(p.Name + " " + p.Brand + " " + p.Category)
			if strings.Contains(hay, q) {
				m.products = append(m.products, p)
			}
		}
	}
	m.rebuildTable()
}

func (m *Model) rebuildTable() {
	height := defaultTableHeight
	if m.height > chromeHeight {
		height = m.height - chromeHeight
	}
	cursor := m.table.Cursor()
	m.table = newProductTable(m.products, height, m.styles)
	if cursor >= 0 && cursor < len(m.products) {
		m.table.SetCursor(cursor)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.state == ViewStateQuitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("🌱 EcoShopper"))
	b.WriteString("\n\n")

	switch m.state {
	case ViewStateDanger:
		b.WriteString(RenderDanger(m.styles, m.current, m.width))
	case ViewStateDetail:
		b.WriteString(RenderDetail(m.styles, m.current, m.width))
	default:
		b.WriteString(m.table.View())
		if m.showFilter || m.filter.Value() != "" {
			b.WriteString("\n")
			b.WriteString(m.filter.View())
		}
	}

	b.WriteString("\n\n")
	stats := m.shop.Store().Stats()
	b.WriteString(RenderFooter(m.styles, m.shop.Cart(), stats.GreenPoints, stats.Badge))
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Status.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(RenderHelp(m.styles, m.state))
	return b.String()
}
