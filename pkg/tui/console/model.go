package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/casierfr/console/pkg/api"
	"github.com/casierfr/console/pkg/app"
	"github.com/casierfr/console/pkg/refresh"
	"github.com/casierfr/console/pkg/view"
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeForm
)

// filterCycle is the order the f key walks the status groups.
var filterCycle = []view.Group{
	view.GroupAll, view.GroupProgress, view.GroupStock,
	view.GroupDelivered, view.GroupMarketing,
}

// orderItem is one row of the orders list.
type orderItem struct{ row api.Record }

func (it orderItem) Title() string {
	return fmt.Sprintf("%-6s %-28s %-24s %s",
		it.row.Get("N"),
		statusStyle(it.row.Get("STATUT")).Render(it.row.Get("STATUT")),
		it.row.Get("NOM_CLIENT"),
		it.row.Get("DATE_PLANNING"))
}
func (it orderItem) Description() string { return "" }
func (it orderItem) FilterValue() string {
	return it.row.Get("NOM_CLIENT") + " " + it.row.Get("N_CLIENT")
}

// clientItem is one row of the clients list.
type clientItem struct{ row api.Record }

func (it clientItem) Title() string {
	return fmt.Sprintf("%-8s %-30s %s",
		it.row.Get("N_CLIENT"), it.row.Get("NOM_CLIENT"), it.row.Get("CONTACT"))
}
func (it clientItem) Description() string { return "" }
func (it clientItem) FilterValue() string { return it.row.Get("NOM_CLIENT") }

// messages
type errMsg struct{ err error }
type ordersRefreshedMsg struct{}
type clientsRefreshedMsg struct{}
type dashboardLoadedMsg struct{ dashboard *app.Dashboard }
type orderOpenedMsg struct {
	id     string
	values map[string]string
}
type orderSavedMsg struct{ outcome *app.SaveOutcome }

// Model contains the console UI state.
type Model struct {
	svc   *app.Service
	ctx   context.Context
	state *viewState
	log   *zap.Logger

	updates <-chan tea.Msg

	mode mode

	orderList  list.Model
	clientList list.Model
	search     textinput.Model

	dashboard  *app.Dashboard
	form       *orderForm
	status     string

	termWidth  int
	termHeight int
}

// New creates the console model.
func New(svc *app.Service, state *viewState, updates <-chan tea.Msg, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}

	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	d.SetSpacing(0)

	ol := list.New([]list.Item{}, d, 100, 20)
	ol.Title = "Commandes"
	ol.SetShowHelp(false)
	ol.SetShowStatusBar(false)
	ol.SetFilteringEnabled(false)

	cl := list.New([]list.Item{}, d, 100, 20)
	cl.Title = "Clients"
	cl.SetShowHelp(false)
	cl.SetShowStatusBar(false)
	cl.SetFilteringEnabled(false)

	ti := textinput.New()
	ti.Placeholder = "rechercher"
	ti.CharLimit = 64
	ti.Prompt = "/"

	return Model{
		svc:        svc,
		ctx:        context.Background(),
		state:      state,
		log:        log,
		updates:    updates,
		orderList:  ol,
		clientList: cl,
		search:     ti,
		status:     "1 tableau de bord, 2 commandes, 3 clients, f filtre, / recherche, entrée ouvrir, n nouveau, q quitter",
	}
}

// Init loads the first screen.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadDashboard(), m.loadOrders(), m.waitForUpdate())
}

// waitForUpdate forwards the next background refresh into the program.
func (m Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.updates
		if !ok {
			return nil
		}
		return msg
	}
}

func (m Model) loadDashboard() tea.Cmd {
	return func() tea.Msg {
		d, err := m.svc.LoadDashboard(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		return dashboardLoadedMsg{dashboard: d}
	}
}

func (m Model) loadOrders() tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.LoadOrders(m.ctx); err != nil {
			return errMsg{err}
		}
		return ordersRefreshedMsg{}
	}
}

func (m Model) loadClients() tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.LoadClients(m.ctx, ""); err != nil {
			return errMsg{err}
		}
		return clientsRefreshedMsg{}
	}
}

func (m Model) openOrder(id string) tea.Cmd {
	return func() tea.Msg {
		values, err := m.svc.OpenOrder(m.ctx, id)
		if err != nil {
			return errMsg{err}
		}
		return orderOpenedMsg{id: id, values: values}
	}
}

func (m *Model) syncOrderItems() {
	rows := m.svc.FilteredOrders()
	items := make([]list.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, orderItem{row: r})
	}
	m.orderList.SetItems(items)
	f := m.svc.Filter()
	m.orderList.Title = "Commandes [" + groupLabel(f.Group) + "]"
	if f.Query != "" {
		m.orderList.Title += " /" + f.Query
	}
}

func (m *Model) syncClientItems() {
	rows := m.svc.ClientRows()
	items := make([]list.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, clientItem{row: r})
	}
	m.clientList.SetItems(items)
}

func (m *Model) selectedOrder() (api.Record, bool) {
	sel := m.orderList.SelectedItem()
	if sel == nil {
		return nil, false
	}
	it, ok := sel.(orderItem)
	if !ok {
		return nil, false
	}
	return it.row, true
}

// Update handles messages and keybindings.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.applySizes()

	case errMsg:
		m.status = "ERR: " + msg.err.Error()
		cmds = append(cmds, m.waitForUpdate())

	case dashboardLoadedMsg:
		m.dashboard = msg.dashboard
		cmds = append(cmds, m.waitForUpdate())

	case ordersRefreshedMsg:
		m.syncOrderItems()
		cmds = append(cmds, m.waitForUpdate())

	case clientsRefreshedMsg:
		m.syncClientItems()
		cmds = append(cmds, m.waitForUpdate())

	case orderOpenedMsg:
		f, cmd := newOrderForm(m.svc, msg.id, msg.values, m.log)
		m.form = f
		m.mode = modeForm
		cmds = append(cmds, cmd)

	case formHydratedMsg:
		if m.form != nil {
			m.form.applyHydration(msg)
		}

	case orderSavedMsg:
		m.form = nil
		m.mode = modeNormal
		if msg.outcome.Saved {
			m.status = "Enregistré: commande " + msg.outcome.N
		} else {
			m.status = "Aucune modification"
		}
		m.syncOrderItems()
		cmds = append(cmds, m.loadOrders())

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch m.mode {
	case modeForm:
		if m.form == nil {
			m.mode = modeNormal
			return m, nil
		}
		done, cmd := m.form.handleKey(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if done {
			m.form = nil
			m.mode = modeNormal
			m.status = "Fermé sans enregistrer"
		}
		return m, tea.Batch(cmds...)

	case modeSearch:
		switch msg.String() {
		case "enter":
			f := m.svc.Filter()
			f.Query = strings.TrimSpace(m.search.Value())
			m.svc.SetFilter(f)
			m.mode = modeNormal
			m.search.Blur()
			m.syncOrderItems()
		case "esc":
			m.mode = modeNormal
			m.search.Reset()
			m.search.Blur()
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "1":
		m.state.set(refresh.Dashboard)
		cmds = append(cmds, m.loadDashboard())
	case "2":
		m.state.set(refresh.Orders)
		m.syncOrderItems()
	case "3":
		m.state.set(refresh.Clients)
		cmds = append(cmds, m.loadClients())

	case "f":
		f := m.svc.Filter()
		cur := f.Group
		if cur == "" {
			cur = view.GroupAll
		}
		next := 0
		for i, g := range filterCycle {
			if g == cur {
				next = (i + 1) % len(filterCycle)
				break
			}
		}
		f.Group = filterCycle[next]
		m.svc.SetFilter(f)
		m.syncOrderItems()

	case "/":
		if m.state.get() == refresh.Orders {
			m.mode = modeSearch
			m.search.SetValue(m.svc.Filter().Query)
			m.search.CursorEnd()
			if cmd := m.search.Focus(); cmd != nil {
				cmds = append(cmds, cmd)
			}
			cmds = append(cmds, textinput.Blink)
		}

	case "enter":
		if m.state.get() == refresh.Orders {
			if row, ok := m.selectedOrder(); ok {
				cmds = append(cmds, m.openOrder(row.ID()))
			}
		}

	case "n":
		if m.state.get() == refresh.Orders {
			cmds = append(cmds, m.openOrder(""))
		}

	case "r":
		switch m.state.get() {
		case refresh.Dashboard:
			cmds = append(cmds, m.loadDashboard())
		case refresh.Orders:
			cmds = append(cmds, m.loadOrders())
		case refresh.Clients:
			cmds = append(cmds, m.loadClients())
		}

	default:
		var cmd tea.Cmd
		switch m.state.get() {
		case refresh.Orders:
			m.orderList, cmd = m.orderList.Update(msg)
		case refresh.Clients:
			m.clientList, cmd = m.clientList.Update(msg)
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the active screen with optional overlays.
func (m Model) View() string {
	var body string
	switch m.state.get() {
	case refresh.Orders:
		body = m.orderList.View()
	case refresh.Clients:
		body = m.clientList.View()
	default:
		body = m.dashboardView()
	}

	if m.mode == modeSearch {
		body += "\n\n" + m.search.View()
	}
	if m.mode == modeForm && m.form != nil {
		body = m.form.View()
	}

	status := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(m.status)
	return body + "\n\n" + status
}

func (m *Model) applySizes() {
	if m.termWidth == 0 || m.termHeight == 0 {
		return
	}
	height := m.termHeight - 4
	if height < 5 {
		height = 5
	}
	m.orderList.SetSize(m.termWidth-2, height)
	m.clientList.SetSize(m.termWidth-2, height)
}

func groupLabel(g view.Group) string {
	switch g {
	case view.GroupProgress:
		return "en cours"
	case view.GroupStock:
		return "en stock"
	case view.GroupDelivered:
		return "livrées"
	case view.GroupMarketing:
		return "marketing"
	default:
		return "toutes"
	}
}

func statusStyle(status string) lipgloss.Style {
	s := lipgloss.NewStyle()
	switch view.BadgeFor(status) {
	case view.BadgeYellow:
		return s.Foreground(lipgloss.Color("220"))
	case view.BadgeBlue:
		return s.Foreground(lipgloss.Color("39"))
	case view.BadgeGreen:
		return s.Foreground(lipgloss.Color("42"))
	case view.BadgeRed:
		return s.Foreground(lipgloss.Color("196"))
	default:
		return s.Foreground(lipgloss.Color("245"))
	}
}
