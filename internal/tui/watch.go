// Package tui muestra las gestaciones activas de un owner en la terminal y
// las recalcula a medianoche o al volver el foco a la ventana.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"estancia-digital/internal/refresh"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).Padding(0, 1)
	overdueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F5F"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD787"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444444"))
)

type snapshotMsg refresh.Snapshot

// midnightMsg llega por tea.Tick en la próxima medianoche local.
type midnightMsg time.Time

type Model struct {
	ctx   context.Context
	sched *refresh.Scheduler

	table table.Model
	snap  refresh.Snapshot

	// blurred: la terminal perdió el foco; el próximo FocusMsg refresca.
	blurred bool
	loading bool

	now func() time.Time
}

func New(ctx context.Context, sched *refresh.Scheduler) *Model {
	t := table.New(
		table.WithColumns(columns()),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	st.Selected = st.Selected.Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#5F5FAF"))
	t.SetStyles(st)

	return &Model{
		ctx:     ctx,
		sched:   sched,
		table:   t,
		loading: true,
		now:     time.Now,
	}
}

func columns() []table.Column {
	return []table.Column{
		{Title: "Arete", Width: 10},
		{Title: "Nombre", Width: 14},
		{Title: "Día", Width: 5},
		{Title: "Trim.", Width: 5},
		{Title: "Parto probable", Width: 14},
		{Title: "Faltan", Width: 7},
		{Title: "Estado", Width: 10},
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(refresh.ReasonStart), m.scheduleMidnight())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.loading = false
		m.snap = refresh.Snapshot(msg)
		if m.snap.Err == nil {
			m.table.SetRows(rows(m.snap))
		}
		return m, nil

	case midnightMsg:
		return m, tea.Batch(m.refresh(refresh.ReasonMidnight), m.scheduleMidnight())

	case tea.BlurMsg:
		m.blurred = true
		return m, nil

	case tea.FocusMsg:
		if !m.blurred {
			return m, nil
		}
		m.blurred = false
		return m, m.refresh(refresh.ReasonVisible)

	case tea.WindowSizeMsg:
		if h := msg.Height - 8; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, m.refresh(refresh.ReasonManual)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Gestaciones activas"))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(hintStyle.Render("cargando..."))
	case m.snap.Err != nil:
		b.WriteString(errStyle.Render("error: " + m.snap.Err.Error()))
	default:
		b.WriteString(boxStyle.Render(m.table.View()))
		b.WriteString("\n")
		b.WriteString(summary(m.snap))
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("r refrescar · q salir"))
	return b.String()
}

func (m *Model) refresh(reason refresh.Reason) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(m.sched.Refresh(m.ctx, reason))
	}
}

func (m *Model) scheduleMidnight() tea.Cmd {
	now := m.now()
	wait := refresh.NextBoundary(now, m.sched.Location()).Sub(now)
	return tea.Tick(wait, func(t time.Time) tea.Msg {
		return midnightMsg(t)
	})
}

func rows(s refresh.Snapshot) []table.Row {
	out := make([]table.Row, 0, len(s.Views))
	for _, v := range s.Views {
		status := "en curso"
		if v.Stage.Overdue {
			status = "ATRASADA"
		}
		out = append(out, table.Row{
			v.AnimalTag,
			v.AnimalName,
			strconv.Itoa(v.Stage.CurrentDay),
			strconv.Itoa(v.Stage.Trimester),
			v.Stage.DueDate.Format("2006-01-02"),
			strconv.Itoa(v.Stage.RemainingDays),
			status,
		})
	}
	return out
}

func summary(s refresh.Snapshot) string {
	line := fmt.Sprintf("%d activas · calculado %s", len(s.Views), s.ComputedAt.Format("2006-01-02 15:04"))
	if s.Overdue > 0 {
		return line + " · " + overdueStyle.Render(fmt.Sprintf("%d atrasadas", s.Overdue))
	}
	return line + " · " + okStyle.Render("sin atrasos")
}
