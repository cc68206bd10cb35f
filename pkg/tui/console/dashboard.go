package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"github.com/casierfr/console/pkg/api"
	"github.com/casierfr/console/pkg/money"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			Margin(0, 1)
	cardTitleStyle = lipgloss.NewStyle().Faint(true)
	cardValueStyle = lipgloss.NewStyle().Bold(true)
)

func (m Model) dashboardView() string {
	if m.dashboard == nil || m.dashboard.Stats == nil {
		return "Chargement du tableau de bord…"
	}
	s := m.dashboard.Stats

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("En cours", fmt.Sprintf("%d", s.EnCours)),
		card("En stock", fmt.Sprintf("%d", s.EnStock)),
		card("Livrées", fmt.Sprintf("%d", s.Livrees)),
		card("CA du mois", money.FormatEUR(s.CAMois)),
	)

	body := lipgloss.NewStyle().Bold(true).Underline(true).Render("Tableau de bord") +
		"\n\n" + cards
	if spark := sparkline(m.dashboard.Evolution); spark != "" {
		body += "\n\n" + cardTitleStyle.Render("Modules vendus") + "\n" + spark
	}
	return body
}

func card(title, value string) string {
	inner := cardTitleStyle.Render(title) + "\n" + cardValueStyle.Render(value)
	return cardStyle.Render(inner)
}

// sparkline renders the monthly modules series as a one-line bar chart.
func sparkline(points []api.EvolutionPoint) string {
	if len(points) == 0 {
		return ""
	}
	levels := []rune("▁▂▃▄▅▆▇█")
	max := 0.0
	for _, p := range points {
		if p.Modules > max {
			max = p.Modules
		}
	}
	if max <= 0 {
		return ""
	}

	var bars, labels strings.Builder
	for _, p := range points {
		idx := int(p.Modules / max * float64(len(levels)-1))
		if idx < 0 {
			idx = 0
		}
		bars.WriteRune(levels[idx])
		bars.WriteRune(' ')
		name := p.Name()
		if len(name) > 3 {
			name = name[:3]
		}
		labels.WriteString(name)
		labels.WriteRune(' ')
	}
	return bars.String() + "\n" + cardTitleStyle.Render(labels.String())
}
