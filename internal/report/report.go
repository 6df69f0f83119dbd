// Package report renders an enriched catalog for terminals: a static table
// with per-class counts, and an interactive browser.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/couchcryptid/orbit-catalog-etl/internal/domain"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

	classColors = map[domain.OrbitClass]lipgloss.Color{
		domain.OrbitLEO:     lipgloss.Color("42"),
		domain.OrbitMEO:     lipgloss.Color("39"),
		domain.OrbitGEO:     lipgloss.Color("214"),
		domain.OrbitHEO:     lipgloss.Color("171"),
		domain.OrbitUnknown: lipgloss.Color("243"),
	}
)

// Summary counts a catalog by orbit class and altitude source.
type Summary struct {
	Total    int
	ByClass  map[domain.OrbitClass]int
	BySource map[domain.AltitudeSource]int
}

// Summarize counts records.
func Summarize(records []domain.ParsedElement) Summary {
	s := Summary{
		Total:    len(records),
		ByClass:  make(map[domain.OrbitClass]int, len(domain.OrbitClasses)),
		BySource: make(map[domain.AltitudeSource]int, 3),
	}
	for i := range records {
		s.ByClass[records[i].OrbitClass]++
		s.BySource[records[i].AltitudeSource]++
	}
	return s
}

// RenderTable renders up to limit records as a bordered table. A limit of
// zero or less renders every record.
func RenderTable(records []domain.ParsedElement, limit int) string {
	shown := records
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	rows := make([][]string, len(shown))
	for i := range shown {
		el := &shown[i]
		rows[i] = []string{
			el.Name,
			catalogNumber(el.CatalogNumber),
			FormatAltitude(el.ApproxAltitudeKm),
			string(el.AltitudeSource),
			string(el.OrbitClass),
			string(el.Type),
			formatEpoch(el),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers("NAME", "NORAD", "ALT KM", "SOURCE", "CLASS", "TYPE", "EPOCH").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 4 && row >= 0 && row < len(shown) {
				return cellStyle.Foreground(classColors[shown[row].OrbitClass])
			}
			return cellStyle
		})

	out := t.Render()
	if hidden := len(records) - len(shown); hidden > 0 {
		out += "\n" + mutedStyle.Render(fmt.Sprintf("… %d more", hidden))
	}
	return out
}

// RenderSummary renders the per-class and per-source counts.
func RenderSummary(s Summary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d objects", s.Total)))
	b.WriteString("\n")
	for _, c := range domain.OrbitClasses {
		label := lipgloss.NewStyle().Foreground(classColors[c]).Width(8).Render(string(c))
		fmt.Fprintf(&b, "  %s %6d\n", label, s.ByClass[c])
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  altitude: sgp4 %d · mean motion %d · none %d",
		s.BySource[domain.AltitudeSGP4], s.BySource[domain.AltitudeMeanMotion], s.BySource[domain.AltitudeNone])))
	return b.String()
}

// FormatAltitude renders an altitude with one decimal, or "-" when absent.
func FormatAltitude(alt *float64) string {
	if alt == nil {
		return "-"
	}
	return strconv.FormatFloat(*alt, 'f', 1, 64)
}

func catalogNumber(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}

func formatEpoch(el *domain.ParsedElement) string {
	if el.Epoch == nil {
		return "-"
	}
	return el.Epoch.Format("2006-01-02 15:04")
}
