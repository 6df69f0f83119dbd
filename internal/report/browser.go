package report

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/couchcryptid/orbit-catalog-etl/internal/domain"
)

// Projector computes the geodetic fix shown in the detail pane.
type Projector interface {
	Project(line1, line2 string) domain.GeodeticFix
}

var (
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
)

const defaultVisibleRows = 20

// Browser is a Bubble Tea model listing catalog records with a detail pane
// for the selected one.
type Browser struct {
	all       []domain.ParsedElement
	visible   []int // indexes into all after the class filter
	filter    int   // 0 = all, otherwise 1 + index into domain.OrbitClasses
	cursor    int
	offset    int
	height    int
	detail    bool
	fix       *domain.GeodeticFix
	projector Projector
}

// NewBrowser creates a Browser over records. projector may be nil, in which
// case the detail pane omits the geodetic fix.
func NewBrowser(records []domain.ParsedElement, projector Projector) Browser {
	b := Browser{all: records, projector: projector, height: defaultVisibleRows}
	b.applyFilter()
	return b
}

// Init implements tea.Model.
func (b Browser) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Title, footer and detail pane.
		b.height = max(msg.Height-12, 3)
		b.scroll()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return b, tea.Quit
		case "up", "k":
			b.move(-1)
		case "down", "j":
			b.move(1)
		case "pgup":
			b.move(-b.height)
		case "pgdown":
			b.move(b.height)
		case "home", "g":
			b.move(-len(b.visible))
		case "end", "G":
			b.move(len(b.visible))
		case "c":
			b.filter = (b.filter + 1) % (len(domain.OrbitClasses) + 1)
			b.applyFilter()
		case "enter", " ":
			b.detail = !b.detail
			b.fix = nil
			if b.detail {
				b.project()
			}
		}
	}
	return b, nil
}

// View implements tea.Model.
func (b Browser) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%d of %d objects · class: %s", len(b.visible), len(b.all), b.filterLabel())))
	sb.WriteString("\n\n")

	if len(b.visible) == 0 {
		sb.WriteString(mutedStyle.Render("  no objects"))
		sb.WriteString("\n")
	}
	end := min(b.offset+b.height, len(b.visible))
	for i := b.offset; i < end; i++ {
		el := &b.all[b.visible[i]]
		line := fmt.Sprintf("%-28s %-8s %10s km", truncate(el.Name, 28), el.OrbitClass, FormatAltitude(el.ApproxAltitudeKm))
		if i == b.cursor {
			sb.WriteString(selectedStyle.Render("> " + line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}

	if b.detail {
		if el, ok := b.Selected(); ok {
			sb.WriteString("\n")
			sb.WriteString(panelStyle.Render(b.renderDetail(el)))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render("↑/↓ move · enter details · c cycle class · q quit"))
	return sb.String()
}

// Selected returns the record under the cursor.
func (b Browser) Selected() (domain.ParsedElement, bool) {
	if len(b.visible) == 0 {
		return domain.ParsedElement{}, false
	}
	return b.all[b.visible[b.cursor]], true
}

// Filter returns the active class filter, or "" when all classes are shown.
func (b Browser) Filter() domain.OrbitClass {
	if b.filter == 0 {
		return ""
	}
	return domain.OrbitClasses[b.filter-1]
}

func (b *Browser) applyFilter() {
	class := b.Filter()
	b.visible = make([]int, 0, len(b.all))
	for i := range b.all {
		if class == "" || b.all[i].OrbitClass == class {
			b.visible = append(b.visible, i)
		}
	}
	b.cursor, b.offset = 0, 0
	b.detail, b.fix = false, nil
}

func (b *Browser) move(delta int) {
	if len(b.visible) == 0 {
		return
	}
	b.cursor = min(max(b.cursor+delta, 0), len(b.visible)-1)
	b.scroll()
	if b.detail {
		b.project()
	}
}

func (b *Browser) scroll() {
	if b.cursor < b.offset {
		b.offset = b.cursor
	}
	if b.cursor >= b.offset+b.height {
		b.offset = b.cursor - b.height + 1
	}
}

func (b *Browser) project() {
	el, ok := b.Selected()
	if !ok || b.projector == nil {
		b.fix = nil
		return
	}
	fix := b.projector.Project(el.Line1, el.Line2)
	b.fix = &fix
}

func (b Browser) filterLabel() string {
	if c := b.Filter(); c != "" {
		return string(c)
	}
	return "all"
}

func (b Browser) renderDetail(el domain.ParsedElement) string {
	rows := [][2]string{
		{"Name", el.Name},
		{"NORAD", catalogNumber(el.CatalogNumber)},
		{"Type", string(el.Type)},
		{"Class", string(el.OrbitClass)},
		{"Altitude", FormatAltitude(el.ApproxAltitudeKm) + " km (" + string(el.AltitudeSource) + ")"},
		{"Epoch", formatEpoch(&el)},
	}
	if el.Propagation != "" && el.Propagation != domain.StatusOK {
		rows = append(rows, [2]string{"SGP4", string(el.Propagation)})
	}
	if b.fix != nil {
		if b.fix.Valid() {
			rows = append(rows, [2]string{"At epoch", fmt.Sprintf("%.3f°, %.3f°, %.1f km",
				*b.fix.LatitudeDeg, *b.fix.LongitudeDeg, *b.fix.AltitudeKm)})
		} else {
			rows = append(rows, [2]string{"At epoch", "unavailable"})
		}
	}

	var sb strings.Builder
	for i, r := range rows {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(mutedStyle.Render(fmt.Sprintf("%-9s", r[0])))
		sb.WriteString(" ")
		sb.WriteString(r[1])
	}
	return sb.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
