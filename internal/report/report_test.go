package report

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/orbit-catalog-etl/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func catalog() []domain.ParsedElement {
	epoch := time.Date(2024, 4, 9, 12, 0, 0, 0, time.UTC)
	return []domain.ParsedElement{
		{Name: "ISS (ZARYA)", CatalogNumber: ptr(25544), ApproxAltitudeKm: ptr(420.04), AltitudeSource: domain.AltitudeSGP4, OrbitClass: domain.OrbitLEO, Type: domain.TypeStation, Epoch: &epoch},
		{Name: "GPS BIIR-2  (PRN 13)", CatalogNumber: ptr(24876), ApproxAltitudeKm: ptr(20180.0), AltitudeSource: domain.AltitudeSGP4, OrbitClass: domain.OrbitMEO, Type: domain.TypeNavigation},
		{Name: "INTELSAT 10-02", CatalogNumber: ptr(28884), ApproxAltitudeKm: ptr(35790.0), AltitudeSource: domain.AltitudeMeanMotion, OrbitClass: domain.OrbitGEO, Type: domain.TypeComms},
		{Name: "BROKEN DEB", AltitudeSource: domain.AltitudeNone, OrbitClass: domain.OrbitUnknown, Type: domain.TypeUnknown, Propagation: domain.StatusError},
	}
}

type stubProjector struct {
	calls int
	fix   domain.GeodeticFix
}

func (s *stubProjector) Project(_, _ string) domain.GeodeticFix {
	s.calls++
	return s.fix
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, b Browser, keys ...string) Browser {
	t.Helper()
	var m tea.Model = b
	for _, k := range keys {
		m, _ = m.Update(key(k))
	}
	out, ok := m.(Browser)
	require.True(t, ok)
	return out
}

// --- static report ---

func TestSummarize(t *testing.T) {
	s := Summarize(catalog())

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.ByClass[domain.OrbitLEO])
	assert.Equal(t, 1, s.ByClass[domain.OrbitUnknown])
	assert.Equal(t, 0, s.ByClass[domain.OrbitHEO])
	assert.Equal(t, 2, s.BySource[domain.AltitudeSGP4])
	assert.Equal(t, 1, s.BySource[domain.AltitudeNone])
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(catalog(), 0)

	for _, want := range []string{"NAME", "ISS (ZARYA)", "25544", "420.0", "INTELSAT 10-02", "mean_motion", "2024-04-09 12:00"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "more")
}

func TestRenderTable_Limit(t *testing.T) {
	out := RenderTable(catalog(), 2)

	assert.Contains(t, out, "GPS BIIR-2")
	assert.NotContains(t, out, "INTELSAT")
	assert.Contains(t, out, "2 more")
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary(Summarize(catalog()))

	assert.Contains(t, out, "4 objects")
	for _, c := range domain.OrbitClasses {
		assert.Contains(t, out, string(c))
	}
	assert.Contains(t, out, "mean motion 1")
}

func TestFormatAltitude(t *testing.T) {
	assert.Equal(t, "-", FormatAltitude(nil))
	assert.Equal(t, "35786.0", FormatAltitude(ptr(35786.04)))
}

// --- browser ---

func TestBrowser_Navigation(t *testing.T) {
	b := NewBrowser(catalog(), nil)

	el, ok := b.Selected()
	require.True(t, ok)
	assert.Equal(t, "ISS (ZARYA)", el.Name)

	b = press(t, b, "down", "j")
	el, _ = b.Selected()
	assert.Equal(t, "INTELSAT 10-02", el.Name)

	b = press(t, b, "down", "down", "down")
	el, _ = b.Selected()
	assert.Equal(t, "BROKEN DEB", el.Name, "cursor stops at the last row")

	b = press(t, b, "g")
	el, _ = b.Selected()
	assert.Equal(t, "ISS (ZARYA)", el.Name)

	b = press(t, b, "up")
	el, _ = b.Selected()
	assert.Equal(t, "ISS (ZARYA)", el.Name, "cursor stops at the first row")
}

func TestBrowser_ClassFilterCycles(t *testing.T) {
	b := NewBrowser(catalog(), nil)
	assert.Equal(t, domain.OrbitClass(""), b.Filter())

	b = press(t, b, "c")
	assert.Equal(t, domain.OrbitLEO, b.Filter())
	assert.Contains(t, b.View(), "1 of 4 objects")

	b = press(t, b, "c", "c", "c")
	assert.Equal(t, domain.OrbitHEO, b.Filter())
	_, ok := b.Selected()
	assert.False(t, ok)
	assert.Contains(t, b.View(), "no objects")

	b = press(t, b, "c", "c")
	assert.Equal(t, domain.OrbitClass(""), b.Filter())
	assert.Contains(t, b.View(), "4 of 4 objects")
}

func TestBrowser_DetailProjectsSelection(t *testing.T) {
	proj := &stubProjector{fix: domain.GeodeticFix{LatitudeDeg: ptr(51.5), LongitudeDeg: ptr(-0.1), AltitudeKm: ptr(421.3)}}
	b := NewBrowser(catalog(), proj)

	b = press(t, b, "enter")
	view := b.View()
	assert.Contains(t, view, "51.500°, -0.100°, 421.3 km")
	assert.Contains(t, view, "25544")
	assert.Equal(t, 1, proj.calls)

	b = press(t, b, "down")
	assert.Equal(t, 2, proj.calls, "moving with the pane open re-projects")

	b = press(t, b, "enter")
	assert.NotContains(t, b.View(), "At epoch")
}

func TestBrowser_DetailShowsFailures(t *testing.T) {
	b := NewBrowser(catalog(), &stubProjector{})
	b = press(t, b, "G", "enter")

	view := b.View()
	assert.Contains(t, view, "unavailable")
	assert.Contains(t, view, "SGP4")
	assert.Contains(t, view, "error")
}

func TestBrowser_QuitKeys(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		var msg tea.KeyMsg
		if k == "esc" {
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		} else {
			msg = key(k)
		}
		_, cmd := NewBrowser(catalog(), nil).Update(msg)
		require.NotNil(t, cmd, k)
		assert.IsType(t, tea.QuitMsg{}, cmd(), k)
	}
}

func TestBrowser_ScrollsWithWindow(t *testing.T) {
	records := make([]domain.ParsedElement, 50)
	for i := range records {
		records[i] = domain.ParsedElement{Name: "OBJ " + strings.Repeat("X", i%3) + string(rune('A'+i%26)), OrbitClass: domain.OrbitLEO}
	}
	var m tea.Model = NewBrowser(records, nil)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 17})

	b := m.(Browser)
	assert.Equal(t, 5, b.height)
	for range 10 {
		b = press(t, b, "down")
	}
	assert.Equal(t, 10, b.cursor)
	assert.Equal(t, 6, b.offset)
	assert.Equal(t, 5, strings.Count(b.View(), " km\n"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
