package tui

import (
	"strings"
	"testing"

	"stock-assistant/internal/dataset"

	tea "github.com/charmbracelet/bubbletea"
)

func TestMarketsModelCyclesExchanges(t *testing.T) {
	m := NewMarketsModel(testServices())
	m.SetSize(120, 40)

	ex, ok := m.Selected()
	if !ok || ex.Code != "LSE" {
		t.Fatalf("expected LSE selected first, got %+v", ex)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	ex, _ = m.Selected()
	if ex.Code != "NYSE" {
		t.Fatalf("expected NYSE after right, got %s", ex.Code)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	ex, _ = m.Selected()
	if ex.Code != "LSE" {
		t.Fatalf("expected wrap to LSE, got %s", ex.Code)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	ex, _ = m.Selected()
	if ex.Code != "NYSE" {
		t.Fatalf("expected wrap back to NYSE, got %s", ex.Code)
	}
}

func TestMarketsModelViewShowsQuotes(t *testing.T) {
	m := NewMarketsModel(testServices())
	m.SetSize(140, 40)

	view := m.View()
	for _, want := range []string{"London Stock Exchange", "GSK", "$1,530.5", "n/a"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in markets view", want)
		}
	}
}

func TestMarketsModelInvalidDataset(t *testing.T) {
	svc := testServices()
	svc.Catalog = dataset.New(nil)
	m := NewMarketsModel(svc)

	if _, ok := m.Selected(); ok {
		t.Fatal("expected nothing selected")
	}
	if !strings.Contains(m.View(), "Error") {
		t.Fatal("expected error view")
	}
}
