package tui

import (
	"strings"
	"testing"

	"github.com/jroimartin/gocui"

	"shopcartConsole/internal/console/actions"
	"shopcartConsole/internal/console/render"
	"shopcartConsole/internal/models"
)

func TestCtrlKeysAreDistinct(t *testing.T) {
	if ctrlKey('a') != gocui.KeyCtrlA || ctrlKey('x') != gocui.KeyCtrlX {
		t.Fatal("unexpected key mapping")
	}
	reserved := map[gocui.Key]bool{gocui.KeyCtrlC: true, gocui.KeyTab: true, gocui.KeyEnter: true, gocui.KeyBackspace: true}
	seen := map[gocui.Key]actions.Name{}
	for _, b := range actions.Buttons {
		k := ctrlKey(b.Key)
		if reserved[k] {
			t.Errorf("%s uses reserved key %c", b.Name, b.Key)
		}
		if other, ok := seen[k]; ok {
			t.Errorf("%s and %s share Ctrl+%c", b.Name, other, b.Key)
		}
		seen[k] = b.Name
	}
}

func TestHelpTextListsEveryAction(t *testing.T) {
	help := helpText()
	for _, b := range actions.Buttons {
		if !strings.Contains(help, b.Label) {
			t.Errorf("help missing %s", b.Label)
		}
	}
	if !strings.Contains(help, "Ctrl+R Retrieve Item") {
		t.Errorf("unexpected help %q", help)
	}
}

func TestResultsText(t *testing.T) {
	if got := resultsText(render.Snapshot{Empty: "No results found"}); got != "No results found" {
		t.Fatalf("unexpected %q", got)
	}
	snap := render.Snapshot{Table: render.NewTable([]models.Item{{ProductID: "7", Name: "pen"}})}
	got := resultsText(snap)
	if !strings.Contains(got, "Product ID") || !strings.Contains(got, "pen") {
		t.Fatalf("unexpected %q", got)
	}
}
