// Package tui is the terminal front end of the console.
package tui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/jroimartin/gocui"

	"shopcartConsole/internal/console/actions"
	"shopcartConsole/internal/console/form"
	"shopcartConsole/internal/console/render"
)

const fieldWidth = 36

var fieldTitles = map[form.Field]string{
	form.ProductID:    "Product ID",
	form.Name:         "Name",
	form.UserID:       "User ID",
	form.Quantity:     "Quantity",
	form.Price:        "Price",
	form.Time:         "Time",
	form.MaxPrice:     "Max Price",
	form.MinPrice:     "Min Price",
	form.CatalogPrice: "Catalog Price (true/false)",
}

type App struct {
	g     *gocui.Gui
	ctrl  *actions.Controller
	ctx   context.Context
	focus int
}

func NewApp(ctrl *actions.Controller) *App {
	return &App{ctrl: ctrl}
}

// Run blocks until the operator quits with Ctrl+C or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return err
	}
	defer g.Close()
	a.g = g
	a.ctx = ctx

	g.Cursor = true
	g.SetManagerFunc(a.layout)

	if err := a.bindKeys(); err != nil {
		return err
	}

	a.ctrl.OnRender(func(s render.Snapshot) {
		g.Update(func(*gocui.Gui) error {
			return a.draw(s)
		})
	})
	go func() {
		<-ctx.Done()
		g.Update(func(*gocui.Gui) error { return gocui.ErrQuit })
	}()

	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

func (a *App) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	if v, err := g.SetView("header", 0, 0, maxX-1, 2); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = false
		fmt.Fprintln(v, "Shopcart Admin Console  -  Tab/Enter: next field, Ctrl+C: quit")
	}

	for i, f := range form.Fields {
		y0 := 2 + i*3
		if v, err := g.SetView(string(f), 0, y0, fieldWidth, y0+2); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
			v.Title = fieldTitles[f]
			v.Editable = true
			v.Editor = gocui.DefaultEditor
		}
	}

	if v, err := g.SetView("status", fieldWidth+1, 2, maxX-1, 4); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Status"
	}
	if v, err := g.SetView("results", fieldWidth+1, 5, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Results"
		v.Wrap = false
	}
	if v, err := g.SetView("help", 0, maxY-4, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Actions"
		v.Wrap = true
		fmt.Fprint(v, helpText())
	}

	if g.CurrentView() == nil {
		if _, err := g.SetCurrentView(string(form.Fields[a.focus])); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) bindKeys() error {
	g := a.g
	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, a.quit); err != nil {
		return err
	}
	if err := g.SetKeybinding("", gocui.KeyTab, gocui.ModNone, a.moveFocus(1)); err != nil {
		return err
	}
	if err := g.SetKeybinding("", gocui.KeyArrowDown, gocui.ModNone, a.moveFocus(1)); err != nil {
		return err
	}
	if err := g.SetKeybinding("", gocui.KeyArrowUp, gocui.ModNone, a.moveFocus(-1)); err != nil {
		return err
	}
	for _, f := range form.Fields {
		if err := g.SetKeybinding(string(f), gocui.KeyEnter, gocui.ModNone, a.moveFocus(1)); err != nil {
			return err
		}
	}
	for _, b := range actions.Buttons {
		if err := g.SetKeybinding("", ctrlKey(b.Key), gocui.ModNone, a.trigger(b.Name)); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) quit(*gocui.Gui, *gocui.View) error { return gocui.ErrQuit }

func (a *App) moveFocus(delta int) func(*gocui.Gui, *gocui.View) error {
	return func(g *gocui.Gui, v *gocui.View) error {
		n := len(form.Fields)
		a.focus = ((a.focus+delta)%n + n) % n
		_, err := g.SetCurrentView(string(form.Fields[a.focus]))
		return err
	}
}

// trigger copies the field views into the form and starts the action. The
// outcome is drawn by the render hook whenever it arrives.
func (a *App) trigger(name actions.Name) func(*gocui.Gui, *gocui.View) error {
	return func(g *gocui.Gui, v *gocui.View) error {
		raw := make(map[string]string, len(form.Fields))
		for _, f := range form.Fields {
			fv, err := g.View(string(f))
			if err != nil {
				return err
			}
			raw[string(f)] = viewText(fv)
		}
		if _, err := a.ctrl.TriggerWith(a.ctx, name, raw); err != nil {
			return a.setStatus(err.Error())
		}
		return nil
	}
}

func (a *App) draw(s render.Snapshot) error {
	for _, f := range form.Fields {
		v, err := a.g.View(string(f))
		if err != nil {
			return err
		}
		v.Clear()
		fmt.Fprint(v, s.Fields[string(f)])
		v.SetCursor(len(s.Fields[string(f)]), 0)
	}
	if err := a.setStatus(s.Status); err != nil {
		return err
	}
	v, err := a.g.View("results")
	if err != nil {
		return err
	}
	v.Clear()
	fmt.Fprint(v, resultsText(s))
	return nil
}

func (a *App) setStatus(msg string) error {
	v, err := a.g.View("status")
	if err != nil {
		return err
	}
	v.Clear()
	fmt.Fprint(v, msg)
	return nil
}

func ctrlKey(r rune) gocui.Key {
	return gocui.KeyCtrlA + gocui.Key(r-'a')
}

func helpText() string {
	parts := make([]string, 0, len(actions.Buttons))
	for _, b := range actions.Buttons {
		parts = append(parts, fmt.Sprintf("Ctrl+%c %s", b.Key-'a'+'A', b.Label))
	}
	return strings.Join(parts, "  |  ")
}

// resultsText renders the results region the way the web page does: a table,
// or the empty-state message instead of one.
func resultsText(s render.Snapshot) string {
	if s.Table == nil {
		return s.Empty
	}
	var buf bytes.Buffer
	if err := s.Table.WriteText(&buf); err != nil {
		return err.Error()
	}
	return buf.String()
}

func viewText(v *gocui.View) string {
	return strings.TrimSpace(v.Buffer())
}
