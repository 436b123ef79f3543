// Package render turns action outcomes into form updates, a status message
// and a results table.
package render

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"shopcartConsole/internal/console/form"
	"shopcartConsole/internal/models"
)

const SuccessMessage = "Success"

// Column binds a table header to the item field it shows.
type Column struct {
	Field form.Field
	Label string
}

var Columns = []Column{
	{form.ProductID, "Product ID"},
	{form.Name, "Name"},
	{form.UserID, "User ID"},
	{form.Quantity, "Quantity"},
	{form.Price, "Price"},
	{form.Time, "Time"},
}

type Row struct {
	ID    string   `json:"id"`
	Cells []string `json:"cells"`
}

type Table struct {
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// NewTable builds one row per item in order, tagged row_0..row_{n-1}.
func NewTable(items []models.Item) *Table {
	t := &Table{Headers: make([]string, 0, len(Columns)), Rows: make([]Row, 0, len(items))}
	for _, c := range Columns {
		t.Headers = append(t.Headers, c.Label)
	}
	for i, it := range items {
		t.Rows = append(t.Rows, Row{
			ID:    fmt.Sprintf("row_%d", i),
			Cells: []string{it.ProductID, it.Name, it.UserID, it.QuantityText(), it.PriceText(), it.Time},
		})
	}
	return t
}

// WriteText prints the table as aligned plain text.
func (t *Table) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	for _, r := range t.Rows {
		fmt.Fprintln(tw, strings.Join(r.Cells, "\t"))
	}
	return tw.Flush()
}

// View holds the status area and the results region.
type View struct {
	mu     sync.RWMutex
	status string
	table  *Table
	empty  string
}

func NewView() *View {
	return &View{}
}

// Snapshot is a copy of everything a front end draws.
type Snapshot struct {
	Status string            `json:"status"`
	Fields map[string]string `json:"fields"`
	Table  *Table            `json:"table,omitempty"`
	Empty  string            `json:"empty,omitempty"`
}

// Renderer applies outcomes to a form and a view.
type Renderer struct {
	binder *form.Binder
	view   *View
}

func NewRenderer(binder *form.Binder, view *View) *Renderer {
	return &Renderer{binder: binder, view: view}
}

// Flash replaces the status message.
func (r *Renderer) Flash(message string) {
	r.view.mu.Lock()
	r.view.status = message
	r.view.mu.Unlock()
}

// Single populates the form from one resource.
func (r *Renderer) Single(item models.Item) {
	r.binder.Populate(item)
	r.Flash(SuccessMessage)
}

// Collection replaces the results region. An empty sequence shows
// emptyMessage and no table; otherwise the first item is copied into the form.
func (r *Renderer) Collection(items []models.Item, emptyMessage string) {
	r.view.mu.Lock()
	r.view.table = nil
	r.view.empty = ""
	if len(items) == 0 {
		r.view.empty = emptyMessage
	} else {
		r.view.table = NewTable(items)
	}
	r.view.mu.Unlock()

	if len(items) > 0 {
		r.binder.Populate(items[0])
	}
	r.Flash(SuccessMessage)
}

// Failure reports message and clears the form when clearForm is set.
func (r *Renderer) Failure(message string, clearForm bool) {
	if clearForm {
		r.binder.Clear()
	}
	r.Flash(message)
}

// Cleared empties the form and reports message.
func (r *Renderer) Cleared(message string) {
	r.binder.Clear()
	r.Flash(message)
}

// Reset empties the form and the status area.
func (r *Renderer) Reset() {
	r.binder.Clear()
	r.Flash("")
}

func (r *Renderer) Snapshot() Snapshot {
	r.view.mu.RLock()
	defer r.view.mu.RUnlock()
	s := Snapshot{
		Status: r.view.status,
		Fields: r.binder.Read().Map(),
		Empty:  r.view.empty,
	}
	if r.view.table != nil {
		t := *r.view.table
		s.Table = &t
	}
	return s
}
