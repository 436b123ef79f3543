package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"shopcartConsole/internal/console/actions"
	"shopcartConsole/internal/console/form"
	"shopcartConsole/internal/console/render"
)

// ControllerFactory builds a controller for one request.
type ControllerFactory func(state form.State) (*actions.Controller, error)

type ConsoleHandler struct {
	Controllers ControllerFactory
	Pages       *Pages
}

type fieldView struct {
	Name     string
	Label    string
	Value    string
	Checkbox bool
}

type pageData struct {
	Operator string
	Fields   []fieldView
	Buttons  []actions.Button
	Snapshot render.Snapshot
}

var fieldLabels = map[form.Field]string{
	form.ProductID:    "Product ID",
	form.Name:         "Name",
	form.UserID:       "User ID",
	form.Quantity:     "Quantity",
	form.Price:        "Price",
	form.Time:         "Time",
	form.MaxPrice:     "Max Price",
	form.MinPrice:     "Min Price",
	form.CatalogPrice: "Catalog Price",
}

func (h *ConsoleHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	ctrl, err := h.Controllers(form.NewFormState())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.renderPage(w, r, http.StatusOK, ctrl.Snapshot())
}

// RunAction runs one action against the posted form and renders the result.
// Nothing is kept between requests.
func (h *ConsoleHandler) RunAction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	raw := make(map[string]string, len(form.Fields))
	for _, f := range form.Fields {
		raw[string(f)] = r.PostForm.Get(string(f))
	}

	ctrl, status := h.run(w, r, raw)
	if ctrl == nil {
		return
	}
	h.renderPage(w, r, status, ctrl.Snapshot())
}

// RunActionJSON is RunAction for scripts: the body is a JSON object of form
// fields and the response is the rendered snapshot.
func (h *ConsoleHandler) RunActionJSON(w http.ResponseWriter, r *http.Request) {
	raw := map[string]string{}
	if r.ContentLength != 0 {
		var err error
		if raw, err = decodeFields(r.Body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	ctrl, status := h.run(w, r, raw)
	if ctrl == nil {
		return
	}
	writeJSON(w, status, ctrl.Snapshot())
}

// decodeFields reads a JSON object of form fields. Numbers keep their literal
// text, true becomes "true" and false or null leave the field empty.
func decodeFields(body io.Reader) (map[string]string, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()
	var fields map[string]interface{}
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}

	raw := make(map[string]string, len(fields))
	for k, v := range fields {
		switch v := v.(type) {
		case string:
			raw[k] = v
		case json.Number:
			raw[k] = v.String()
		case bool:
			if v {
				raw[k] = "true"
			} else {
				raw[k] = ""
			}
		case nil:
			raw[k] = ""
		default:
			return nil, fmt.Errorf("field %q must be a string, number or boolean", k)
		}
	}
	return raw, nil
}

func (h *ConsoleHandler) run(w http.ResponseWriter, r *http.Request, raw map[string]string) (*actions.Controller, int) {
	ctrl, err := h.Controllers(form.NewFormStateFrom(raw))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, 0
	}

	name := actions.Name(r.URL.Query().Get(":action"))
	if !ctrl.Known(name) {
		http.Error(w, "Unknown action", http.StatusNotFound)
		return nil, 0
	}
	if err := ctrl.Run(r.Context(), name); err != nil {
		http.Error(w, err.Error(), http.StatusGatewayTimeout)
		return nil, 0
	}
	return ctrl, http.StatusOK
}

func (h *ConsoleHandler) renderPage(w http.ResponseWriter, r *http.Request, status int, snap render.Snapshot) {
	data := pageData{
		Operator: OperatorFrom(r.Context()),
		Buttons:  actions.Buttons,
		Snapshot: snap,
	}
	for _, f := range form.Fields {
		data.Fields = append(data.Fields, fieldView{
			Name:     string(f),
			Label:    fieldLabels[f],
			Value:    snap.Fields[string(f)],
			Checkbox: f == form.CatalogPrice,
		})
	}
	if err := h.Pages.Render(w, status, "page", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
