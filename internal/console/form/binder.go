package form

import (
	"strings"

	"shopcartConsole/internal/models"

	"github.com/shopspring/decimal"
)

// Binder maps resources onto a State and back.
type Binder struct {
	state State
}

func NewBinder(state State) *Binder {
	return &Binder{state: state}
}

// Populate writes the resource fields of item. Absent values become "".
func (b *Binder) Populate(item models.Item) {
	b.state.Set(ProductID, item.ProductID)
	b.state.Set(Name, item.Name)
	b.state.Set(UserID, item.UserID)
	b.state.Set(Quantity, item.QuantityText())
	b.state.Set(Price, item.PriceText())
	b.state.Set(Time, item.Time)
}

// Clear empties every bound control. The status area is not a control.
func (b *Binder) Clear() {
	for _, f := range Fields {
		b.state.Set(f, "")
	}
}

// Apply writes raw control values keyed by logical name. Unknown keys are ignored.
func (b *Binder) Apply(raw map[string]string) {
	for _, f := range Fields {
		if v, ok := raw[string(f)]; ok {
			b.state.Set(f, v)
		}
	}
}

// Read returns the current control values as strings.
func (b *Binder) Read() Values {
	return Values{
		ProductID:    b.state.Get(ProductID),
		Name:         b.state.Get(Name),
		UserID:       b.state.Get(UserID),
		Quantity:     b.state.Get(Quantity),
		Price:        b.state.Get(Price),
		Time:         b.state.Get(Time),
		MaxPrice:     b.state.Get(MaxPrice),
		MinPrice:     b.state.Get(MinPrice),
		CatalogPrice: b.state.Get(CatalogPrice),
	}
}

// Values is a snapshot of the form, unparsed.
type Values struct {
	ProductID    string
	Name         string
	UserID       string
	Quantity     string
	Price        string
	Time         string
	MaxPrice     string
	MinPrice     string
	CatalogPrice string
}

// Map returns the values keyed by logical field name.
func (v Values) Map() map[string]string {
	out := make(map[string]string, len(Fields))
	for _, f := range Fields {
		out[string(f)] = v.get(f)
	}
	return out
}

// ItemPayload is the request body for item create and update. Field order is
// the wire order.
type ItemPayload struct {
	UserID    string   `json:"user_id"`
	ProductID string   `json:"product_id"`
	Name      string   `json:"name"`
	Quantity  *float64 `json:"quantity"`
	Price     *float64 `json:"price"`
	Time      string   `json:"time"`
}

// ItemPayload parses quantity and price; an empty or unparsable number is sent as null.
func (v Values) ItemPayload() ItemPayload {
	return ItemPayload{
		UserID:    v.UserID,
		ProductID: v.ProductID,
		Name:      v.Name,
		Quantity:  parseNumber(v.Quantity),
		Price:     parseNumber(v.Price),
		Time:      v.Time,
	}
}

// Has reports whether every named field is non-empty. Whitespace counts as a value.
func (v Values) Has(fields ...Field) bool {
	for _, f := range fields {
		if v.get(f) == "" {
			return false
		}
	}
	return true
}

func (v Values) get(f Field) string {
	switch f {
	case ProductID:
		return v.ProductID
	case Name:
		return v.Name
	case UserID:
		return v.UserID
	case Quantity:
		return v.Quantity
	case Price:
		return v.Price
	case Time:
		return v.Time
	case MaxPrice:
		return v.MaxPrice
	case MinPrice:
		return v.MinPrice
	case CatalogPrice:
		return v.CatalogPrice
	}
	return ""
}

func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}
