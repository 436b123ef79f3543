package form

import "sync"

// Field is the logical name of a form control.
type Field string

const (
	ProductID    Field = "product_id"
	Name         Field = "name"
	UserID       Field = "user_id"
	Quantity     Field = "quantity"
	Price        Field = "price"
	Time         Field = "time"
	MaxPrice     Field = "max_price"
	MinPrice     Field = "min_price"
	CatalogPrice Field = "catalog_price"
)

// Fields lists every bound control.
var Fields = []Field{ProductID, Name, UserID, Quantity, Price, Time, MaxPrice, MinPrice, CatalogPrice}

// State is the surface the binder writes to. Front ends supply their own
// implementation or use FormState.
type State interface {
	Get(field Field) string
	Set(field Field, value string)
}

// FormState is an in-memory State safe for concurrent use.
type FormState struct {
	mu     sync.RWMutex
	values map[Field]string
}

func NewFormState() *FormState {
	return &FormState{values: make(map[Field]string, len(Fields))}
}

// NewFormStateFrom seeds a state from raw control values. Unknown keys are ignored.
func NewFormStateFrom(raw map[string]string) *FormState {
	s := NewFormState()
	for _, f := range Fields {
		if v, ok := raw[string(f)]; ok {
			s.values[f] = v
		}
	}
	return s
}

func (s *FormState) Get(field Field) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[field]
}

func (s *FormState) Set(field Field, value string) {
	s.mu.Lock()
	s.values[field] = value
	s.mu.Unlock()
}

// Map copies every field into a plain map keyed by logical name.
func (s *FormState) Map() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(Fields))
	for _, f := range Fields {
		out[string(f)] = s.values[f]
	}
	return out
}
