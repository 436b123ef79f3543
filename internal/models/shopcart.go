package models

import (
	"encoding/json"
	"strings"
)

// Shopcart is a per-user collection of items. The console addresses it by UserID only.
type Shopcart struct {
	ID     string `json:"id,omitempty"`
	UserID string `json:"user_id"`
	Items  []Item `json:"items"`
}

func (c *Shopcart) UnmarshalJSON(data []byte) error {
	type rawShopcart struct {
		ID           json.RawMessage `json:"id"`
		UserID       json.RawMessage `json:"user_id"`
		UserIDCamel  json.RawMessage `json:"userId"`
		UserIDLegacy json.RawMessage `json:"UserID"`
		Items        []Item          `json:"items"`
		Products     []Item          `json:"products"`
	}

	var raw rawShopcart
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.ID = strings.TrimSpace(scalarText(raw.ID))
	c.UserID = strings.TrimSpace(firstText(raw.UserID, raw.UserIDCamel, raw.UserIDLegacy))
	c.Items = raw.Items
	if len(c.Items) == 0 {
		c.Items = raw.Products
	}
	if c.Items == nil {
		c.Items = []Item{}
	}
	return nil
}

// AsItem is the form preview of a cart: only the user id is known.
func (c Shopcart) AsItem() Item {
	return Item{UserID: c.UserID}
}

// Flatten returns the cart items with empty user ids filled from the cart.
func (c Shopcart) Flatten() []Item {
	out := make([]Item, 0, len(c.Items))
	for _, it := range c.Items {
		if it.UserID == "" {
			it.UserID = c.UserID
		}
		out = append(out, it)
	}
	return out
}

// FlattenAll concatenates the items of every cart, preserving response order.
func FlattenAll(carts []Shopcart) []Item {
	var out []Item
	for _, c := range carts {
		out = append(out, c.Flatten()...)
	}
	return out
}
