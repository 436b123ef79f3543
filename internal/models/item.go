package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Item is a line entry of a shopcart, addressed by (UserID, ProductID).
type Item struct {
	ProductID string              `json:"product_id"`
	Name      string              `json:"name"`
	UserID    string              `json:"user_id"`
	Quantity  decimal.NullDecimal `json:"quantity"`
	Price     decimal.NullDecimal `json:"price"`
	Time      string              `json:"time"`
}

// UnmarshalJSON maps every key variant the shopcart service has used onto the
// canonical fields, so callers never see productId, UserID or recordTime.
func (i *Item) UnmarshalJSON(data []byte) error {
	type rawItem struct {
		ProductID       json.RawMessage `json:"product_id"`
		ProductIDCamel  json.RawMessage `json:"productId"`
		ID              json.RawMessage `json:"id"`
		Name            json.RawMessage `json:"name"`
		UserID          json.RawMessage `json:"user_id"`
		UserIDCamel     json.RawMessage `json:"userId"`
		UserIDLegacy    json.RawMessage `json:"UserID"`
		Quantity        json.RawMessage `json:"quantity"`
		Price           json.RawMessage `json:"price"`
		Time            json.RawMessage `json:"time"`
		RecordTime      json.RawMessage `json:"recordTime"`
		RecordTimeSnake json.RawMessage `json:"record_time"`
	}

	var raw rawItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	quantity, err := parseDecimal(raw.Quantity)
	if err != nil {
		return fmt.Errorf("models: parse quantity: %w", err)
	}
	price, err := parseDecimal(raw.Price)
	if err != nil {
		return fmt.Errorf("models: parse price: %w", err)
	}

	i.ProductID = strings.TrimSpace(firstText(raw.ProductID, raw.ProductIDCamel, raw.ID))
	i.Name = scalarText(raw.Name)
	i.UserID = strings.TrimSpace(firstText(raw.UserID, raw.UserIDCamel, raw.UserIDLegacy))
	i.Quantity = quantity
	i.Price = price
	i.Time = firstText(raw.Time, raw.RecordTime, raw.RecordTimeSnake)
	return nil
}

// QuantityText renders quantity for a form control, empty when absent.
func (i Item) QuantityText() string {
	return decimalText(i.Quantity)
}

// PriceText renders price for a form control, empty when absent.
func (i Item) PriceText() string {
	return decimalText(i.Price)
}

func decimalText(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func parseDecimal(raw json.RawMessage) (decimal.NullDecimal, error) {
	text := strings.TrimSpace(scalarText(raw))
	if text == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// scalarText returns a JSON scalar as text: strings unquoted, numbers and
// booleans verbatim, null and missing as "".
func scalarText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

func firstText(candidates ...json.RawMessage) string {
	for _, c := range candidates {
		if s := scalarText(c); s != "" {
			return s
		}
	}
	return ""
}
