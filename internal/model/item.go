package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultUnit is used when neither the input nor the settings name a unit.
const DefaultUnit = "kg"

// Item is one purchase-list line.
type Item struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Quantity  Number    `json:"quantity"`
	Unit      string    `json:"unit"`
	BuyPrice  Number    `json:"buyPrice"`
	SellPrice Number    `json:"sellPrice"`
	IsDone    bool      `json:"isDone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Extra keeps fields this version does not know about.
	Extra map[string]json.RawMessage `json:"-"`
}

// BuyTotal is quantity × buy price.
func (i Item) BuyTotal() float64 {
	return i.Quantity.Float() * i.BuyPrice.Float()
}

// SellTotal is quantity × sell price.
func (i Item) SellTotal() float64 {
	return i.Quantity.Float() * i.SellPrice.Float()
}

// ItemInput carries the fields accepted when creating an item.
type ItemInput struct {
	Name      string `json:"name"`
	Quantity  Number `json:"quantity"`
	Unit      string `json:"unit"`
	BuyPrice  Number `json:"buyPrice"`
	SellPrice Number `json:"sellPrice"`
}

// ItemPatch is a partial update. Nil fields are left untouched. A number
// field sent as JSON null is present and reads as 0.
type ItemPatch struct {
	Name      *string `json:"name,omitempty"`
	Quantity  *Number `json:"quantity,omitempty"`
	Unit      *string `json:"unit,omitempty"`
	BuyPrice  *Number `json:"buyPrice,omitempty"`
	SellPrice *Number `json:"sellPrice,omitempty"`
	IsDone    *bool   `json:"isDone,omitempty"`
}

func (p *ItemPatch) UnmarshalJSON(data []byte) error {
	type plain ItemPatch
	var aux plain
	if err := json.Unmarshal(data, &aux); err != nil || isNull(data) {
		return err
	}
	raw, err := decodeObject(data)
	if err != nil {
		return err
	}
	for key, dst := range map[string]**Number{
		"quantity":  &aux.Quantity,
		"buyPrice":  &aux.BuyPrice,
		"sellPrice": &aux.SellPrice,
	} {
		if v, ok := raw[key]; ok && *dst == nil && isNull(v) {
			*dst = new(Number)
		}
	}
	*p = ItemPatch(aux)
	return nil
}

// PoolItem is a reusable item template, not tied to a date.
type PoolItem struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Unit               string    `json:"unit"`
	SuggestedBuyPrice  Number    `json:"suggestedBuyPrice"`
	SuggestedSellPrice Number    `json:"suggestedSellPrice"`
	CreatedAt          time.Time `json:"createdAt"`

	Extra map[string]json.RawMessage `json:"-"`
}

// PoolItemInput carries the fields accepted when adding a template.
type PoolItemInput struct {
	Name               string `json:"name"`
	Unit               string `json:"unit"`
	SuggestedBuyPrice  Number `json:"suggestedBuyPrice"`
	SuggestedSellPrice Number `json:"suggestedSellPrice"`
}

// NewID returns a time-ordered unique identifier: a millisecond timestamp
// followed by random bits.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("%d%s", time.Now().UnixMilli(), uuid.NewString()[:9])
	}
	return id.String()
}

var itemFields = map[string]bool{
	"id": true, "name": true, "quantity": true, "unit": true, "buyPrice": true,
	"sellPrice": true, "isDone": true, "createdAt": true, "updatedAt": true,
}

// UnmarshalJSON decodes field by field: a field with the wrong shape is
// coerced or left zero instead of failing the item. Only a non-object is an
// error.
func (i *Item) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return err
	}
	*i = Item{}
	i.ID = decodeString(raw["id"])
	i.Name = decodeString(raw["name"])
	i.Unit = decodeString(raw["unit"])
	decodeField(raw, "quantity", &i.Quantity)
	decodeField(raw, "buyPrice", &i.BuyPrice)
	decodeField(raw, "sellPrice", &i.SellPrice)
	i.IsDone = decodeBool(raw["isDone"])
	i.CreatedAt = parseTimestamp(raw["createdAt"])
	i.UpdatedAt = parseTimestamp(raw["updatedAt"])
	i.Extra = extraFields(raw, itemFields)
	return nil
}

func (i Item) MarshalJSON() ([]byte, error) {
	type plain Item
	return marshalWithExtra(plain(i), i.Extra)
}

var poolItemFields = map[string]bool{
	"id": true, "name": true, "unit": true, "suggestedBuyPrice": true,
	"suggestedSellPrice": true, "createdAt": true,
}

func (p *PoolItem) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return err
	}
	*p = PoolItem{}
	p.ID = decodeString(raw["id"])
	p.Name = decodeString(raw["name"])
	p.Unit = decodeString(raw["unit"])
	decodeField(raw, "suggestedBuyPrice", &p.SuggestedBuyPrice)
	decodeField(raw, "suggestedSellPrice", &p.SuggestedSellPrice)
	p.CreatedAt = parseTimestamp(raw["createdAt"])
	p.Extra = extraFields(raw, poolItemFields)
	return nil
}

func (p PoolItem) MarshalJSON() ([]byte, error) {
	type plain PoolItem
	return marshalWithExtra(plain(p), p.Extra)
}

// parseTimestamp accepts RFC 3339 strings and millisecond epochs. Anything
// else yields the zero time.
func parseTimestamp(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Time{}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t.UTC()
		}
		if t, err := time.Parse(DateLayout, s); err == nil {
			return t
		}
		return time.Time{}
	}
	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}
