package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestNewDocumentIsComplete(t *testing.T) {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	doc := NewDocument(now)

	if doc.Version != SchemaVersion {
		t.Errorf("version = %q", doc.Version)
	}
	if len(doc.Hotels) != len(Hotels) {
		t.Errorf("hotels = %d, want %d", len(doc.Hotels), len(Hotels))
	}
	if len(doc.ItemPool) != len(Sections) {
		t.Errorf("pool sections = %d, want %d", len(doc.ItemPool), len(Sections))
	}
	if doc.Settings == nil || *doc.Settings != DefaultSettings() {
		t.Errorf("settings = %+v", doc.Settings)
	}
}

func TestDocumentUnmarshalDropsMalformedFields(t *testing.T) {
	input := `{
		"version": 2,
		"createdAt": 1704844800000,
		"lastModified": "yesterday",
		"hotels": {
			"36LS": {"2024-01-10": {"thit": [{"id": "a", "name": "Gà", "quantity": "2"}], "rau": "oops"}},
			"16TX": [],
			"55HT": {"2024-01-11": 7}
		},
		"itemPool": {"thit": [{"id": "p", "name": "Gà"}], "rau": {}},
		"settings": {"currency": "USD"}
	}`

	var doc Document
	if err := json.Unmarshal([]byte(input), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if doc.Version != "" {
		t.Errorf("version = %q, want empty for a non-string", doc.Version)
	}
	if want := time.UnixMilli(1704844800000).UTC(); !doc.CreatedAt.Equal(want) {
		t.Errorf("createdAt = %v, want %v", doc.CreatedAt, want)
	}
	if !doc.LastModified.IsZero() {
		t.Errorf("lastModified = %v, want zero", doc.LastModified)
	}

	day := doc.Hotels[Hotel36LS]["2024-01-10"]
	if items := day[SectionMeat]; len(items) != 1 || items[0].Quantity != 2 {
		t.Errorf("meat = %+v", items)
	}
	if _, ok := day[SectionVegetables]; ok {
		t.Error("malformed section should be dropped")
	}
	if dates, ok := doc.Hotels[Hotel16TX]; !ok || len(dates) != 0 {
		t.Errorf("16TX = %+v, want empty date map", dates)
	}
	if _, ok := doc.Hotels[Hotel55HT]["2024-01-11"]; ok {
		t.Error("malformed date should be dropped")
	}

	if len(doc.ItemPool[SectionMeat]) != 1 {
		t.Errorf("pool meat = %+v", doc.ItemPool[SectionMeat])
	}
	if _, ok := doc.ItemPool[SectionVegetables]; ok {
		t.Error("malformed pool section should be dropped")
	}

	if doc.Settings == nil {
		t.Fatal("settings missing")
	}
	if doc.Settings.Currency != "USD" || doc.Settings.DefaultUnit != DefaultUnit || !doc.Settings.AutoSave {
		t.Errorf("settings = %+v, want defaults with USD", *doc.Settings)
	}
}

func TestDocumentUnmarshalRejectsNonObject(t *testing.T) {
	for _, input := range []string{`null`, `[]`, `"x"`} {
		var doc Document
		if err := json.Unmarshal([]byte(input), &doc); err == nil {
			t.Errorf("unmarshal %s: expected error", input)
		}
	}
}

func TestDocumentPreservesUnknownFields(t *testing.T) {
	input := `{"version":"2.0","hotels":{},"itemPool":{},"theme":"dark","flags":{"beta":true}}`

	var doc Document
	if err := json.Unmarshal([]byte(input), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, want := range []string{`"theme":"dark"`, `"flags":{"beta":true}`, `"version":"2.0"`} {
		if !strings.Contains(string(out), want) {
			t.Errorf("marshalled document missing %s: %s", want, out)
		}
	}
}

func TestDocumentCloneIsDeep(t *testing.T) {
	doc := NewDocument(time.Now())
	doc.Hotels[Hotel36LS]["2024-01-10"] = SectionMap{SectionMeat: {{ID: "a", Name: "Gà"}}}

	c := doc.Clone()
	c.Hotels[Hotel36LS]["2024-01-10"][SectionMeat][0].Name = "changed"
	c.Settings.Currency = "USD"

	if doc.Hotels[Hotel36LS]["2024-01-10"][SectionMeat][0].Name != "Gà" {
		t.Error("clone shares item storage")
	}
	if doc.Settings.Currency != "VND" {
		t.Error("clone shares settings")
	}
}

func TestItemTimestampsAcceptEpochAndDate(t *testing.T) {
	var item Item
	if err := json.Unmarshal([]byte(`{"id":"a","createdAt":1704844800000,"updatedAt":"2024-01-10"}`), &item); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if item.CreatedAt.IsZero() || item.UpdatedAt.IsZero() {
		t.Errorf("timestamps = %v / %v", item.CreatedAt, item.UpdatedAt)
	}
}

func TestDocumentDropsOnlyMalformedItems(t *testing.T) {
	input := `{"hotels":{"36LS":{"2024-01-10":{"thit":[
		{"id":"a","name":"Gà","quantity":1,"isDone":false},
		{"id":"b","name":"Vịt","quantity":"2","isDone":"true","buyPrice":null},
		"oops",
		[1]
	]}}},"itemPool":{"thit":[{"id":"p","name":"Gà"},7]}}`

	var doc Document
	if err := json.Unmarshal([]byte(input), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	items := doc.Hotels[Hotel36LS]["2024-01-10"][SectionMeat]
	if len(items) != 2 {
		t.Fatalf("items = %+v, want 2", items)
	}
	if !items[1].IsDone || items[1].Quantity != 2 || items[1].BuyPrice != 0 {
		t.Errorf("coerced item = %+v", items[1])
	}
	if len(doc.ItemPool[SectionMeat]) != 1 {
		t.Errorf("pool = %+v, want 1", doc.ItemPool[SectionMeat])
	}
	if doc.Dropped != 3 {
		t.Errorf("dropped = %d, want 3", doc.Dropped)
	}
}

func TestItemPreservesUnknownFields(t *testing.T) {
	var item Item
	if err := json.Unmarshal([]byte(`{"id":"a","name":"Gà","quantity":1,"note":"keep me","tags":["x"]}`), &item); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, want := range []string{`"note":"keep me"`, `"tags":["x"]`, `"name":"Gà"`} {
		if !strings.Contains(string(out), want) {
			t.Errorf("marshalled item missing %s: %s", want, out)
		}
	}

	doc := NewDocument(time.Now())
	doc.Hotels[Hotel36LS]["2024-01-10"] = SectionMap{SectionMeat: {item}}
	c := doc.Clone()
	c.Hotels[Hotel36LS]["2024-01-10"][SectionMeat][0].Extra["note"] = json.RawMessage(`"changed"`)
	if string(doc.Hotels[Hotel36LS]["2024-01-10"][SectionMeat][0].Extra["note"]) != `"keep me"` {
		t.Error("clone shares item extra fields")
	}
}

func TestItemUnmarshalRejectsNonObject(t *testing.T) {
	for _, input := range []string{`42`, `"x"`, `[]`} {
		var item Item
		if err := json.Unmarshal([]byte(input), &item); err == nil {
			t.Errorf("unmarshal %s: expected error", input)
		}
	}
}

func TestItemPatchNullNumbersReadAsZero(t *testing.T) {
	var patch ItemPatch
	if err := json.Unmarshal([]byte(`{"quantity":null,"buyPrice":null,"name":null}`), &patch); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if patch.Quantity == nil || *patch.Quantity != 0 {
		t.Errorf("quantity = %v, want 0", patch.Quantity)
	}
	if patch.BuyPrice == nil || *patch.BuyPrice != 0 {
		t.Errorf("buyPrice = %v, want 0", patch.BuyPrice)
	}
	if patch.SellPrice != nil {
		t.Errorf("absent sellPrice = %v, want nil", *patch.SellPrice)
	}
	if patch.Name != nil {
		t.Errorf("null name = %q, want nil", *patch.Name)
	}

	patch = ItemPatch{}
	if err := json.Unmarshal([]byte(`{"sellPrice":"1000"}`), &patch); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if patch.SellPrice == nil || *patch.SellPrice != 1000 {
		t.Errorf("sellPrice = %v, want 1000", patch.SellPrice)
	}
}
