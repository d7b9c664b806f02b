package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/dukerupert/provisions/internal/model"
)

func setupItemHandler(t *testing.T) (*ItemHandler, testEnv) {
	t.Helper()
	env := setupEnv(t)
	return NewItemHandler(env.docs, env.hub, testLogger()), env
}

func createItem(t *testing.T, h *ItemHandler, body any) model.Item {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Create(rec, request("POST", "/", body, itemParams("")))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	return decode[model.Item](t, rec)
}

func TestItemCreate(t *testing.T) {
	h, env := setupItemHandler(t)

	item := createItem(t, h, map[string]any{"name": "Thịt bò", "quantity": "2", "buyPrice": 250000, "sellPrice": 300000})
	if item.ID == "" || item.Name != "Thịt bò" || item.Quantity != 2 || item.Unit != model.DefaultUnit {
		t.Errorf("item = %+v", item)
	}

	items := env.docs.GetItems(model.Hotel36LS, testDate, model.SectionMeat)
	if len(items) != 1 || items[0].ID != item.ID {
		t.Errorf("stored items = %+v", items)
	}
}

func TestItemCreateValidation(t *testing.T) {
	h, env := setupItemHandler(t)

	rec := httptest.NewRecorder()
	h.Create(rec, request("POST", "/", map[string]any{"name": " ", "quantity": 0, "buyPrice": -1}, itemParams("")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	body := decode[map[string]any](t, rec)
	problems, _ := body["problems"].([]any)
	if len(problems) != 3 {
		t.Errorf("problems = %v, want 3", body["problems"])
	}
	if n := len(env.docs.GetItems(model.Hotel36LS, testDate, model.SectionMeat)); n != 0 {
		t.Errorf("stored %d items after rejected create", n)
	}
}

func TestItemCreateInvalidJSON(t *testing.T) {
	h, _ := setupItemHandler(t)

	rec := httptest.NewRecorder()
	h.Create(rec, request("POST", "/", "{not json", itemParams("")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestItemListFilterAndStats(t *testing.T) {
	h, _ := setupItemHandler(t)

	beef := createItem(t, h, map[string]any{"name": "Thịt bò", "quantity": 1, "buyPrice": 100})
	createItem(t, h, map[string]any{"name": "Thịt heo", "quantity": 2, "buyPrice": 50})
	createItem(t, h, map[string]any{"name": "Gà", "quantity": 1, "buyPrice": 80})

	rec := httptest.NewRecorder()
	h.Toggle(rec, request("POST", "/", nil, itemParams(beef.ID)))
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.List(rec, request("GET", "/?q="+url.QueryEscape("thịt")+"&status=pending", nil, itemParams("")))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	resp := decode[itemListResponse](t, rec)
	if len(resp.Items) != 1 || resp.Items[0].Name != "Thịt heo" {
		t.Errorf("items = %+v, want only Thịt heo", resp.Items)
	}
	if resp.Total != 3 {
		t.Errorf("total = %d, want 3", resp.Total)
	}
	if resp.Stats.TotalItems != 3 || resp.Stats.CompletedItems != 1 || resp.Stats.TotalBuyAmount != 280 {
		t.Errorf("stats = %+v", resp.Stats)
	}
}

func TestItemListSorted(t *testing.T) {
	h, _ := setupItemHandler(t)

	createItem(t, h, map[string]any{"name": "B", "quantity": 1, "buyPrice": 10})
	createItem(t, h, map[string]any{"name": "A", "quantity": 1, "buyPrice": 30})
	createItem(t, h, map[string]any{"name": "C", "quantity": 1, "buyPrice": 20})

	rec := httptest.NewRecorder()
	h.List(rec, request("GET", "/?sort=buyTotal&order=desc", nil, itemParams("")))
	resp := decode[itemListResponse](t, rec)

	var names []string
	for _, it := range resp.Items {
		names = append(names, it.Name)
	}
	if len(names) != 3 || names[0] != "A" || names[1] != "C" || names[2] != "B" {
		t.Errorf("order = %v, want [A C B]", names)
	}
}

func TestItemUpdate(t *testing.T) {
	h, _ := setupItemHandler(t)
	item := createItem(t, h, map[string]any{"name": "Cà rốt", "quantity": 1})

	rec := httptest.NewRecorder()
	h.Update(rec, request("PUT", "/", map[string]any{"quantity": "3", "unit": "bó"}, itemParams(item.ID)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	updated := decode[model.Item](t, rec)
	if updated.ID != item.ID || updated.Quantity != 3 || updated.Unit != "bó" || updated.Name != "Cà rốt" {
		t.Errorf("updated = %+v", updated)
	}
}

func TestItemUpdateRejectsBadPatch(t *testing.T) {
	h, _ := setupItemHandler(t)
	item := createItem(t, h, map[string]any{"name": "Cà rốt", "quantity": 1})

	rec := httptest.NewRecorder()
	h.Update(rec, request("PUT", "/", map[string]any{"quantity": -2}, itemParams(item.ID)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestItemNotFound(t *testing.T) {
	h, _ := setupItemHandler(t)

	tests := []struct {
		name string
		call func(http.ResponseWriter, *http.Request)
		body any
	}{
		{"update", h.Update, map[string]any{"name": "x"}},
		{"toggle", h.Toggle, nil},
		{"delete", h.Delete, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.call(rec, request("POST", "/", tt.body, itemParams("missing")))
			if rec.Code != http.StatusNotFound {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
			}
		})
	}
}

func TestItemDelete(t *testing.T) {
	h, env := setupItemHandler(t)
	item := createItem(t, h, map[string]any{"name": "Táo", "quantity": 1})

	rec := httptest.NewRecorder()
	h.Delete(rec, request("DELETE", "/", nil, itemParams(item.ID)))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if n := len(env.docs.GetItems(model.Hotel36LS, testDate, model.SectionMeat)); n != 0 {
		t.Errorf("items left = %d", n)
	}
}

func TestItemMarkAllAndClearCompleted(t *testing.T) {
	h, env := setupItemHandler(t)
	createItem(t, h, map[string]any{"name": "A", "quantity": 1})
	createItem(t, h, map[string]any{"name": "B", "quantity": 1})

	rec := httptest.NewRecorder()
	h.MarkAll(rec, request("POST", "/", map[string]bool{"isDone": true}, itemParams("")))
	if got := decode[map[string]int](t, rec)["updated"]; got != 2 {
		t.Errorf("updated = %d, want 2", got)
	}

	rec = httptest.NewRecorder()
	h.ClearCompleted(rec, request("POST", "/", nil, itemParams("")))
	if got := decode[map[string]int](t, rec)["cleared"]; got != 2 {
		t.Errorf("cleared = %d, want 2", got)
	}
	if n := len(env.docs.GetItems(model.Hotel36LS, testDate, model.SectionMeat)); n != 0 {
		t.Errorf("items left = %d", n)
	}
}

func TestItemReplaceAndDay(t *testing.T) {
	h, _ := setupItemHandler(t)

	items := []model.Item{{ID: "a", Name: "Thịt gà", Quantity: 1, Unit: "kg"}}
	rec := httptest.NewRecorder()
	h.Replace(rec, request("PUT", "/", items, itemParams("")))
	if rec.Code != http.StatusOK {
		t.Fatalf("replace status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.Day(rec, request("GET", "/", nil, map[string]string{"hotel": testHotel, "date": testDate}))
	day := decode[model.SectionMap](t, rec)
	if len(day[model.SectionMeat]) != 1 || day[model.SectionMeat][0].ID != "a" {
		t.Errorf("day = %+v", day)
	}
}

func TestItemStats(t *testing.T) {
	h, _ := setupItemHandler(t)
	createItem(t, h, map[string]any{"name": "A", "quantity": 2, "buyPrice": 10, "sellPrice": 15})

	rec := httptest.NewRecorder()
	h.Stats(rec, request("GET", "/", nil, itemParams("")))
	stats := decode[map[string]float64](t, rec)
	if stats["totalBuyAmount"] != 20 || stats["profit"] != 10 {
		t.Errorf("stats = %v", stats)
	}
}
