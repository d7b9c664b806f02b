package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/provisions/internal/grocery"
	"github.com/dukerupert/provisions/internal/model"
	"github.com/dukerupert/provisions/internal/store"
	"github.com/dukerupert/provisions/internal/websocket"
)

type ItemHandler struct {
	broadcaster
	docs   *store.DocumentStore
	logger *slog.Logger
}

func NewItemHandler(docs *store.DocumentStore, hub *websocket.Hub, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{broadcaster: broadcaster{hub: hub}, docs: docs, logger: logger}
}

type itemListResponse struct {
	Items []model.Item   `json:"items"`
	Stats grocery.Stats  `json:"stats"`
	Total int            `json:"total"`
	Where map[string]any `json:"where"`
}

// List returns the section's items, optionally filtered by ?q= and ?status=
// and sorted by ?sort= and ?order=. Stats always cover the whole section.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	loc, ok := parseLocation(w, r)
	if !ok {
		return
	}

	all := h.docs.GetItems(loc.hotel, loc.date, loc.section)
	q := r.URL.Query()
	items := grocery.FilterItems(all, q.Get("q"), q.Get("status"))
	if by := q.Get("sort"); by != "" {
		items = grocery.SortItems(items, by, q.Get("order"))
	}

	writeJSON(w, http.StatusOK, itemListResponse{
		Items: items,
		Stats: grocery.CalculateStats(all),
		Total: len(all),
		Where: loc.extra(),
	})
}

func (h *ItemHandler) Stats(w http.ResponseWriter, r *http.Request) {
	loc, ok := parseLocation(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.docs.GetStatistics(loc.hotel, loc.date, loc.section))
}

// Day returns every section recorded for a hotel on a date.
func (h *ItemHandler) Day(w http.ResponseWriter, r *http.Request) {
	hotel, ok := parseHotelParam(w, r)
	if !ok {
		return
	}
	date, ok := parseDateParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.docs.GetHotelDayData(hotel, date))
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	loc, ok := parseLocation(w, r)
	if !ok {
		return
	}

	var input model.ItemInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if err := grocery.ValidateItem(input); err != nil {
		writeValidation(w, err)
		return
	}

	item, err := h.docs.AddItem(loc.hotel, loc.date, loc.section, input)
	if err != nil {
		h.logger.Error("add item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add item")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityItem, "created", item.ID, loc.extra()))
	writeJSON(w, http.StatusCreated, item)
}

// Replace overwrites the whole section with the posted list.
func (h *ItemHandler) Replace(w http.ResponseWriter, r *http.Request) {
	loc, ok := parseLocation(w, r)
	if !ok {
		return
	}

	var items []model.Item
	if !decodeJSON(w, r, &items) {
		return
	}

	if err := h.docs.SetItems(loc.hotel, loc.date, loc.section, items); err != nil {
		h.logger.Error("set items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save items")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityItem, "replaced", "", loc.extra()))
	writeJSON(w, http.StatusOK, h.docs.GetItems(loc.hotel, loc.date, loc.section))
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	loc, ok := parseLocation(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	var patch model.ItemPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if err := grocery.ValidatePatch(patch); err != nil {
		writeValidation(w, err)
		return
	}

	item, err := h.docs.UpdateItem(loc.hotel, loc.date, loc.section, id, patch)
	if err != nil {
		h.logger.Error("update item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityItem, "updated", item.ID, loc.extra()))
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	loc, ok := parseLocation(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	item, err := h.docs.ToggleItemCompletion(loc.hotel, loc.date, loc.section, id)
	if err != nil {
		h.logger.Error("toggle item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityItem, "updated", item.ID, loc.extra()))
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	loc, ok := parseLocation(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	found, err := h.docs.DeleteItem(loc.hotel, loc.date, loc.section, id)
	if err != nil {
		h.logger.Error("delete item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityItem, "deleted", id, loc.extra()))
	w.WriteHeader(http.StatusNoContent)
}

// MarkAll sets isDone on every item of the section.
func (h *ItemHandler) MarkAll(w http.ResponseWriter, r *http.Request) {
	loc, ok := parseLocation(w, r)
	if !ok {
		return
	}

	var req struct {
		IsDone bool `json:"isDone"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	n, err := h.docs.MarkAllItems(loc.hotel, loc.date, loc.section, req.IsDone)
	if err != nil {
		h.logger.Error("mark all items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update items")
		return
	}

	if n > 0 {
		h.broadcast(websocket.NewMessage(websocket.EntityItem, "updated", "", loc.extra()))
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": n})
}

func (h *ItemHandler) ClearCompleted(w http.ResponseWriter, r *http.Request) {
	loc, ok := parseLocation(w, r)
	if !ok {
		return
	}

	n, err := h.docs.DeleteCompletedItems(loc.hotel, loc.date, loc.section)
	if err != nil {
		h.logger.Error("delete completed items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear completed items")
		return
	}

	if n > 0 {
		h.broadcast(websocket.NewMessage(websocket.EntityItem, "deleted", "", loc.extra()))
	}
	writeJSON(w, http.StatusOK, map[string]int{"cleared": n})
}
