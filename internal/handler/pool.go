package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/provisions/internal/grocery"
	"github.com/dukerupert/provisions/internal/model"
	"github.com/dukerupert/provisions/internal/store"
	"github.com/dukerupert/provisions/internal/websocket"
)

type PoolHandler struct {
	broadcaster
	docs   *store.DocumentStore
	logger *slog.Logger
}

func NewPoolHandler(docs *store.DocumentStore, hub *websocket.Hub, logger *slog.Logger) *PoolHandler {
	return &PoolHandler{broadcaster: broadcaster{hub: hub}, docs: docs, logger: logger}
}

func (h *PoolHandler) List(w http.ResponseWriter, r *http.Request) {
	section, ok := parseSectionParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.docs.GetItemPool(section))
}

func (h *PoolHandler) Create(w http.ResponseWriter, r *http.Request) {
	section, ok := parseSectionParam(w, r)
	if !ok {
		return
	}

	var input model.PoolItemInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if err := grocery.ValidatePoolItem(input); err != nil {
		writeValidation(w, err)
		return
	}

	item, err := h.docs.AddToItemPool(section, input)
	if err != nil {
		h.logger.Error("add pool item", "section", section, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add template")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityPoolItem, "created", item.ID, map[string]any{"section": string(section)}))
	writeJSON(w, http.StatusCreated, item)
}

// Seed fills empty section pools with the default templates.
func (h *PoolHandler) Seed(w http.ResponseWriter, r *http.Request) {
	n, err := h.docs.SeedItemPool()
	if err != nil {
		h.logger.Error("seed item pool", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to seed templates")
		return
	}
	if n > 0 {
		h.broadcast(websocket.NewMessage(websocket.EntityPoolItem, "created", "", nil))
	}
	writeJSON(w, http.StatusOK, map[string]int{"added": n})
}

type suggestResponse struct {
	Name        string        `json:"name"`
	Section     model.Section `json:"section,omitempty"`
	DisplayName string        `json:"displayName,omitempty"`
	Found       bool          `json:"found"`
}

// Suggest guesses the section for ?name=.
func (h *PoolHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	resp := suggestResponse{Name: name}
	if section, ok := grocery.SuggestSection(name); ok {
		resp.Section = section
		resp.DisplayName = section.DisplayName()
		resp.Found = true
	}
	writeJSON(w, http.StatusOK, resp)
}
