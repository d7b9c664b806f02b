package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/provisions/internal/grocery"
	"github.com/dukerupert/provisions/internal/model"
	"github.com/dukerupert/provisions/internal/store"
	"github.com/dukerupert/provisions/internal/websocket"
)

// DataHandler serves whole-document operations: range views, cleanup,
// export, import and reset.
type DataHandler struct {
	broadcaster
	docs   *store.DocumentStore
	logger *slog.Logger
	now    func() time.Time
}

func NewDataHandler(docs *store.DocumentStore, hub *websocket.Hub, logger *slog.Logger) *DataHandler {
	return &DataHandler{
		broadcaster: broadcaster{hub: hub},
		docs:        docs,
		logger:      logger,
		now:         time.Now,
	}
}

func (h *DataHandler) Range(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if err := grocery.ValidateRange(from, to); err != nil {
		writeValidation(w, err)
		return
	}

	days, err := h.docs.GetDataInRange(from, to)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	total := 0
	for _, d := range days {
		total += d.TotalItems
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"from":       from,
		"to":         to,
		"days":       days,
		"totalItems": total,
	})
}

type cleanupRequest struct {
	From string `json:"fromDate"`
	To   string `json:"toDate"`
}

func (h *DataHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	var req cleanupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := grocery.ValidateRange(req.From, req.To); err != nil {
		writeValidation(w, err)
		return
	}

	result, err := h.docs.CleanupDataInRange(req.From, req.To)
	if err != nil {
		if errors.Is(err, model.ErrInvalidDate) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("cleanup range", "from", req.From, "to", req.To, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clean up data")
		return
	}

	if result.DeletedDates > 0 {
		h.broadcast(websocket.NewMessage(websocket.EntityDocument, "cleaned", "", map[string]any{
			"fromDate":     result.FromDate,
			"toDate":       result.ToDate,
			"deletedItems": result.DeletedItems,
		}))
	}
	writeJSON(w, http.StatusOK, result)
}

// Export sends the document as a pretty-printed JSON attachment.
func (h *DataHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.docs.ExportJSON()
	if err != nil {
		h.logger.Error("export", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to export data")
		return
	}

	filename := fmt.Sprintf("shopping-data-%s.json", h.now().Format(model.DateLayout))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Import replaces the document with the request body.
func (h *DataHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "import too large")
		return
	}

	if err := h.docs.ImportData(data); err != nil {
		if errors.Is(err, store.ErrInvalidImport) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("import", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to import data")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityDocument, "imported", "", nil))
	writeJSON(w, http.StatusOK, map[string]any{
		"imported": true,
		"size":     h.docs.FormattedDataSize(),
	})
}

func (h *DataHandler) Size(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"bytes":     h.docs.DataSize(),
		"formatted": h.docs.FormattedDataSize(),
	})
}

// Clear wipes the document and writes a fresh default one.
func (h *DataHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.docs.ClearAllData(); err != nil {
		h.logger.Error("clear data", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear data")
		return
	}
	h.broadcast(websocket.NewMessage(websocket.EntityDocument, "cleared", "", nil))
	w.WriteHeader(http.StatusNoContent)
}
