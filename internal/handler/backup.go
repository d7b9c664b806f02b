package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/provisions/internal/backup"
	"github.com/dukerupert/provisions/internal/model"
	"github.com/dukerupert/provisions/internal/store"
	"github.com/dukerupert/provisions/internal/websocket"
	"github.com/dustin/go-humanize"
)

// backupRunner is the part of backup.Manager the handlers drive.
type backupRunner interface {
	RunNow(ctx context.Context, passphrase string) (*model.Backup, error)
	Restore(ctx context.Context, id int64, passphrase string) error
	Download(ctx context.Context, id int64) ([]byte, error)
	Status() backup.Status
}

type BackupHandler struct {
	broadcaster
	manager backupRunner
	records *store.BackupStore
	logger  *slog.Logger
}

func NewBackupHandler(manager backupRunner, records *store.BackupStore, hub *websocket.Hub, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{broadcaster: broadcaster{hub: hub}, manager: manager, records: records, logger: logger}
}

type passphraseRequest struct {
	Passphrase string `json:"passphrase"`
}

// decodePassphrase reads an optional passphrase body. An empty body selects
// the configured passphrase.
func decodePassphrase(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.ContentLength == 0 {
		return "", true
	}
	var req passphraseRequest
	if !decodeJSON(w, r, &req) {
		return "", false
	}
	return req.Passphrase, true
}

func backupErrorStatus(err error) int {
	switch {
	case errors.Is(err, backup.ErrNotConfigured), errors.Is(err, backup.ErrNoPassphrase):
		return http.StatusServiceUnavailable
	case errors.Is(err, backup.ErrInProgress):
		return http.StatusConflict
	case errors.Is(err, backup.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, backup.ErrWrongPassphrase):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func parseBackupID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func (h *BackupHandler) Run(w http.ResponseWriter, r *http.Request) {
	passphrase, ok := decodePassphrase(w, r)
	if !ok {
		return
	}

	rec, err := h.manager.RunNow(r.Context(), passphrase)
	if err != nil {
		h.logger.Error("run backup", "error", err)
		writeError(w, backupErrorStatus(err), err.Error())
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityBackup, "created", strconv.FormatInt(rec.ID, 10), nil))
	writeJSON(w, http.StatusCreated, rec)
}

func (h *BackupHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	backups, err := h.records.List(limit)
	if err != nil {
		h.logger.Error("list backups", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list backups")
		return
	}
	if backups == nil {
		backups = []model.Backup{}
	}
	total, err := h.records.TotalSize()
	if err != nil {
		h.logger.Warn("backup total size", "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"backups":   backups,
		"totalSize": humanize.IBytes(uint64(max(total, 0))),
	})
}

func (h *BackupHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.Status())
}

func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := parseBackupID(w, r)
	if !ok {
		return
	}
	passphrase, ok := decodePassphrase(w, r)
	if !ok {
		return
	}

	if err := h.manager.Restore(r.Context(), id, passphrase); err != nil {
		h.logger.Error("restore backup", "id", id, "error", err)
		writeError(w, backupErrorStatus(err), err.Error())
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityDocument, "imported", "", map[string]any{"backup": id}))
	writeJSON(w, http.StatusOK, map[string]any{"restored": id})
}

// Download streams the encrypted backup as an attachment.
func (h *BackupHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := parseBackupID(w, r)
	if !ok {
		return
	}

	rec, err := h.records.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get backup")
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "backup not found")
		return
	}

	data, err := h.manager.Download(r.Context(), id)
	if err != nil {
		h.logger.Error("download backup", "id", id, "error", err)
		writeError(w, backupErrorStatus(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
