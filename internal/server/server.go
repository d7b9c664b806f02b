package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/provisions/internal/backup"
	"github.com/dukerupert/provisions/internal/handler"
	"github.com/dukerupert/provisions/internal/middleware"
	"github.com/dukerupert/provisions/internal/model"
	"github.com/dukerupert/provisions/internal/store"
	ws "github.com/dukerupert/provisions/internal/websocket"
)

// Rate limits for endpoints that rewrite or delete bulk data.
const (
	bulkLimit  = 10
	bulkWindow = time.Minute
)

type Server struct {
	hub           *ws.Hub
	docs          *store.DocumentStore
	itemH         *handler.ItemHandler
	poolH         *handler.PoolHandler
	dataH         *handler.DataHandler
	backupH       *handler.BackupHandler
	rateLimiter   *middleware.RateLimiter
	backupManager *backup.Manager
	logger        *slog.Logger
}

// New wires the handlers over docs. The hub is created by the caller so the
// document store can use it as a notifier before the server exists.
func New(db *sql.DB, docs *store.DocumentStore, hub *ws.Hub, backupCfg backup.Config, logger *slog.Logger) *Server {
	backupStore := store.NewBackupStore(db)
	backupMgr := backup.NewManager(backupCfg, docs, backupStore, logger.With("component", "backup"), func(s backup.Status) {
		hub.Broadcast(ws.Message{
			Type:   "backup_status",
			Entity: ws.EntityBackup,
			Action: string(s.State),
			Extra: map[string]any{
				"in_progress": s.InProgress,
				"error":       s.Error,
			},
		})
	})

	return &Server{
		hub:           hub,
		docs:          docs,
		itemH:         handler.NewItemHandler(docs, hub, logger.With("component", "item")),
		poolH:         handler.NewPoolHandler(docs, hub, logger.With("component", "pool")),
		dataH:         handler.NewDataHandler(docs, hub, logger.With("component", "data")),
		backupH:       handler.NewBackupHandler(backupMgr, backupStore, hub, logger.With("component", "backup_handler")),
		rateLimiter:   middleware.NewRateLimiter(),
		backupManager: backupMgr,
		logger:        logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// BackupManager returns the backup manager.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /api/meta", s.metaHandler)

	// Items
	const section = "/api/hotels/{hotel}/days/{date}/sections/{section}"
	mux.HandleFunc("GET /api/hotels/{hotel}/days/{date}", s.itemH.Day)
	mux.HandleFunc("GET "+section+"/items", s.itemH.List)
	mux.HandleFunc("POST "+section+"/items", s.itemH.Create)
	mux.HandleFunc("PUT "+section+"/items", s.itemH.Replace)
	mux.HandleFunc("GET "+section+"/stats", s.itemH.Stats)
	mux.HandleFunc("POST "+section+"/items/mark-all", s.itemH.MarkAll)
	mux.HandleFunc("POST "+section+"/items/clear-completed", s.itemH.ClearCompleted)
	mux.HandleFunc("PUT "+section+"/items/{id}", s.itemH.Update)
	mux.HandleFunc("DELETE "+section+"/items/{id}", s.itemH.Delete)
	mux.HandleFunc("POST "+section+"/items/{id}/toggle", s.itemH.Toggle)

	// Item pool
	mux.HandleFunc("GET /api/pool/{section}", s.poolH.List)
	mux.HandleFunc("POST /api/pool/{section}", s.poolH.Create)
	mux.HandleFunc("POST /api/pool/seed", s.poolH.Seed)
	mux.HandleFunc("GET /api/suggest-section", s.poolH.Suggest)

	// Whole-document operations
	mux.HandleFunc("GET /api/range", s.dataH.Range)
	mux.HandleFunc("POST /api/cleanup", s.rateLimited(s.dataH.Cleanup))
	mux.HandleFunc("GET /api/export", s.dataH.Export)
	mux.HandleFunc("POST /api/import", s.rateLimited(s.dataH.Import))
	mux.HandleFunc("GET /api/data/size", s.dataH.Size)
	mux.HandleFunc("DELETE /api/data", s.rateLimited(s.dataH.Clear))

	// Backups
	mux.HandleFunc("GET /api/backups", s.backupH.List)
	mux.HandleFunc("POST /api/backups", s.rateLimited(s.backupH.Run))
	mux.HandleFunc("GET /api/backups/status", s.backupH.Status)
	mux.HandleFunc("POST /api/backups/{id}/restore", s.rateLimited(s.backupH.Restore))
	mux.HandleFunc("GET /api/backups/{id}/download", s.backupH.Download)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))

	httpLogger := s.logger.With("component", "http")
	return middleware.RequestLogger(httpLogger)(middleware.Recoverer(httpLogger)(mux))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]any{"status": "ok", "clients": s.hub.ClientCount()}
	if !s.docs.HasData() {
		status = http.StatusServiceUnavailable
		body["status"] = "uninitialized"
	}
	writeJSON(w, status, body)
}

type sectionInfo struct {
	Key  model.Section `json:"key"`
	Name string        `json:"name"`
}

// metaHandler lists the hotel and section enumerations for clients.
func (s *Server) metaHandler(w http.ResponseWriter, r *http.Request) {
	sections := make([]sectionInfo, 0, len(model.Sections))
	for _, sec := range model.Sections {
		sections = append(sections, sectionInfo{Key: sec, Name: sec.DisplayName()})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"hotels":   model.Hotels,
		"sections": sections,
		"version":  model.SchemaVersion,
	})
}

func (s *Server) rateLimited(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.ByIP, bulkLimit, bulkWindow)
	return rl(h).ServeHTTP
}
