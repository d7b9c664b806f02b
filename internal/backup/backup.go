package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dukerupert/provisions/internal/model"
	"github.com/dukerupert/provisions/internal/store"
)

var (
	ErrNotConfigured = errors.New("backup not configured: S3 credentials missing")
	ErrNoPassphrase  = errors.New("backup passphrase not configured")
	ErrNotFound      = errors.New("backup not found")
	ErrInProgress    = errors.New("backup already in progress")
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Documents is the part of the document store backups need.
type Documents interface {
	ExportData() *model.Document
	ImportData(data []byte) error
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

func (c S3Config) complete() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// Config holds backup manager configuration.
type Config struct {
	S3 S3Config
	// Passphrase encrypts scheduled exports. Without it only RunNow with an
	// explicit passphrase works.
	Passphrase string
	Hour       int
	Retention  time.Duration
}

type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateDisabled State = "disabled"
	StateError    State = "error"
)

// Status holds the current backup manager status.
type Status struct {
	State      State      `json:"state"`
	LastBackup *time.Time `json:"last_backup,omitempty"`
	Error      string     `json:"error,omitempty"`
	InProgress bool       `json:"in_progress"`
}

// StatusCallback is called whenever the backup state changes.
type StatusCallback func(Status)

// Manager uploads encrypted exports of the shopping document to
// S3-compatible storage and restores them.
type Manager struct {
	mu       sync.RWMutex
	runMu    sync.Mutex
	cfg      Config
	status   Status
	callback StatusCallback
	logger   *slog.Logger

	docs    Documents
	records *store.BackupStore
	client  s3Client

	now     func() time.Time
	lastRun string // date of the last scheduled run

	cancel context.CancelFunc
	done   chan struct{}
}

func NewManager(cfg Config, docs Documents, records *store.BackupStore, logger *slog.Logger, callback StatusCallback) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		cfg:      cfg,
		docs:     docs,
		records:  records,
		logger:   logger,
		callback: callback,
		status:   Status{State: StateDisabled},
		now:      func() time.Time { return time.Now().UTC() },
	}
	if cfg.S3.complete() {
		m.client = newS3Client(cfg.S3)
		m.status.State = StateIdle
	}
	return m
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Start begins the daily schedule. It does nothing when S3 or the
// passphrase is missing.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.status.State == StateDisabled || m.cfg.Passphrase == "" {
		m.mu.Unlock()
		m.logger.Info("scheduled backups disabled")
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	m.mu.Unlock()

	m.logger.Info("scheduled backups enabled", "hour", m.cfg.Hour, "retention", m.cfg.Retention)

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.checkSchedule(ctx)
			}
		}
	}()
}

// Stop gracefully stops the backup manager.
func (m *Manager) Stop() {
	m.mu.RLock()
	cancel := m.cancel
	done := m.done
	m.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Manager) setStatus(s Status) {
	m.mu.Lock()
	m.status = s
	m.mu.Unlock()
	if m.callback != nil {
		m.callback(s)
	}
}

func (m *Manager) fail(id int64, err error) {
	if id != 0 {
		if uerr := m.records.UpdateStatus(id, model.BackupStatusFailed, err.Error()); uerr != nil {
			m.logger.Error("record backup failure", "id", id, "error", uerr)
		}
	}
	m.setStatus(Status{State: StateError, Error: err.Error()})
}

// checkSchedule runs one backup and a retention cleanup the first time it is
// called during the configured hour of a day.
func (m *Manager) checkSchedule(ctx context.Context) {
	now := m.now()
	today := now.Format(model.DateLayout)
	if now.Hour() != m.cfg.Hour || m.lastRun == today {
		return
	}
	m.lastRun = today

	if _, err := m.RunNow(ctx, ""); err != nil {
		m.logger.Error("scheduled backup failed", "error", err)
	}
	if err := m.Cleanup(ctx); err != nil {
		m.logger.Error("backup cleanup failed", "error", err)
	}
}

// RunNow exports, encrypts and uploads the document. An empty passphrase
// falls back to the configured one.
func (m *Manager) RunNow(ctx context.Context, passphrase string) (*model.Backup, error) {
	m.mu.RLock()
	client := m.client
	bucket := m.cfg.S3.Bucket
	if passphrase == "" {
		passphrase = m.cfg.Passphrase
	}
	m.mu.RUnlock()

	if client == nil {
		return nil, ErrNotConfigured
	}
	if passphrase == "" {
		return nil, ErrNoPassphrase
	}
	if !m.runMu.TryLock() {
		return nil, ErrInProgress
	}
	defer m.runMu.Unlock()

	m.setStatus(Status{State: StateRunning, InProgress: true})

	timestamp := m.now().Format("2006-01-02T150405Z")
	filename := fmt.Sprintf("shopping-data-%s.json.enc", timestamp)
	s3Key := "exports/" + filename

	record, err := m.records.Create(filename, s3Key)
	if err != nil {
		m.fail(0, err)
		return nil, fmt.Errorf("create backup record: %w", err)
	}
	if err := m.records.UpdateStatus(record.ID, model.BackupStatusUploading, ""); err != nil {
		m.logger.Warn("mark backup uploading", "id", record.ID, "error", err)
	}

	doc := m.docs.ExportData()
	plaintext, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		m.fail(record.ID, err)
		return nil, fmt.Errorf("marshal export: %w", err)
	}

	encrypted, err := Encrypt(plaintext, passphrase)
	if err != nil {
		m.fail(record.ID, err)
		return nil, fmt.Errorf("encrypt: %w", err)
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(s3Key),
		Body:          bytes.NewReader(encrypted),
		ContentLength: aws.Int64(int64(len(encrypted))),
	})
	if err != nil {
		m.fail(record.ID, err)
		return nil, fmt.Errorf("upload to s3: %w", err)
	}

	items := doc.ItemCount()
	if err := m.records.UpdateCompleted(record.ID, int64(len(encrypted)), items); err != nil {
		m.fail(record.ID, err)
		return nil, err
	}

	now := m.now()
	m.setStatus(Status{State: StateIdle, LastBackup: &now})
	m.logger.Info("backup uploaded", "key", s3Key, "bytes", len(encrypted), "items", items)

	return m.records.GetByID(record.ID)
}

// fetch downloads the encrypted object behind a backup record.
func (m *Manager) fetch(ctx context.Context, id int64) ([]byte, error) {
	m.mu.RLock()
	client := m.client
	bucket := m.cfg.S3.Bucket
	m.mu.RUnlock()

	if client == nil {
		return nil, ErrNotConfigured
	}

	record, err := m.records.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("get backup: %w", err)
	}
	if record == nil {
		return nil, ErrNotFound
	}

	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(record.S3Key),
	})
	if err != nil {
		return nil, fmt.Errorf("download from s3: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	return data, nil
}

// Restore downloads, decrypts and imports a backup. The current document is
// replaced only when every step succeeds.
func (m *Manager) Restore(ctx context.Context, id int64, passphrase string) error {
	if passphrase == "" {
		passphrase = m.cfg.Passphrase
	}
	if passphrase == "" {
		return ErrNoPassphrase
	}

	data, err := m.fetch(ctx, id)
	if err != nil {
		return err
	}
	plaintext, err := Decrypt(data, passphrase)
	if err != nil {
		return fmt.Errorf("decrypt backup: %w", err)
	}
	if err := m.docs.ImportData(plaintext); err != nil {
		return fmt.Errorf("import backup: %w", err)
	}

	m.logger.Info("backup restored", "id", id)
	return nil
}

// Download returns the encrypted bytes of a backup for off-site keeping.
func (m *Manager) Download(ctx context.Context, id int64) ([]byte, error) {
	return m.fetch(ctx, id)
}

// Cleanup deletes backups older than the retention period, records first and
// then objects. Object deletion failures are logged and skipped.
func (m *Manager) Cleanup(ctx context.Context) error {
	m.mu.RLock()
	client := m.client
	bucket := m.cfg.S3.Bucket
	retention := m.cfg.Retention
	m.mu.RUnlock()

	if client == nil {
		return nil
	}
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}

	keys, err := m.records.DeleteOlderThan(m.now().Add(-retention))
	if err != nil {
		return fmt.Errorf("delete old backups: %w", err)
	}

	for _, key := range keys {
		if _, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		}); err != nil {
			m.logger.Warn("delete backup object", "key", key, "error", err)
		}
	}
	if len(keys) > 0 {
		m.logger.Info("removed old backups", "count", len(keys))
	}
	return nil
}
