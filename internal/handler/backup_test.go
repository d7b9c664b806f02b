package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/provisions/internal/backup"
	"github.com/dukerupert/provisions/internal/model"
	"github.com/dukerupert/provisions/internal/store"
)

type fakeRunner struct {
	records    *store.BackupStore
	runErr     error
	restoreErr error
	passphrase string
	restored   int64
	blobs      map[int64][]byte
}

func (f *fakeRunner) RunNow(_ context.Context, passphrase string) (*model.Backup, error) {
	f.passphrase = passphrase
	if f.runErr != nil {
		return nil, f.runErr
	}
	rec, err := f.records.Create("shopping-data-test.json.enc", "exports/shopping-data-test.json.enc")
	if err != nil {
		return nil, err
	}
	if err := f.records.UpdateCompleted(rec.ID, 42, 3); err != nil {
		return nil, err
	}
	f.blobs[rec.ID] = []byte("ciphertext")
	return f.records.GetByID(rec.ID)
}

func (f *fakeRunner) Restore(_ context.Context, id int64, passphrase string) error {
	f.passphrase = passphrase
	if f.restoreErr != nil {
		return f.restoreErr
	}
	f.restored = id
	return nil
}

func (f *fakeRunner) Download(_ context.Context, id int64) ([]byte, error) {
	data, ok := f.blobs[id]
	if !ok {
		return nil, backup.ErrNotFound
	}
	return data, nil
}

func (f *fakeRunner) Status() backup.Status {
	return backup.Status{State: backup.StateIdle}
}

type backupListResponse struct {
	Backups   []model.Backup `json:"backups"`
	TotalSize string         `json:"totalSize"`
}

func setupBackupHandler(t *testing.T) (*BackupHandler, *fakeRunner) {
	t.Helper()
	env := setupEnv(t)
	runner := &fakeRunner{records: env.records, blobs: map[int64][]byte{}}
	return NewBackupHandler(runner, env.records, env.hub, testLogger()), runner
}

func TestBackupRunAndList(t *testing.T) {
	h, runner := setupBackupHandler(t)

	rec := httptest.NewRecorder()
	h.Run(rec, request("POST", "/", map[string]string{"passphrase": "secret"}, nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("run status = %d: %s", rec.Code, rec.Body.String())
	}
	if runner.passphrase != "secret" {
		t.Errorf("passphrase = %q", runner.passphrase)
	}
	created := decode[model.Backup](t, rec)
	if created.Status != model.BackupStatusCompleted || created.ItemCount != 3 {
		t.Errorf("backup = %+v", created)
	}

	rec = httptest.NewRecorder()
	h.List(rec, request("GET", "/", nil, nil))
	resp := decode[backupListResponse](t, rec)
	if len(resp.Backups) != 1 || resp.TotalSize != "42 B" {
		t.Errorf("list = %+v", resp)
	}
}

func TestBackupRunWithoutBody(t *testing.T) {
	h, runner := setupBackupHandler(t)
	runner.passphrase = "unset"

	rec := httptest.NewRecorder()
	h.Run(rec, request("POST", "/", nil, nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	if runner.passphrase != "" {
		t.Errorf("passphrase = %q, want configured fallback", runner.passphrase)
	}
}

func TestBackupErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{backup.ErrNotConfigured, http.StatusServiceUnavailable},
		{backup.ErrNoPassphrase, http.StatusServiceUnavailable},
		{backup.ErrInProgress, http.StatusConflict},
		{fmt.Errorf("get: %w", backup.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("decrypt backup: %w", backup.ErrWrongPassphrase), http.StatusUnprocessableEntity},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := backupErrorStatus(tt.err); got != tt.want {
			t.Errorf("backupErrorStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestBackupRunNotConfigured(t *testing.T) {
	h, runner := setupBackupHandler(t)
	runner.runErr = backup.ErrNotConfigured

	rec := httptest.NewRecorder()
	h.Run(rec, request("POST", "/", nil, nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestBackupRestore(t *testing.T) {
	h, runner := setupBackupHandler(t)

	rec := httptest.NewRecorder()
	h.Restore(rec, request("POST", "/", map[string]string{"passphrase": "pw"}, map[string]string{"id": "7"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if runner.restored != 7 || runner.passphrase != "pw" {
		t.Errorf("restored = %d with %q", runner.restored, runner.passphrase)
	}

	runner.restoreErr = fmt.Errorf("decrypt backup: %w", backup.ErrWrongPassphrase)
	rec = httptest.NewRecorder()
	h.Restore(rec, request("POST", "/", map[string]string{"passphrase": "bad"}, map[string]string{"id": "7"}))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("wrong passphrase status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Restore(rec, request("POST", "/", nil, map[string]string{"id": "abc"}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d", rec.Code)
	}
}

func TestBackupDownload(t *testing.T) {
	h, _ := setupBackupHandler(t)

	rec := httptest.NewRecorder()
	h.Run(rec, request("POST", "/", nil, nil))
	created := decode[model.Backup](t, rec)

	rec = httptest.NewRecorder()
	h.Download(rec, request("GET", "/", nil, map[string]string{"id": fmt.Sprint(created.ID)}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != "ciphertext" {
		t.Errorf("body = %q", rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="shopping-data-test.json.enc"` {
		t.Errorf("Content-Disposition = %q", cd)
	}

	rec = httptest.NewRecorder()
	h.Download(rec, request("GET", "/", nil, map[string]string{"id": "999"}))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing status = %d", rec.Code)
	}
}

func TestBackupStatus(t *testing.T) {
	h, _ := setupBackupHandler(t)

	rec := httptest.NewRecorder()
	h.Status(rec, request("GET", "/", nil, nil))
	status := decode[backup.Status](t, rec)
	if status.State != backup.StateIdle {
		t.Errorf("state = %q", status.State)
	}
}
