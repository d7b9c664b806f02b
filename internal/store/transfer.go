package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dukerupert/provisions/internal/model"
	"github.com/dukerupert/provisions/internal/notify"
)

var ErrInvalidImport = errors.New("invalid import data")

// ExportData returns a snapshot of the document tagged with the export time
// and tool. The snapshot is independent of the stored copy.
func (s *DocumentStore) ExportData() *model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load().Clone()
	now := s.now()
	doc.ExportedAt = &now
	doc.ExportedBy = model.ExportTool
	return doc
}

// ExportJSON renders ExportData as indented JSON, the export file format.
func (s *DocumentStore) ExportJSON() ([]byte, error) {
	data, err := json.MarshalIndent(s.ExportData(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return data, nil
}

// ImportData replaces the document with the JSON object in data. The
// candidate is upgraded and repaired the same way a stored document is, so
// partial documents are completed rather than rejected. On failure the
// stored document is left as it was.
func (s *DocumentStore) ImportData(data []byte) error {
	doc, err := decodeImport(data)
	if err != nil {
		s.logger.Warn("rejected import", "error", err)
		s.notifier.Notify(notify.LevelError, "Import failed: "+err.Error())
		return err
	}

	if doc.Dropped > 0 {
		s.logger.Warn("import dropped malformed items", "count", doc.Dropped)
		s.notifier.Notify(notify.LevelWarning, fmt.Sprintf("Import skipped %d malformed items", doc.Dropped))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.Version != model.SchemaVersion {
		upgrade(doc)
	}
	doc = Repair(doc, s.now())

	if err := s.save(doc); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	s.logger.Info("imported document", "version", doc.Version, "items", doc.ItemCount())
	s.notifier.Notify(notify.LevelSuccess, "Data imported successfully")
	return nil
}

func decodeImport(data []byte) (*model.Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidImport)
	}

	var doc model.Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	return &doc, nil
}
