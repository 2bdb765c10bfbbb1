package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-church-sync/models"
)

// Export implements CollectionStore. Every known collection is present, keys
// are export names in sorted order.
func (s *collectionStore) Export(_ context.Context) ([]byte, error) {
	backup := make(map[string]models.Snapshot, len(models.Collections))
	for _, c := range models.Collections {
		backup[c.ExportName] = s.Get(c.Name)
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return data, nil
}

// Import implements CollectionStore.
func (s *collectionStore) Import(ctx context.Context, data []byte) error {
	staged, err := s.stageImport(ctx, data)
	if err != nil {
		return err
	}
	if s.isClosed() {
		return ErrStoreClosed
	}

	s.applyMu.Lock()
	if err = s.cache.SaveAll(ctx, staged); err != nil {
		s.applyMu.Unlock()
		return fmt.Errorf("%w: %w", ErrImportFailed, err)
	}
	for name, snapshot := range staged {
		s.setMemory(name, snapshot)
	}
	s.applyMu.Unlock()

	for _, c := range models.Collections {
		snapshot, ok := staged[c.Name]
		if !ok {
			continue
		}
		s.notify(c.Name)
		s.schedulePush(c.Name, snapshot)
	}
	s.channel.Announce(models.RefreshAllTopic)

	s.logger.Info().Int("collections", len(staged)).Msg("backup imported")
	return nil
}

// stageImport decodes and validates every collection of a backup. Unknown
// keys are logged and skipped.
func (s *collectionStore) stageImport(ctx context.Context, data []byte) (map[string]models.Snapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: backup must be a JSON object: %w", ErrMalformedImport, err)
	}

	staged := make(map[string]models.Snapshot, len(raw))
	for key, value := range raw {
		c, ok := models.LookupExportName(key)
		if !ok {
			s.logger.Warn().Str("key", key).Msg("ignoring unknown collection in backup")
			continue
		}

		snapshot, err := models.ParseSnapshot(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedImport, key, err)
		}
		if err = s.validator.Validate(ctx, snapshot); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedImport, key, err)
		}
		staged[c.Name] = snapshot
	}

	if len(staged) == 0 {
		return nil, fmt.Errorf("%w: no known collections", ErrMalformedImport)
	}
	return staged, nil
}
