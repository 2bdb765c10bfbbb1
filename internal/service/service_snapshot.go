package service

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/MKhiriev/go-church-sync/internal/logger"
	"github.com/MKhiriev/go-church-sync/internal/store"
	"github.com/MKhiriev/go-church-sync/models"
)

type snapshotService struct {
	repository store.SnapshotRepository

	// writeMu keeps the fan-out order equal to the write order.
	writeMu sync.Mutex

	mu     sync.Mutex
	subs   map[string]map[int]func(models.Snapshot)
	nextID int

	logger *logger.Logger
}

// NewSnapshotService returns the core remote store service. It expects valid
// collection names and snapshots; wrap it with NewSnapshotValidationService
// for untrusted input.
func NewSnapshotService(repository store.SnapshotRepository, logger *logger.Logger) SnapshotService {
	return &snapshotService{
		repository: repository,
		subs:       make(map[string]map[int]func(models.Snapshot)),
		logger:     logger,
	}
}

func (s *snapshotService) Get(ctx context.Context, collection string) (models.Snapshot, error) {
	path := remotePath(collection)

	snapshot, err := s.repository.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("get snapshot %s: %w", path, err)
	}
	return snapshot, nil
}

func (s *snapshotService) Put(ctx context.Context, collection string, snapshot models.Snapshot) error {
	log := logger.FromContext(ctx)
	path := remotePath(collection)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.repository.Put(ctx, path, snapshot); err != nil {
		log.Err(err).Str("path", path).Msg("snapshot write failed")
		return fmt.Errorf("put snapshot %s: %w", path, err)
	}

	s.mu.Lock()
	subscribers := slices.Collect(maps.Values(s.subs[collection]))
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot.Clone())
	}

	log.Debug().Str("path", path).Int("records", len(snapshot)).Int("subscribers", len(subscribers)).Msg("snapshot stored")
	return nil
}

func (s *snapshotService) Subscribe(_ context.Context, collection string, fn func(models.Snapshot)) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	if s.subs[collection] == nil {
		s.subs[collection] = make(map[int]func(models.Snapshot))
	}
	s.subs[collection][id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		delete(s.subs[collection], id)
		if len(s.subs[collection]) == 0 {
			delete(s.subs, collection)
		}
	}, nil
}

func remotePath(collection string) string {
	return models.RemotePathPrefix + collection
}
