package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-church-sync/internal/logger"
	"github.com/MKhiriev/go-church-sync/internal/mock"
	"github.com/MKhiriev/go-church-sync/internal/store"
	"github.com/MKhiriev/go-church-sync/models"
)

func newSnapshotService(t *testing.T) (SnapshotService, *mock.MockSnapshotRepository) {
	t.Helper()
	repo := mock.NewMockSnapshotRepository(gomock.NewController(t))
	return NewSnapshotValidationService().Wrap(NewSnapshotService(repo, logger.Nop())), repo
}

// ─────────────────────────────────────────────
// Get
// ─────────────────────────────────────────────

func TestSnapshotService_Get(t *testing.T) {
	svc, repo := newSnapshotService(t)
	want := models.MustParseSnapshot(`[{"id":"c1","title":"Escola bíblica"}]`)

	repo.EXPECT().Get(gomock.Any(), "churchData/courses").Return(want, nil)

	got, err := svc.Get(context.Background(), "courses")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
}

func TestSnapshotService_Get_NotFoundKeepsSentinel(t *testing.T) {
	svc, repo := newSnapshotService(t)
	repo.EXPECT().Get(gomock.Any(), "churchData/media").Return(nil, store.ErrSnapshotNotFound)

	_, err := svc.Get(context.Background(), "media")
	assert.ErrorIs(t, err, store.ErrSnapshotNotFound)
}

func TestSnapshotService_Get_UnknownCollection(t *testing.T) {
	svc, repo := newSnapshotService(t)
	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)

	for _, name := range []string{"", "sermons", "churchData/members"} {
		_, err := svc.Get(context.Background(), name)
		assert.ErrorIs(t, err, ErrUnknownCollection, name)
	}
}

// ─────────────────────────────────────────────
// Put
// ─────────────────────────────────────────────

func TestSnapshotService_Put_FansOutToSubscribers(t *testing.T) {
	svc, repo := newSnapshotService(t)
	ctx := context.Background()
	snapshot := models.MustParseSnapshot(`[{"id":"m1","name":"Ana"}]`)

	repo.EXPECT().Put(gomock.Any(), "churchData/members", snapshot).Return(nil)

	var mu sync.Mutex
	var members, events []models.Snapshot
	unsubscribeMembers, err := svc.Subscribe(ctx, "members", func(s models.Snapshot) {
		mu.Lock()
		members = append(members, s)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer unsubscribeMembers()

	unsubscribeEvents, err := svc.Subscribe(ctx, "events", func(s models.Snapshot) {
		mu.Lock()
		events = append(events, s)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer unsubscribeEvents()

	require.NoError(t, svc.Put(ctx, "members", snapshot))

	require.Len(t, members, 1)
	assert.True(t, snapshot.Equal(members[0]))
	assert.Empty(t, events)
}

func TestSnapshotService_Put_Unsubscribed(t *testing.T) {
	svc, repo := newSnapshotService(t)
	ctx := context.Background()

	repo.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	calls := 0
	unsubscribe, err := svc.Subscribe(ctx, "notices", func(models.Snapshot) { calls++ })
	require.NoError(t, err)

	require.NoError(t, svc.Put(ctx, "notices", models.Snapshot{}))
	unsubscribe()
	require.NoError(t, svc.Put(ctx, "notices", models.Snapshot{}))

	assert.Equal(t, 1, calls)
}

func TestSnapshotService_Put_RepositoryFailureSkipsFanOut(t *testing.T) {
	svc, repo := newSnapshotService(t)
	ctx := context.Background()
	dbErr := errors.New("connection refused")

	repo.EXPECT().Put(gomock.Any(), "churchData/deps", gomock.Any()).Return(dbErr)

	calls := 0
	_, err := svc.Subscribe(ctx, "deps", func(models.Snapshot) { calls++ })
	require.NoError(t, err)

	err = svc.Put(ctx, "deps", models.Snapshot{})
	assert.ErrorIs(t, err, dbErr)
	assert.Zero(t, calls)
}

func TestSnapshotService_Put_Rejects(t *testing.T) {
	tests := []struct {
		name       string
		collection string
		snapshot   models.Snapshot
		wantErr    error
	}{
		{
			name:       "unknown collection",
			collection: "sermons",
			snapshot:   models.Snapshot{},
			wantErr:    ErrUnknownCollection,
		},
		{
			name:       "record without id",
			collection: "members",
			snapshot:   models.MustParseSnapshot(`[{"name":"Ana"}]`),
			wantErr:    ErrInvalidSnapshot,
		},
		{
			name:       "duplicate ids",
			collection: "events",
			snapshot:   models.MustParseSnapshot(`[{"id":"1"},{"id":"1"}]`),
			wantErr:    ErrInvalidSnapshot,
		},
		{
			name:       "record is not an object",
			collection: "cults",
			snapshot:   models.MustParseSnapshot(`[42]`),
			wantErr:    ErrInvalidSnapshot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newSnapshotService(t)
			repo.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			err := svc.Put(context.Background(), tt.collection, tt.snapshot)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// Subscribers see writes in the order they were stored.
func TestSnapshotService_Put_OrderedFanOut(t *testing.T) {
	svc, repo := newSnapshotService(t)
	ctx := context.Background()

	repo.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	var seen []string
	_, err := svc.Subscribe(ctx, "carousel", func(s models.Snapshot) {
		seen = append(seen, s.IDs()[0])
	})
	require.NoError(t, err)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, svc.Put(ctx, "carousel", models.MustParseSnapshot(`[{"id":"`+id+`"}]`)))
	}
	assert.Equal(t, []string{"a", "b", "c"}, seen)
}

func TestSnapshotService_Subscribe_UnknownCollection(t *testing.T) {
	svc, _ := newSnapshotService(t)

	unsubscribe, err := svc.Subscribe(context.Background(), "sermons", func(models.Snapshot) {})
	assert.ErrorIs(t, err, ErrUnknownCollection)
	assert.Nil(t, unsubscribe)
}
