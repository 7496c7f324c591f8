package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yusufkecer/vitals-media-backend/internal/domain"
)

// memStore is an in-memory MetricStore keyed like the tables: (user, date).
type memStore struct {
	mu      sync.Mutex
	rows    map[domain.Kind]map[memKey]domain.Sample
	err     error
	batches int
}

type memKey struct {
	user int64
	date int64
}

func newMemStore() *memStore {
	return &memStore{rows: map[domain.Kind]map[memKey]domain.Sample{}}
}

func (m *memStore) UpsertBatch(_ context.Context, spec domain.KindSpec, samples []domain.Sample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, s := range samples {
		if len(s.Values) != len(spec.Columns) {
			return fmt.Errorf("%w: bad sample", domain.ErrInvalidArgument)
		}
	}
	table := m.rows[spec.Kind]
	if table == nil {
		table = map[memKey]domain.Sample{}
		m.rows[spec.Kind] = table
	}
	for _, s := range samples {
		table[memKey{s.UserID, s.Date.Unix()}] = s
	}
	m.batches++
	return nil
}

func (m *memStore) put(kind domain.Kind, s domain.Sample) {
	if err := m.UpsertBatch(context.Background(), domain.MustKind(kind), []domain.Sample{s}); err != nil {
		panic(err)
	}
}

func (m *memStore) count(kind domain.Kind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows[kind])
}

func (m *memStore) sorted(kind domain.Kind, userID int64, keep func(time.Time) bool) []domain.Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Sample{}
	for k, s := range m.rows[kind] {
		if k.user == userID && keep(s.Date) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (m *memStore) Latest(_ context.Context, spec domain.KindSpec, userID int64) (*domain.Sample, error) {
	if m.err != nil {
		return nil, m.err
	}
	all := m.sorted(spec.Kind, userID, func(time.Time) bool { return true })
	if len(all) == 0 {
		return nil, nil
	}
	return &all[len(all)-1], nil
}

func (m *memStore) Since(_ context.Context, spec domain.KindSpec, userID int64, from time.Time) ([]domain.Sample, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(spec.Kind, userID, func(d time.Time) bool { return !d.Before(from) }), nil
}

func (m *memStore) Between(_ context.Context, spec domain.KindSpec, userID int64, from, to time.Time) ([]domain.Sample, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(spec.Kind, userID, func(d time.Time) bool { return !d.Before(from) && d.Before(to) }), nil
}

func (m *memStore) Sum(ctx context.Context, spec domain.KindSpec, column string, userID int64, from, to time.Time) (int64, error) {
	samples, err := m.Between(ctx, spec, userID, from, to)
	if err != nil {
		return 0, err
	}
	i := spec.Index(column)
	var total int64
	for _, s := range samples {
		total += s.Int(i)
	}
	return total, nil
}

type recorder struct {
	counts map[domain.Kind]int
}

func (r *recorder) ObserveImport(kind domain.Kind, rows int) {
	if r.counts == nil {
		r.counts = map[domain.Kind]int{}
	}
	r.counts[kind] += rows
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, u domain.User, initial ...domain.Measurement) (int64, error) {
	args := m.Called(ctx, u, initial)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *MockUserStore) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	args := m.Called(ctx, login)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *MockUserStore) Update(ctx context.Context, id int64, c domain.UserChanges) error {
	args := m.Called(ctx, id, c)
	return args.Error(0)
}

func (m *MockUserStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockVideoStore struct {
	mock.Mock
}

func (m *MockVideoStore) Create(ctx context.Context, v domain.Video) (int64, error) {
	args := m.Called(ctx, v)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVideoStore) GetByID(ctx context.Context, id int64) (*domain.Video, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*domain.Video)
	return v, args.Error(1)
}

func (m *MockVideoStore) List(ctx context.Context, skip, limit int) ([]domain.Video, error) {
	args := m.Called(ctx, skip, limit)
	return args.Get(0).([]domain.Video), args.Error(1)
}

func (m *MockVideoStore) TopByViews(ctx context.Context, n int) ([]domain.Video, error) {
	args := m.Called(ctx, n)
	return args.Get(0).([]domain.Video), args.Error(1)
}

func (m *MockVideoStore) TopRecentFavorites(ctx context.Context, n int) ([]domain.Video, error) {
	args := m.Called(ctx, n)
	return args.Get(0).([]domain.Video), args.Error(1)
}

func (m *MockVideoStore) Search(ctx context.Context, text string) ([]domain.Video, error) {
	args := m.Called(ctx, text)
	return args.Get(0).([]domain.Video), args.Error(1)
}

func (m *MockVideoStore) IncrementViews(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockVideoStore) AddFavorite(ctx context.Context, videoID int64, at time.Time) (domain.FavoriteVideo, error) {
	args := m.Called(ctx, videoID, at)
	return args.Get(0).(domain.FavoriteVideo), args.Error(1)
}

func (m *MockVideoStore) RemoveFavorite(ctx context.Context, videoID int64) (bool, error) {
	args := m.Called(ctx, videoID)
	return args.Bool(0), args.Error(1)
}

func (m *MockVideoStore) AddComment(ctx context.Context, videoID int64, text string, at time.Time) (domain.Comment, error) {
	args := m.Called(ctx, videoID, text, at)
	return args.Get(0).(domain.Comment), args.Error(1)
}

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, r, size, contentType)
	return args.Error(0)
}

func (m *MockObjectStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
