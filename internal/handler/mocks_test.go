package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yusufkecer/vitals-media-backend/internal/domain"
	"github.com/yusufkecer/vitals-media-backend/internal/middleware"
	"github.com/yusufkecer/vitals-media-backend/internal/token"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req domain.RegisterRequest) (domain.TokenResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.TokenResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req domain.LoginRequest) (domain.TokenResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.TokenResponse), args.Error(1)
}

func (m *MockAuthService) Logout(claims *token.Claims) {
	m.Called(claims)
}

func (m *MockAuthService) Profile(ctx context.Context, userID int64) (domain.Profile, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.Profile), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, userID int64, upd domain.ProfileUpdate) (domain.Profile, error) {
	args := m.Called(ctx, userID, upd)
	return args.Get(0).(domain.Profile), args.Error(1)
}

func (m *MockAuthService) DeleteAccount(ctx context.Context, claims *token.Claims) error {
	return m.Called(ctx, claims).Error(0)
}

type MockVideoService struct {
	mock.Mock
}

func (m *MockVideoService) Create(ctx context.Context, in domain.NewVideo) (*domain.Video, error) {
	args := m.Called(ctx, in)
	v, _ := args.Get(0).(*domain.Video)
	return v, args.Error(1)
}

func (m *MockVideoService) Get(ctx context.Context, id int64) (*domain.Video, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*domain.Video)
	return v, args.Error(1)
}

func (m *MockVideoService) List(ctx context.Context, skip, limit int) ([]domain.Video, error) {
	args := m.Called(ctx, skip, limit)
	v, _ := args.Get(0).([]domain.Video)
	return v, args.Error(1)
}

func (m *MockVideoService) TopByViews(ctx context.Context) ([]domain.Video, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]domain.Video)
	return v, args.Error(1)
}

func (m *MockVideoService) TopFavorites(ctx context.Context) ([]domain.Video, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]domain.Video)
	return v, args.Error(1)
}

func (m *MockVideoService) Search(ctx context.Context, query string) ([]domain.Video, error) {
	args := m.Called(ctx, query)
	v, _ := args.Get(0).([]domain.Video)
	return v, args.Error(1)
}

func (m *MockVideoService) IncrementViews(ctx context.Context, id int64) (*domain.Video, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*domain.Video)
	return v, args.Error(1)
}

func (m *MockVideoService) AddFavorite(ctx context.Context, id int64) (domain.FavoriteVideo, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.FavoriteVideo), args.Error(1)
}

func (m *MockVideoService) RemoveFavorite(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockVideoService) AddComment(ctx context.Context, id int64, text string) (domain.Comment, error) {
	args := m.Called(ctx, id, text)
	return args.Get(0).(domain.Comment), args.Error(1)
}

type fakeImporter struct {
	userID int64
	tag    string
	body   string
	err    error
}

func (f *fakeImporter) Import(_ context.Context, userID int64, tag string, r io.Reader) (domain.ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.ImportResult{}, err
	}
	f.userID, f.tag, f.body = userID, tag, string(data)
	if f.err != nil {
		return domain.ImportResult{}, f.err
	}
	return domain.ImportResult{Kind: domain.Kind(tag), Rows: 2}, nil
}

type fakeResolver struct {
	view *domain.SampleView
	err  error
}

func (f *fakeResolver) Latest(context.Context, int64, string) (*domain.SampleView, error) {
	return f.view, f.err
}

type fakeHistory struct {
	kind, period string
	points       []domain.HistoryPoint
	err          error
}

func (f *fakeHistory) Query(_ context.Context, _ int64, kindTag, periodTag string) ([]domain.HistoryPoint, error) {
	f.kind, f.period = kindTag, periodTag
	return f.points, f.err
}

type fakeDashboard struct {
	env domain.Envelope
}

func (f *fakeDashboard) View(context.Context, int64) domain.Envelope {
	return f.env
}

// asUser attaches claims the way the auth middleware would.
func asUser(r *http.Request, userID int64) *http.Request {
	claims := &token.Claims{UserID: userID}
	claims.ID = "jti-test"
	return r.WithContext(middleware.WithClaims(r.Context(), claims))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
