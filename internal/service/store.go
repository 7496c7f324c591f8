package service

import (
	"context"
	"io"
	"time"

	"github.com/yusufkecer/vitals-media-backend/internal/domain"
	"github.com/yusufkecer/vitals-media-backend/internal/token"
)

type MetricStore interface {
	UpsertBatch(ctx context.Context, spec domain.KindSpec, samples []domain.Sample) error
	Latest(ctx context.Context, spec domain.KindSpec, userID int64) (*domain.Sample, error)
	Since(ctx context.Context, spec domain.KindSpec, userID int64, from time.Time) ([]domain.Sample, error)
	Between(ctx context.Context, spec domain.KindSpec, userID int64, from, to time.Time) ([]domain.Sample, error)
	Sum(ctx context.Context, spec domain.KindSpec, column string, userID int64, from, to time.Time) (int64, error)
}

type UserStore interface {
	Create(ctx context.Context, u domain.User, initial ...domain.Measurement) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	Update(ctx context.Context, id int64, c domain.UserChanges) error
	Delete(ctx context.Context, id int64) error
}

type VideoStore interface {
	Create(ctx context.Context, v domain.Video) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Video, error)
	List(ctx context.Context, skip, limit int) ([]domain.Video, error)
	TopByViews(ctx context.Context, n int) ([]domain.Video, error)
	TopRecentFavorites(ctx context.Context, n int) ([]domain.Video, error)
	Search(ctx context.Context, text string) ([]domain.Video, error)
	IncrementViews(ctx context.Context, id int64) (bool, error)
	AddFavorite(ctx context.Context, videoID int64, at time.Time) (domain.FavoriteVideo, error)
	RemoveFavorite(ctx context.Context, videoID int64) (bool, error)
	AddComment(ctx context.Context, videoID int64, text string, at time.Time) (domain.Comment, error)
}

type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
}

type TokenManager interface {
	Issue(userID int64) (token.Issued, error)
	Parse(raw string) (*token.Claims, error)
}

type Revoker interface {
	Revoke(jti string, expiresAt time.Time)
	IsRevoked(jti string) bool
}

// ImportRecorder counts committed samples per kind.
type ImportRecorder interface {
	ObserveImport(kind domain.Kind, rows int)
}
