package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yusufkecer/vitals-media-backend/internal/domain"
	"github.com/yusufkecer/vitals-media-backend/internal/logger"
)

const (
	videoPrefix     = "uploaded_videos/"
	thumbnailPrefix = "thumbnails/"

	DefaultPageSize = 10
	MaxPageSize     = 100
	topCount        = 10
)

type VideoService struct {
	videos  VideoStore
	objects ObjectStore
	now     func() time.Time
	logger  *logger.Logger
}

func NewVideoService(videos VideoStore, objects ObjectStore, now func() time.Time, logger *logger.Logger) *VideoService {
	return &VideoService{videos: videos, objects: objects, now: now, logger: logger}
}

// Create stores the media objects, then the row. Objects are removed again if the row cannot be written.
func (s *VideoService) Create(ctx context.Context, in domain.NewVideo) (*domain.Video, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidArgument)
	}
	if in.Video.Reader == nil {
		return nil, fmt.Errorf("%w: video file is required", domain.ErrInvalidArgument)
	}

	id := uuid.NewString()
	videoKey := videoPrefix + id + ".mp4"
	if err := s.objects.Upload(ctx, videoKey, in.Video.Reader, in.Video.Size, in.Video.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store video: %w", err)
	}
	keys := []string{videoKey}

	thumbnailPath := domain.DefaultThumbnailPath
	if in.Thumbnail != nil && in.Thumbnail.Reader != nil {
		thumbKey := thumbnailPrefix + id + ".jpg"
		if err := s.objects.Upload(ctx, thumbKey, in.Thumbnail.Reader, in.Thumbnail.Size, in.Thumbnail.ContentType); err != nil {
			s.cleanup(ctx, keys)
			return nil, fmt.Errorf("failed to store thumbnail: %w", err)
		}
		keys = append(keys, thumbKey)
		thumbnailPath = "/" + thumbKey
	}

	v := domain.Video{
		Title:         title,
		Description:   trimmedOrNil(in.Description),
		CreationDate:  s.now().UTC().Truncate(time.Second),
		VideoPath:     "/" + videoKey,
		ThumbnailPath: thumbnailPath,
		Comments:      []domain.Comment{},
	}

	vid, err := s.videos.Create(ctx, v)
	if err != nil {
		s.cleanup(ctx, keys)
		return nil, err
	}
	v.ID = vid

	s.logger.Info("video created", "video_id", vid, "path", v.VideoPath)
	return &v, nil
}

func (s *VideoService) Get(ctx context.Context, id int64) (*domain.Video, error) {
	v, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%w: video %d", domain.ErrNotFound, id)
	}
	return v, nil
}

// List pages through videos by id. A zero limit means DefaultPageSize; larger
// limits are capped at MaxPageSize.
func (s *VideoService) List(ctx context.Context, skip, limit int) ([]domain.Video, error) {
	if skip < 0 || limit < 0 {
		return nil, fmt.Errorf("%w: skip and limit must not be negative", domain.ErrInvalidArgument)
	}
	if limit == 0 {
		limit = DefaultPageSize
	}
	limit = min(limit, MaxPageSize)
	return s.videos.List(ctx, skip, limit)
}

func (s *VideoService) TopByViews(ctx context.Context) ([]domain.Video, error) {
	return s.videos.TopByViews(ctx, topCount)
}

func (s *VideoService) TopFavorites(ctx context.Context) ([]domain.Video, error) {
	return s.videos.TopRecentFavorites(ctx, topCount)
}

func (s *VideoService) Search(ctx context.Context, query string) ([]domain.Video, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidArgument)
	}
	return s.videos.Search(ctx, query)
}

func (s *VideoService) IncrementViews(ctx context.Context, id int64) (*domain.Video, error) {
	found, err := s.videos.IncrementViews(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: video %d", domain.ErrNotFound, id)
	}
	return s.Get(ctx, id)
}

func (s *VideoService) AddFavorite(ctx context.Context, id int64) (domain.FavoriteVideo, error) {
	fav, err := s.videos.AddFavorite(ctx, id, s.now().UTC().Truncate(time.Second))
	switch {
	case errors.Is(err, domain.ErrConflict):
		return domain.FavoriteVideo{}, fmt.Errorf("%w: video %d is already a favorite", domain.ErrConflict, id)
	case errors.Is(err, domain.ErrNotFound):
		return domain.FavoriteVideo{}, fmt.Errorf("%w: video %d", domain.ErrNotFound, id)
	case err != nil:
		return domain.FavoriteVideo{}, err
	}
	return fav, nil
}

func (s *VideoService) RemoveFavorite(ctx context.Context, id int64) error {
	found, err := s.videos.RemoveFavorite(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: video %d is not a favorite", domain.ErrNotFound, id)
	}
	return nil
}

func (s *VideoService) AddComment(ctx context.Context, id int64, text string) (domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Comment{}, fmt.Errorf("%w: comment must not be empty", domain.ErrInvalidArgument)
	}

	c, err := s.videos.AddComment(ctx, id, text, s.now().UTC().Truncate(time.Second))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Comment{}, fmt.Errorf("%w: video %d", domain.ErrNotFound, id)
	}
	return c, err
}

func (s *VideoService) cleanup(ctx context.Context, keys []string) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		if err := s.objects.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to remove orphaned object", "key", key, "error", err)
		}
	}
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
