package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/yusufkecer/vitals-media-backend/internal/domain"
)

type VideoRepository struct {
	db *sql.DB
}

func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

const videoSelect = `SELECT v.id, v.title, v.description, v.creation_date, v.video_path, v.thumbnail_path, v.views_count, f.id, f.favorite_date
		 FROM videos v %s JOIN favorite_videos f ON f.video_id = v.id`

func (r *VideoRepository) Create(ctx context.Context, v domain.Video) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO videos (title, description, creation_date, video_path, thumbnail_path, views_count)
		 VALUES (?, ?, ?, ?, ?, 0)`,
		v.Title, v.Description, v.CreationDate.UTC(), v.VideoPath, v.ThumbnailPath,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create video: %w", err)
	}
	return result.LastInsertId()
}

func (r *VideoRepository) GetByID(ctx context.Context, id int64) (*domain.Video, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(videoSelect, "LEFT")+` WHERE v.id = ?`, id)
	v, err := scanVideo(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	videos := []domain.Video{v}
	if err := r.attachComments(ctx, videos); err != nil {
		return nil, err
	}
	return &videos[0], nil
}

func (r *VideoRepository) List(ctx context.Context, skip, limit int) ([]domain.Video, error) {
	return r.query(ctx, fmt.Sprintf(videoSelect, "LEFT")+` ORDER BY v.id ASC LIMIT ? OFFSET ?`, limit, skip)
}

func (r *VideoRepository) TopByViews(ctx context.Context, n int) ([]domain.Video, error) {
	return r.query(ctx, fmt.Sprintf(videoSelect, "LEFT")+` ORDER BY v.views_count DESC, v.id ASC LIMIT ?`, n)
}

func (r *VideoRepository) TopRecentFavorites(ctx context.Context, n int) ([]domain.Video, error) {
	return r.query(ctx, fmt.Sprintf(videoSelect, "INNER")+` ORDER BY f.favorite_date DESC, f.id DESC LIMIT ?`, n)
}

// Search matches the text as a literal substring of the title or description.
func (r *VideoRepository) Search(ctx context.Context, text string) ([]domain.Video, error) {
	pattern := "%" + escapeLike(text) + "%"
	return r.query(ctx, fmt.Sprintf(videoSelect, "LEFT")+` WHERE v.title LIKE ? OR v.description LIKE ? ORDER BY v.id ASC`, pattern, pattern)
}

func (r *VideoRepository) IncrementViews(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE videos SET views_count = views_count + 1 WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to increment views: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to increment views: %w", err)
	}
	return n > 0, nil
}

func (r *VideoRepository) AddFavorite(ctx context.Context, videoID int64, at time.Time) (domain.FavoriteVideo, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO favorite_videos (video_id, favorite_date) VALUES (?, ?)`, videoID, at.UTC())
	if err != nil {
		return domain.FavoriteVideo{}, fmt.Errorf("failed to add favorite: %w", classify(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return domain.FavoriteVideo{}, fmt.Errorf("failed to read favorite id: %w", err)
	}
	return domain.FavoriteVideo{ID: id, VideoID: videoID, FavoriteDate: at.UTC()}, nil
}

func (r *VideoRepository) RemoveFavorite(ctx context.Context, videoID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM favorite_videos WHERE video_id = ?`, videoID)
	if err != nil {
		return false, fmt.Errorf("failed to remove favorite: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to remove favorite: %w", err)
	}
	return n > 0, nil
}

func (r *VideoRepository) AddComment(ctx context.Context, videoID int64, text string, at time.Time) (domain.Comment, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (video_id, comment, creation_date) VALUES (?, ?, ?)`, videoID, text, at.UTC())
	if err != nil {
		return domain.Comment{}, fmt.Errorf("failed to add comment: %w", classify(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return domain.Comment{}, fmt.Errorf("failed to read comment id: %w", err)
	}
	return domain.Comment{ID: id, VideoID: videoID, Comment: text, CreationDate: at.UTC()}, nil
}

func (r *VideoRepository) query(ctx context.Context, query string, args ...any) ([]domain.Video, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	videos := []domain.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	if err := r.attachComments(ctx, videos); err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *VideoRepository) attachComments(ctx context.Context, videos []domain.Video) error {
	if len(videos) == 0 {
		return nil
	}

	byID := make(map[int64]int, len(videos))
	args := make([]any, 0, len(videos))
	for i, v := range videos {
		byID[v.ID] = i
		args = append(args, v.ID)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ")

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, video_id, comment, creation_date FROM comments WHERE video_id IN (`+placeholders+`) ORDER BY creation_date ASC, id ASC`,
		args...)
	if err != nil {
		return fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.VideoID, &c.Comment, &c.CreationDate); err != nil {
			return fmt.Errorf("failed to scan comment: %w", err)
		}
		if i, ok := byID[c.VideoID]; ok {
			videos[i].Comments = append(videos[i].Comments, c)
		}
	}
	return rows.Err()
}

func scanVideo(sc scanner) (domain.Video, error) {
	var (
		v           domain.Video
		description sql.NullString
		favID       sql.NullInt64
		favDate     sql.NullTime
	)
	if err := sc.Scan(&v.ID, &v.Title, &description, &v.CreationDate, &v.VideoPath, &v.ThumbnailPath, &v.ViewsCount, &favID, &favDate); err != nil {
		return domain.Video{}, err
	}

	if description.Valid {
		v.Description = &description.String
	}
	if favID.Valid {
		v.Favorite = &domain.FavoriteVideo{ID: favID.Int64, VideoID: v.ID, FavoriteDate: favDate.Time}
	}
	v.Comments = []domain.Comment{}
	return v, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
