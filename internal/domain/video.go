package domain

import (
	"io"
	"time"
)

const DefaultThumbnailPath = "/thumbnails/default_thumbnail.png"

type Video struct {
	ID            int64          `json:"id"`
	Title         string         `json:"title"`
	Description   *string        `json:"description"`
	CreationDate  time.Time      `json:"creationDate"`
	VideoPath     string         `json:"videoPath"`
	ThumbnailPath string         `json:"thumbnailPath"`
	ViewsCount    int64          `json:"viewsCount"`
	Favorite      *FavoriteVideo `json:"isFavorite"`
	Comments      []Comment      `json:"comments"`
}

type FavoriteVideo struct {
	ID           int64     `json:"id"`
	VideoID      int64     `json:"videoID"`
	FavoriteDate time.Time `json:"favoriteDate"`
}

type Comment struct {
	ID           int64     `json:"id"`
	VideoID      int64     `json:"videoID"`
	Comment      string    `json:"comment"`
	CreationDate time.Time `json:"creationDate"`
}

// Upload is a file received from a client.
type Upload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
}

type NewVideo struct {
	Title       string
	Description *string
	Video       Upload
	Thumbnail   *Upload
}
