package handler

import (
	"context"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/yusufkecer/vitals-media-backend/internal/domain"
	"github.com/yusufkecer/vitals-media-backend/internal/logger"
)

type VideoService interface {
	Create(ctx context.Context, in domain.NewVideo) (*domain.Video, error)
	Get(ctx context.Context, id int64) (*domain.Video, error)
	List(ctx context.Context, skip, limit int) ([]domain.Video, error)
	TopByViews(ctx context.Context) ([]domain.Video, error)
	TopFavorites(ctx context.Context) ([]domain.Video, error)
	Search(ctx context.Context, query string) ([]domain.Video, error)
	IncrementViews(ctx context.Context, id int64) (*domain.Video, error)
	AddFavorite(ctx context.Context, id int64) (domain.FavoriteVideo, error)
	RemoveFavorite(ctx context.Context, id int64) error
	AddComment(ctx context.Context, id int64, text string) (domain.Comment, error)
}

type VideoHandler struct {
	videos VideoService
	log    *logger.Logger
}

func NewVideoHandler(videos VideoService, log *logger.Logger) *VideoHandler {
	return &VideoHandler{videos: videos, log: log}
}

type commentRequest struct {
	Comment string `json:"comment"`
}

// Create expects multipart fields title, description (optional), videoFile and thumbnailFile (optional).
func (h *VideoHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeBodyError(w, r, h.log, err, "invalid multipart form")
		return
	}

	video, videoHeader, err := r.FormFile("videoFile")
	if err != nil {
		writeError(w, http.StatusBadRequest, "videoFile is required")
		return
	}
	defer video.Close()

	in := domain.NewVideo{
		Title: r.FormValue("title"),
		Video: upload(video, videoHeader),
	}
	if values, ok := r.MultipartForm.Value["description"]; ok && len(values) > 0 {
		in.Description = &values[0]
	}

	thumb, thumbHeader, err := r.FormFile("thumbnailFile")
	switch {
	case err == nil:
		defer thumb.Close()
		t := upload(thumb, thumbHeader)
		in.Thumbnail = &t
	case !errors.Is(err, http.ErrMissingFile):
		writeError(w, http.StatusBadRequest, "invalid thumbnailFile")
		return
	}

	v, err := h.videos.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, domain.Success(v))
}

func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid skip")
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	h.writeVideos(w, r)(h.videos.List(r.Context(), skip, limit))
}

func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	v, err := h.videos.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.Success(v))
}

func (h *VideoHandler) TopViews(w http.ResponseWriter, r *http.Request) {
	h.writeVideos(w, r)(h.videos.TopByViews(r.Context()))
}

func (h *VideoHandler) TopFavorites(w http.ResponseWriter, r *http.Request) {
	h.writeVideos(w, r)(h.videos.TopFavorites(r.Context()))
}

func (h *VideoHandler) Search(w http.ResponseWriter, r *http.Request) {
	h.writeVideos(w, r)(h.videos.Search(r.Context(), r.URL.Query().Get("query")))
}

func (h *VideoHandler) IncrementViews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	v, err := h.videos.IncrementViews(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.Success(v))
}

func (h *VideoHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	fav, err := h.videos.AddFavorite(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, domain.Success(fav))
}

func (h *VideoHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.videos.RemoveFavorite(r.Context(), id); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.SuccessMessage("favorite removed"))
}

func (h *VideoHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	text, err := commentText(r)
	if err != nil {
		writeBodyError(w, r, h.log, err, "invalid request body")
		return
	}

	c, err := h.videos.AddComment(r.Context(), id, text)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, domain.Success(c))
}

func (h *VideoHandler) writeVideos(w http.ResponseWriter, r *http.Request) func([]domain.Video, error) {
	return func(videos []domain.Video, err error) {
		if err != nil {
			writeServiceError(w, r, h.log, err)
			return
		}
		if videos == nil {
			videos = []domain.Video{}
		}
		writeJSON(w, http.StatusOK, domain.Success(videos))
	}
}

func upload(f multipart.File, header *multipart.FileHeader) domain.Upload {
	return domain.Upload{Reader: f, Size: header.Size, ContentType: header.Header.Get("Content-Type")}
}

// commentText reads "comment" from a JSON body or from a form field.
func commentText(r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return "", err
		}
		return r.PostForm.Get("comment"), nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return "", err
		}
		return r.PostFormValue("comment"), nil
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		return "", err
	}
	return req.Comment, nil
}
