package handler

import (
	"context"
	"io"
	"mime"
	"net/http"

	"github.com/yusufkecer/vitals-media-backend/internal/domain"
	"github.com/yusufkecer/vitals-media-backend/internal/logger"
)

const multipartMemory = 32 << 20

type Importer interface {
	Import(ctx context.Context, userID int64, tag string, r io.Reader) (domain.ImportResult, error)
}

type LatestResolver interface {
	Latest(ctx context.Context, userID int64, tag string) (*domain.SampleView, error)
}

type HistoryQuery interface {
	Query(ctx context.Context, userID int64, kindTag, periodTag string) ([]domain.HistoryPoint, error)
}

type DashboardViewer interface {
	View(ctx context.Context, userID int64) domain.Envelope
}

type MetricHandler struct {
	importer  Importer
	resolver  LatestResolver
	history   HistoryQuery
	dashboard DashboardViewer
	log       *logger.Logger
}

func NewMetricHandler(importer Importer, resolver LatestResolver, history HistoryQuery, dashboard DashboardViewer, log *logger.Logger) *MetricHandler {
	return &MetricHandler{importer: importer, resolver: resolver, history: history, dashboard: dashboard, log: log}
}

// Import accepts the file either as the multipart field "file" or as the raw body.
func (h *MetricHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	tag := r.URL.Query().Get("data_type")
	if tag == "" {
		writeError(w, http.StatusBadRequest, "data_type is required")
		return
	}

	var body io.Reader = r.Body
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			writeBodyError(w, r, h.log, err, "invalid multipart form")
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "file is required")
			return
		}
		defer file.Close()
		body = file
	}

	res, err := h.importer.Import(r.Context(), userID, tag, body)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, domain.Envelope{
		Status:  domain.StatusSuccess,
		Message: "data imported successfully",
		Data:    res,
	})
}

// View always answers 200; storage faults arrive as an error envelope.
func (h *MetricHandler) View(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.dashboard.View(r.Context(), userID))
}

func (h *MetricHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	points, err := h.history.Query(r.Context(), userID, q.Get("data_type"), q.Get("period"))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, domain.Success(points))
}

func (h *MetricHandler) Latest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	view, err := h.resolver.Latest(r.Context(), userID, r.URL.Query().Get("data_type"))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	if view == nil {
		writeJSON(w, http.StatusOK, domain.SuccessMessage("no data recorded"))
		return
	}

	writeJSON(w, http.StatusOK, domain.Success(view))
}
