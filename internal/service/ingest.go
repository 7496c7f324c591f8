package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/yusufkecer/vitals-media-backend/internal/domain"
	"github.com/yusufkecer/vitals-media-backend/internal/logger"
)

type Importer struct {
	store    MetricStore
	recorder ImportRecorder
	logger   *logger.Logger
}

// NewImporter builds an importer; recorder may be nil.
func NewImporter(store MetricStore, recorder ImportRecorder, logger *logger.Logger) *Importer {
	return &Importer{store: store, recorder: recorder, logger: logger}
}

// Import parses a tabular upload for the given kind and commits every row, or none.
func (i *Importer) Import(ctx context.Context, userID int64, tag string, r io.Reader) (domain.ImportResult, error) {
	spec, err := domain.LookupKind(tag)
	if err != nil {
		return domain.ImportResult{}, err
	}

	samples, err := parseSamples(spec, r)
	if err != nil {
		return domain.ImportResult{}, err
	}
	for n := range samples {
		samples[n].UserID = userID
	}

	if err := i.store.UpsertBatch(ctx, spec, samples); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ImportResult{}, fmt.Errorf("%w: user %d", domain.ErrNotFound, userID)
		}
		return domain.ImportResult{}, fmt.Errorf("failed to import %s: %w", spec.Kind, err)
	}

	if i.recorder != nil {
		i.recorder.ObserveImport(spec.Kind, len(samples))
	}
	i.logger.Info("samples imported", "user_id", userID, "kind", spec.Kind, "rows", len(samples))

	return domain.ImportResult{Kind: spec.Kind, Rows: len(samples)}, nil
}
