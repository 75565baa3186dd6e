// Package reportstore keeps report metadata in SQL and rendered documents in
// Redis, and treats the pair as one record.
package reportstore

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
)

type metadataRepository interface {
	Insert(ctx context.Context, report domain.TaskReport) error
	Get(ctx context.Context, id string) (domain.TaskReport, error)
	ListByCreator(ctx context.Context, userID string) ([]domain.TaskReport, error)
	Delete(ctx context.Context, id string) error
}

type payloadStore interface {
	Put(ctx context.Context, id string, payload []byte) error
	Get(ctx context.Context, id string) ([]byte, error)
	Delete(ctx context.Context, id string) error
}

type Store struct {
	metadata metadataRepository
	payloads payloadStore
	logger   *zap.Logger
	newID    func() string
}

func New(metadata metadataRepository, payloads payloadStore, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{metadata: metadata, payloads: payloads, logger: logger, newID: uuid.NewString}
}

// Put writes the payload before the metadata so a listed report always has
// a document behind it.
func (s *Store) Put(ctx context.Context, report domain.TaskReport, payload []byte) (string, error) {
	report.ID = s.newID()
	if err := s.payloads.Put(ctx, report.ID, payload); err != nil {
		return "", err
	}
	if err := s.metadata.Insert(ctx, report); err != nil {
		if cleanupErr := s.payloads.Delete(ctx, report.ID); cleanupErr != nil {
			s.logger.Warn("orphaned report payload", zap.String("report_id", report.ID), zap.Error(cleanupErr))
		}
		return "", err
	}
	return report.ID, nil
}

func (s *Store) Get(ctx context.Context, id string) (domain.TaskReport, error) {
	return s.metadata.Get(ctx, id)
}

func (s *Store) ListByCreator(ctx context.Context, userID string) ([]domain.TaskReport, error) {
	return s.metadata.ListByCreator(ctx, userID)
}

func (s *Store) Payload(ctx context.Context, id string) ([]byte, error) {
	return s.payloads.Get(ctx, id)
}

// Delete drops the metadata first; a payload left behind by a failed second
// step is unreachable and only logged.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.metadata.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.payloads.Delete(ctx, id); err != nil {
		s.logger.Warn("orphaned report payload", zap.String("report_id", id), zap.Error(err))
	}
	return nil
}

var _ ports.ReportStore = (*Store)(nil)
