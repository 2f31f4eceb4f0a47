package mock

import (
	"context"

	"github.com/stankin-rag/priem"
)

var _ priem.RecordService = (*RecordService)(nil)

// RecordService is a mock implementation of priem.RecordService.
type RecordService struct {
	CreateRecordsFn         func(ctx context.Context, records []*priem.AdmissionRecord) error
	FindRecordsFn           func(ctx context.Context, filter priem.RecordFilter) ([]*priem.AdmissionRecord, error)
	DeleteRecordsBySourceFn func(ctx context.Context, sourceURL string) error
}

func (s *RecordService) CreateRecords(ctx context.Context, records []*priem.AdmissionRecord) error {
	return s.CreateRecordsFn(ctx, records)
}

func (s *RecordService) FindRecords(ctx context.Context, filter priem.RecordFilter) ([]*priem.AdmissionRecord, error) {
	return s.FindRecordsFn(ctx, filter)
}

func (s *RecordService) DeleteRecordsBySource(ctx context.Context, sourceURL string) error {
	return s.DeleteRecordsBySourceFn(ctx, sourceURL)
}
