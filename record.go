package priem

import "context"

// RecordService persists admission records.
type RecordService interface {
	// CreateRecords stores records in one transaction. A record whose code
	// and study form already exist for the same source URL returns ECONFLICT.
	CreateRecords(ctx context.Context, records []*AdmissionRecord) error

	// FindRecords retrieves records matching the filter, ordered by code.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*AdmissionRecord, error)

	// DeleteRecordsBySource removes every record parsed from a page.
	DeleteRecordsBySource(ctx context.Context, sourceURL string) error
}

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	Code      *string `json:"code"`
	Level     *Level  `json:"level"`
	StudyForm *string `json:"studyForm"`
	SourceURL *string `json:"sourceUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
