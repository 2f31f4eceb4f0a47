package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stankin-rag/priem"
)

// Compile-time interface verification.
var _ priem.RecordService = (*RecordService)(nil)

// RecordService implements priem.RecordService using SQLite.
type RecordService struct {
	db *DB
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db}
}

const recordColumns = `code, name, level, study_form, subjects, subjects_raw,
	tuition_domestic, tuition_foreign, seats_budget, seats_paid_domestic, seats_paid_foreign,
	quota_separate, quota_special, quota_target, historical_scores, source_url`

// CreateRecords stores records in one transaction.
func (s *RecordService) CreateRecords(ctx context.Context, records []*priem.AdmissionRecord) error {
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO records (id, created_at, `+recordColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, r := range records {
			subjects, err := json.Marshal(nonNil(r.Subjects))
			if err != nil {
				return err
			}
			scores, err := json.Marshal(r.HistoricalScores)
			if err != nil {
				return err
			}
			_, err = stmt.ExecContext(ctx, uuid.New().String(), now,
				r.Code, r.Name, string(r.Level), r.StudyForm, string(subjects), r.SubjectsRaw,
				r.TuitionDomestic, r.TuitionForeign, r.SeatsBudget, r.SeatsPaidDomestic, r.SeatsPaidForeign,
				r.QuotaSeparate, r.QuotaSpecial, r.QuotaTarget, string(scores), r.SourceURL)
			if isUniqueViolation(err) {
				return priem.Errorf(priem.ECONFLICT, "program %s (%s) already stored for %s", r.Code, r.StudyForm, r.SourceURL)
			}
			if err != nil {
				return fmt.Errorf("inserting program %s: %w", r.Code, err)
			}
		}
		return nil
	})
}

// FindRecords retrieves records matching the filter, ordered by code.
func (s *RecordService) FindRecords(ctx context.Context, filter priem.RecordFilter) ([]*priem.AdmissionRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + recordColumns + " FROM records WHERE 1=1")

	if filter.Code != nil {
		query.WriteString(" AND code = ?")
		args = append(args, *filter.Code)
	}
	if filter.Level != nil {
		query.WriteString(" AND level = ?")
		args = append(args, string(*filter.Level))
	}
	if filter.StudyForm != nil {
		query.WriteString(" AND study_form = ?")
		args = append(args, *filter.StudyForm)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}
	query.WriteString(" ORDER BY code, study_form, source_url")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*priem.AdmissionRecord
	for rows.Next() {
		var (
			r                priem.AdmissionRecord
			level            string
			subjects, scores string
		)
		if err := rows.Scan(&r.Code, &r.Name, &level, &r.StudyForm, &subjects, &r.SubjectsRaw,
			&r.TuitionDomestic, &r.TuitionForeign, &r.SeatsBudget, &r.SeatsPaidDomestic, &r.SeatsPaidForeign,
			&r.QuotaSeparate, &r.QuotaSpecial, &r.QuotaTarget, &scores, &r.SourceURL); err != nil {
			return nil, err
		}
		r.Level = priem.Level(level)
		if err := json.Unmarshal([]byte(subjects), &r.Subjects); err != nil {
			return nil, fmt.Errorf("program %s subjects: %w", r.Code, err)
		}
		if err := json.Unmarshal([]byte(scores), &r.HistoricalScores); err != nil {
			return nil, fmt.Errorf("program %s scores: %w", r.Code, err)
		}
		records = append(records, &r)
	}

	return records, rows.Err()
}

// DeleteRecordsBySource removes every record parsed from a page.
func (s *RecordService) DeleteRecordsBySource(ctx context.Context, sourceURL string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE source_url = ?", sourceURL)
	return err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
