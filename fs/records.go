package fs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/stankin-rag/priem"
)

// Validator checks a serialized records artifact.
type Validator interface {
	Validate(data []byte) error
}

// RecordFile is a JSON array of admission records on disk.
type RecordFile struct {
	Path string

	// Validator, if set, checks the file contents before Load decodes them.
	Validator Validator
}

// NewRecordFile returns a RecordFile at path.
func NewRecordFile(path string, validator Validator) *RecordFile {
	return &RecordFile{Path: path, Validator: validator}
}

// Save validates records and atomically replaces the file with them.
func (f *RecordFile) Save(records []*priem.AdmissionRecord) error {
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	if records == nil {
		records = []*priem.AdmissionRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	return writeFileAtomic(f.Path, append(data, '\n'))
}

// Load reads the records back. A missing file returns ENOTFOUND.
func (f *RecordFile) Load() ([]*priem.AdmissionRecord, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, priem.Errorf(priem.ENOTFOUND, "records file %s not found", f.Path)
	} else if err != nil {
		return nil, err
	}

	if f.Validator != nil {
		if err := f.Validator.Validate(data); err != nil {
			return nil, err
		}
	}

	var records []*priem.AdmissionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, priem.Errorf(priem.EINVALID, "decoding %s: %v", f.Path, err)
	}
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}
	return records, nil
}
