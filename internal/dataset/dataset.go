// internal/dataset/dataset.go
// Package dataset defines the evaluation record types and CSV load/save helpers.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Record is one labeled evaluation input. Label is 0 for benign text and 1
// for a jailbreak/XPIA sample. Language is an ISO code or empty when unknown.
type Record struct {
	Text     string
	Label    int
	Language string
}

// Prediction is the classifier's verdict for one record. Score is the
// jailbreak confidence in [0,1]. Language mirrors the record's language.
type Prediction struct {
	Text           string
	TrueLabel      int
	PredictedLabel int
	Score          float64
	Language       string
}

// WithPredictedLabel returns a copy of the prediction carrying a new
// predicted label. The receiver is left untouched.
func (p Prediction) WithPredictedLabel(label int) Prediction {
	p.PredictedLabel = label
	return p
}

// ValidationError reports a malformed input row. It is raised at load time,
// before any network activity.
type ValidationError struct {
	Path string
	Row  int
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid record at row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("invalid record in %s at row %d: %v", e.Path, e.Row, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ParseLabel accepts "0", "1", "true" and "false" (case-insensitive).
func ParseLabel(raw string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "0", "false":
		return 0, nil
	case "1", "true":
		return 1, nil
	default:
		return 0, fmt.Errorf("label %q is not one of 0, 1, true, false", raw)
	}
}

// LoadDir reads every *.csv file in dir in lexical order and returns the
// concatenated records. Each file must have a header row with at least
// "text" and "label" columns; a "language" column is optional.
func LoadDir(dir string) ([]Record, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("error listing dataset directory %q: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no CSV datasets found in %q", dir)
	}
	sort.Strings(paths)

	var records []Record
	for _, path := range paths {
		fileRecords, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		records = append(records, fileRecords...)
	}
	return records, nil
}

// LoadFile reads a single CSV dataset file.
func LoadFile(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening dataset %q: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error parsing dataset %q: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, &ValidationError{Path: path, Row: 0, Err: fmt.Errorf("file is empty")}
	}

	textIdx, labelIdx, langIdx := -1, -1, -1
	for i, name := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "text":
			textIdx = i
		case "label":
			labelIdx = i
		case "language":
			langIdx = i
		}
	}
	if textIdx < 0 || labelIdx < 0 {
		return nil, &ValidationError{Path: path, Row: 0, Err: fmt.Errorf("header must contain text and label columns")}
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2
		if len(row) <= textIdx || len(row) <= labelIdx {
			return nil, &ValidationError{Path: path, Row: rowNum, Err: fmt.Errorf("row has %d columns", len(row))}
		}
		label, err := ParseLabel(row[labelIdx])
		if err != nil {
			return nil, &ValidationError{Path: path, Row: rowNum, Err: err}
		}
		record := Record{Text: row[textIdx], Label: label}
		if langIdx >= 0 && len(row) > langIdx {
			record.Language = strings.TrimSpace(row[langIdx])
		}
		records = append(records, record)
	}
	return records, nil
}

// SaveFile writes records to path as CSV with a text,label,language header.
func SaveFile(path string, records []Record) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating directory for %q: %w", path, err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating dataset %q: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"text", "label", "language"}); err != nil {
		return fmt.Errorf("error writing dataset header: %w", err)
	}
	for _, record := range records {
		row := []string{record.Text, strconv.Itoa(record.Label), record.Language}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("error writing dataset row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("error flushing dataset %q: %w", path, err)
	}
	return nil
}
