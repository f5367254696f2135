package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	apperrors "biograph/pkg/errors"
)

// readCSV streams a headered CSV file, calling fn once per row with a
// header-keyed map. Returns the number of data rows consumed.
func readCSV(path string, fn func(row map[string]string) error) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows are common in the processed dumps

	header, err := reader.Read()
	if err != nil {
		return 0, apperrors.NewIngestFileFailed(path, 1, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	count := 0
	line := 1
	for {
		record, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, apperrors.NewIngestFileFailed(path, line, err)
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			} else {
				row[col] = ""
			}
		}

		if err := fn(row); err != nil {
			return count, apperrors.NewIngestFileFailed(path, line, err)
		}
		count++
	}

	return count, nil
}
