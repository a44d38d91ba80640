package reader

import (
	"encoding/csv"
	"io"
	"strings"
)

// readDelimited parses CSV or TSV input. Short rows are allowed and padded
// by newRawTable; a UTF-8 byte order mark on the header is dropped.
func readDelimited(r io.Reader, delimiter rune) ([][]string, error) {
	csvReader := csv.NewReader(r)
	csvReader.Comma = delimiter
	csvReader.FieldsPerRecord = -1
	if delimiter == tsvDelimiter {
		csvReader.LazyQuotes = true
	}

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = trimBOM(records[0][0])
	}
	return records, nil
}

func trimBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}
