// Package reader loads delimited text and spreadsheet files into
// schema.RawTable values.
package reader

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"import-buddy/internal/schema"
)

// FileType is the tabular format of a source file.
type FileType int

const (
	FileTypeUnsupported FileType = iota
	FileTypeCSV
	FileTypeTSV
	FileTypeXLSX
)

// Compression is the compression wrapped around a source file.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGZ
	CompressionBZ2
	CompressionXZ
	CompressionZSTD
)

var compressionByExt = map[string]Compression{
	".gz":  CompressionGZ,
	".bz2": CompressionBZ2,
	".xz":  CompressionXZ,
	".zst": CompressionZSTD,
}

const (
	csvDelimiter = ','
	tsvDelimiter = '\t'
)

// Detect returns the file type and compression implied by path's extensions.
func Detect(path string) (FileType, Compression) {
	name := strings.ToLower(filepath.Base(path))

	compression := CompressionNone
	if c, ok := compressionByExt[filepath.Ext(name)]; ok {
		compression = c
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}

	switch filepath.Ext(name) {
	case ".csv":
		return FileTypeCSV, compression
	case ".tsv":
		return FileTypeTSV, compression
	case ".xlsx":
		return FileTypeXLSX, compression
	default:
		return FileTypeUnsupported, compression
	}
}

// Reader reads tabular files from disk.
type Reader struct{}

func New() *Reader { return &Reader{} }

// Read loads the file at path. Every failure is returned as a *ReadError.
func (r *Reader) Read(path string) (*schema.RawTable, error) {
	t, err := r.read(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return t, nil
}

func (r *Reader) read(path string) (*schema.RawTable, error) {
	fileType, compression := Detect(path)

	rc, closer, err := openReader(path, compression)
	if err != nil {
		return nil, err
	}
	defer closer()

	var records [][]string
	switch fileType {
	case FileTypeCSV:
		records, err = readDelimited(rc, csvDelimiter)
	case FileTypeTSV:
		records, err = readDelimited(rc, tsvDelimiter)
	case FileTypeXLSX:
		records, err = readXLSX(rc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Base(path))
	}
	if err != nil {
		return nil, err
	}
	return newRawTable(path, records)
}

// openReader opens file and returns a reader that handles compression
func openReader(path string, compression Compression) (io.Reader, func() error, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	var reader io.Reader = file
	closer := file.Close

	switch compression {
	case CompressionGZ:
		gzReader, err := gzip.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, nil, err
		}
		reader = gzReader
		closer = func() error {
			_ = gzReader.Close()
			return file.Close()
		}
	case CompressionBZ2:
		reader = bzip2.NewReader(file)
	case CompressionXZ:
		xzReader, err := xz.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, nil, err
		}
		reader = xzReader
	case CompressionZSTD:
		decoder, err := zstd.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, nil, err
		}
		reader = decoder
		closer = func() error {
			decoder.Close()
			return file.Close()
		}
	}

	return reader, closer, nil
}

// newRawTable turns header + data records into a RawTable. Blank header
// cells are named "Unnamed: <index>" and reported in Unnamed.
func newRawTable(path string, records [][]string) (*schema.RawTable, error) {
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	header := records[0]
	t := &schema.RawTable{
		Path:    path,
		Columns: make([]string, len(header)),
		Rows:    make([][]string, 0, len(records)-1),
	}

	seen := make(map[string]bool, len(header))
	for i, name := range header {
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
			t.Unnamed = append(t.Unnamed, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		seen[name] = true
		t.Columns[i] = name
	}

	for line, rec := range records[1:] {
		if len(rec) > len(header) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", line+2, len(rec), len(header))
		}
		row := make([]string, len(header))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
