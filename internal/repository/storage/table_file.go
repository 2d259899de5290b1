package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
)

const (
	tableFilePerm = 0o644

	// maxRecordLength leaves room for the longest 'f' rendering of a
	// subnormal weight.
	maxRecordLength = 4096
)

// LoadReport counts what a table load did with each line.
type LoadReport struct {
	Loaded  int
	Skipped int
}

// TableFile stores the move table as text, one "<key> <weight>" record per line.
type TableFile struct {
	path string
}

func NewTableFile(path string) *TableFile {
	return &TableFile{path: path}
}

func (that *TableFile) Path() string {
	return that.path
}

// Load streams every well-formed record into fn. Malformed lines, over-long
// ones included, are skipped and returned joined together, each wrapping
// apperror.ErrMalformedRecord. A missing or unreadable file is reported as
// apperror.ErrFileAccess.
func (that *TableFile) Load(fn func(entity.WeightRecord)) (LoadReport, error) {
	var report LoadReport

	file, err := os.Open(that.path)
	if err != nil {
		return report, fmt.Errorf("%w: %w", apperror.ErrFileAccess, err)
	}
	defer file.Close()

	var errs []error

	reader := bufio.NewReader(file)
	for lineNumber := 1; ; lineNumber++ {
		line, tooLong, readErr := readLine(reader)
		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			errs = append(errs, fmt.Errorf("%w: read %s: %w", apperror.ErrFileAccess, that.path, readErr))
			break
		}

		if tooLong {
			report.Skipped++
			errs = append(errs, fmt.Errorf("line %d: %w: longer than %d bytes", lineNumber, apperror.ErrMalformedRecord, maxRecordLength))
			continue
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		record, parseErr := ParseRecord(line)
		if parseErr != nil {
			report.Skipped++
			errs = append(errs, fmt.Errorf("line %d: %w", lineNumber, parseErr))
			continue
		}

		fn(record)
		report.Loaded++
	}

	return report, errors.Join(errs...)
}

// readLine returns the next line without its terminator. A line longer than
// maxRecordLength is read to its end and dropped, with tooLong set.
func readLine(reader *bufio.Reader) (line string, tooLong bool, err error) {
	var buf []byte

	for {
		chunk, isPrefix, readErr := reader.ReadLine()
		if readErr != nil {
			return "", false, readErr
		}

		if !tooLong {
			buf = append(buf, chunk...)
			if len(buf) > maxRecordLength {
				tooLong = true
				buf = nil
			}
		}

		if !isPrefix {
			return string(buf), tooLong, nil
		}
	}
}

// Store writes all records to a pending file next to the destination and
// renames it over the destination once everything is on disk. A record that
// Load would reject aborts the write with apperror.ErrMalformedRecord. The
// previous file stays untouched if anything fails.
func (that *TableFile) Store(records []entity.WeightRecord) error {
	dir := filepath.Dir(that.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create directory %s: %w", apperror.ErrFileAccess, dir, err)
		}
	}

	pending, err := renameio.NewPendingFile(that.path,
		renameio.WithTempDir(dir),
		renameio.WithPermissions(tableFilePerm),
	)
	if err != nil {
		return fmt.Errorf("%w: create pending file for %s: %w", apperror.ErrFileAccess, that.path, err)
	}
	defer pending.Cleanup() //nolint: errcheck // no-op after a successful replace

	writer := bufio.NewWriter(pending)
	for _, record := range records {
		if err = checkRecord(record); err != nil {
			return fmt.Errorf("store %s: %w", that.path, err)
		}

		if _, err = writer.WriteString(FormatRecord(record) + "\n"); err != nil {
			return fmt.Errorf("%w: write %s: %w", apperror.ErrFileAccess, that.path, err)
		}
	}

	if err = writer.Flush(); err != nil {
		return fmt.Errorf("%w: write %s: %w", apperror.ErrFileAccess, that.path, err)
	}

	if err = pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("%w: replace %s: %w", apperror.ErrFileAccess, that.path, err)
	}

	return nil
}

// ParseRecord parses a "<key> <weight>" line, e.g. "001020100 0.73". Key and
// weight are separated by exactly one space.
func ParseRecord(line string) (entity.WeightRecord, error) {
	key, rawWeight, found := strings.Cut(line, " ")
	if !found {
		return entity.WeightRecord{}, fmt.Errorf("%w: no separator in %q", apperror.ErrMalformedRecord, line)
	}

	weight, err := strconv.ParseFloat(rawWeight, 64)
	if err != nil {
		return entity.WeightRecord{}, fmt.Errorf("%w: weight %q: %w", apperror.ErrMalformedRecord, rawWeight, err)
	}

	record := entity.WeightRecord{Key: key, Weight: weight}
	if err = checkRecord(record); err != nil {
		return entity.WeightRecord{}, err
	}

	return record, nil
}

func checkRecord(record entity.WeightRecord) error {
	if _, err := entity.ParseKey(record.Key); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrMalformedRecord, err)
	}

	if math.IsNaN(record.Weight) || record.Weight < 0 || record.Weight > 1 {
		return fmt.Errorf("%w: weight %v out of [0,1]", apperror.ErrMalformedRecord, record.Weight)
	}

	return nil
}

// FormatRecord is the inverse of ParseRecord. The weight keeps the shortest
// representation that parses back to the same float64.
func FormatRecord(record entity.WeightRecord) string {
	return record.Key + " " + strconv.FormatFloat(record.Weight, 'f', -1, 64)
}
