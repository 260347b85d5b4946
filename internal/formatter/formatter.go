// package formatter converts catalog videos to and from portable formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/desertthunder/dadrock/internal/models"
)

var csvHeaders = []string{"song", "artist", "youtube_url", "thumbnail"}

// ExportToCSV converts videos to CSV with columns: song, artist, youtube_url, thumbnail.
//
// The output is accepted by [ParseVideosCSV].
func ExportToCSV(videos []*models.Video) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, v := range videos {
		record := []string{v.Song(), v.Artist(), v.YouTubeURL(), v.Thumbnail()}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts videos to a Markdown list grouped under a title heading
func ExportToMarkdown(videos []*models.Video, title string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Videos**: %d\n\n", len(videos))

	for i, v := range videos {
		fmt.Fprintf(&buf, "%d. [%s - %s](%s)\n", i+1, v.Artist(), v.Song(), v.YouTubeURL())
	}

	return buf.Bytes(), nil
}

// ExportToText converts videos to plain text format
func ExportToText(videos []*models.Video) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Videos: %d\n\n", len(videos))
	for i, v := range videos {
		fmt.Fprintf(&buf, "%d. %s - %s\n   %s\n", i+1, v.Artist(), v.Song(), v.YouTubeURL())
	}

	return buf.Bytes(), nil
}

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
)

// Export renders videos in format f.
func Export(videos []*models.Video, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ExportToCSV(videos)
	case FormatMarkdown:
		return ExportToMarkdown(videos, "DadRock Tabs Catalog")
	case FormatText:
		return ExportToText(videos)
	default:
		return nil, fmt.Errorf("unsupported export format %q (want csv, md or txt)", f)
	}
}

// WriteExport writes rendered data to path, or to w when path is empty.
func WriteExport(data []byte, path string, w io.Writer) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

// ImportRow is one data row of a bulk import CSV.
type ImportRow struct {
	Row        int // 1-based record number, the header is row 1
	Song       string
	Artist     string
	YouTubeURL string
	Err        error // Set when the row cannot be used
}

// ErrMissingFields marks a row without song, artist or youtube_url.
var ErrMissingFields = errors.New("Missing required fields")

// ParseVideosCSV reads a CSV with a header row naming song, artist and youtube_url columns.
//
// Columns may appear in any order and extra columns are ignored. A malformed header fails the
// whole file; a bad row is returned with Err set so callers can report it and continue.
func ParseVideosCSV(r io.Reader) ([]ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []ImportRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}

	rows := []ImportRow{}
	for n := 2; ; n++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		row := ImportRow{Row: n}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, fmt.Errorf("failed to read CSV: %w", err)
			}
			row.Err = err
			rows = append(rows, row)
			continue
		}

		row.Song = field(record, cols, "song")
		row.Artist = field(record, cols, "artist")
		row.YouTubeURL = field(record, cols, "youtube_url")
		if row.Song == "" || row.Artist == "" || row.YouTubeURL == "" {
			row.Err = ErrMissingFields
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
