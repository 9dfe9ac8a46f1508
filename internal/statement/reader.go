package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	enc "github.com/MrJamesThe3rd/bankbridge/internal/encoding"
)

// PreambleLines is the number of account/period lines the bank writes before
// the header. They are dropped unconditionally.
const PreambleLines = 4

// Reader parses bank exports into raw rows.
type Reader struct {
	logger *slog.Logger
}

func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}

	return &Reader{logger: logger}
}

// Read strips the preamble, takes the next line as header and maps every
// following line onto it. Lines whose field count does not match the header
// are still returned, with Problem set, so the classifier can decide on them.
func (rd *Reader) Read(r io.Reader) ([]RawRow, error) {
	utf8r, report, err := enc.NewLossyUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}

	if !report.ValidUTF8 {
		rd.logger.Warn("export is not valid UTF-8, header names keep replacement characters",
			"charset_guess", report.Charset, "confidence", report.Confidence)
	}

	raw, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}

	lines := strings.SplitN(string(raw), "\n", PreambleLines+1)
	if len(lines) <= PreambleLines {
		return nil, &FormatError{Reason: fmt.Sprintf("no content after the %d-line preamble", PreambleLines)}
	}

	body := lines[PreambleLines]
	firstLine, _, _ := strings.Cut(body, "\n")

	reader := csv.NewReader(strings.NewReader(body))
	reader.Comma = detectDelimiter(firstLine)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &FormatError{Reason: "missing header line"}
		}

		return nil, &FormatError{Reason: "unreadable header line", Err: err}
	}

	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	if len(header) < 2 {
		return nil, &FormatError{Reason: fmt.Sprintf("header %q is not delimited text", strings.Join(header, ""))}
	}

	var rows []RawRow

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, &FormatError{Reason: "unreadable data line", Err: err}
		}

		if blank(record) {
			continue
		}

		line, _ := reader.FieldPos(0)
		rows = append(rows, mapRecord(header, record, PreambleLines+line))
	}

	rd.logger.Debug("read export", "rows", len(rows), "columns", len(header))

	return rows, nil
}

func mapRecord(header, record []string, line int) RawRow {
	row := RawRow{
		Line:   line,
		Values: make(map[string]string, len(header)),
	}

	for i, name := range header {
		if name == "" || i >= len(record) {
			continue
		}

		if _, dup := row.Values[name]; dup {
			continue
		}

		row.Values[name] = strings.TrimSpace(record[i])
	}

	if len(record) != len(header) {
		row.Problem = fmt.Sprintf("expected %d fields, got %d", len(header), len(record))
	}

	return row
}

// detectDelimiter picks the most frequent candidate in the header line,
// preferring ';' which is what German bank exports use.
func detectDelimiter(header string) rune {
	best, bestCount := ';', 0

	for _, d := range []rune{';', ',', '\t'} {
		if n := strings.Count(header, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}

	return best
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}

	return true
}
