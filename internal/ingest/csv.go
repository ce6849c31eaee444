package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/majindogo/farm-data-etl/internal/table"
)

// CSV acquisition error kinds.
var (
	ErrFetch  = errors.New("csv fetch failed")
	ErrFormat = errors.New("csv payload not parseable")
)

// CSVSource fetches remote CSV documents over HTTP and parses them into
// Tables.
type CSVSource struct {
	client *http.Client
	logger *slog.Logger
}

// NewCSVSource creates a CSV source with the given per-request timeout.
func NewCSVSource(timeout time.Duration, logger *slog.Logger) *CSVSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CSVSource{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// FetchCSV downloads a CSV document and parses it into a Table. The first
// record supplies the column names. Columns whose every non-empty cell
// parses as a number become float columns with empty cells as nulls; all
// other columns stay textual.
func (c *CSVSource) FetchCSV(ctx context.Context, url string) (*table.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrFetch, url, resp.StatusCode)
	}

	t, err := parseCSV(resp.Body)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("csv fetched", "url", url, "rows", t.Len(), "columns", len(t.Columns()))
	return t, nil
}

func parseCSV(r io.Reader) (*table.Table, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrFormat)
	}

	header := records[0]
	body := records[1:]

	t := table.New()
	for j, name := range header {
		cells := make([]string, len(body))
		for i, record := range body {
			cells[i] = record[j]
		}
		if err := t.AddColumn(name, inferColumn(cells)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
	}
	return t, nil
}

// inferColumn types a CSV column: when every non-empty cell parses as a
// number the column becomes float-valued with empty cells as nulls,
// otherwise cells stay strings.
func inferColumn(cells []string) []any {
	numeric := false
	for _, cell := range cells {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err != nil {
			numeric = false
			break
		}
		numeric = true
	}

	values := make([]any, len(cells))
	for i, cell := range cells {
		trimmed := strings.TrimSpace(cell)
		if numeric {
			if trimmed == "" {
				continue
			}
			f, _ := strconv.ParseFloat(trimmed, 64)
			values[i] = f
		} else {
			values[i] = cell
		}
	}
	return values
}
