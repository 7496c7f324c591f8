package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yusufkecer/vitals-media-backend/internal/domain"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

const bom = "\ufeff"

// parseSamples reads a whole upload and validates every row before returning.
// Rows sharing a date collapse into one sample holding the later values.
func parseSamples(spec domain.KindSpec, r io.Reader) ([]domain.Sample, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte(bom))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sniffDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: missing header", domain.ErrInvalidArgument, spec.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: header: %v", domain.ErrInvalidArgument, spec.Kind, err)
	}

	positions, last, err := mapHeader(spec, header)
	if err != nil {
		return nil, err
	}

	var samples []domain.Sample
	byDate := map[int64]int{}

	for n := 1; ; n++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: row %d: %v", domain.ErrInvalidArgument, spec.Kind, n, err)
		}
		if blank(record) {
			continue
		}

		field := func(pos int) string {
			if pos >= len(record) {
				return ""
			}
			v := strings.TrimSpace(record[pos])
			if pos == last {
				v = strings.TrimRight(v, " \t\r;,")
			}
			return v
		}

		s, err := parseRow(spec, positions, field)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: row %d: %v", domain.ErrInvalidArgument, spec.Kind, n, err)
		}

		key := s.Date.Unix()
		if i, ok := byDate[key]; ok {
			samples[i] = s
			continue
		}
		byDate[key] = len(samples)
		samples = append(samples, s)
	}

	if samples == nil {
		samples = []domain.Sample{}
	}
	return samples, nil
}

func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.ContainsRune(line, ';') && !bytes.ContainsRune(line, ',') {
		return ';'
	}
	return ','
}

// mapHeader returns the record position of the date column followed by one per
// kind column, and the position of the last meaningful header column.
func mapHeader(spec domain.KindSpec, header []string) ([]int, int, error) {
	for len(header) > 0 && strings.TrimSpace(header[len(header)-1]) == "" {
		header = header[:len(header)-1]
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimRight(strings.TrimSpace(name), ";,")
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	sources := make([]string, 0, len(spec.Columns)+1)
	sources = append(sources, domain.DateSource)
	for _, c := range spec.Columns {
		sources = append(sources, c.Source)
	}

	positions := make([]int, len(sources))
	for i, src := range sources {
		pos, ok := index[src]
		if !ok {
			return nil, 0, fmt.Errorf("%w: %s: missing column %q", domain.ErrInvalidArgument, spec.Kind, src)
		}
		positions[i] = pos
	}
	return positions, len(header) - 1, nil
}

func parseRow(spec domain.KindSpec, positions []int, field func(int) string) (domain.Sample, error) {
	date, err := parseDate(field(positions[0]))
	if err != nil {
		return domain.Sample{}, err
	}

	s := domain.Sample{Date: date, Values: make([]any, len(spec.Columns))}
	for i, c := range spec.Columns {
		v, err := parseValue(c, field(positions[i+1]))
		if err != nil {
			return domain.Sample{}, err
		}
		if err := c.Check(v); err != nil {
			return domain.Sample{}, err
		}
		s.Values[i] = v
	}
	return s, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("%s is empty", domain.DateSource)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Truncate(time.Second), nil
		}
	}
	return time.Time{}, fmt.Errorf("%s %q is not a date", domain.DateSource, raw)
}

func parseValue(c domain.Column, raw string) (any, error) {
	if c.Type == domain.Text {
		return raw, nil
	}
	if raw == "" {
		return nil, fmt.Errorf("%s is empty", c.Source)
	}

	normalized := strings.Replace(raw, ",", ".", 1)
	if c.Type == domain.Int {
		if n, err := strconv.ParseInt(normalized, 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(normalized, 64)
		if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%s %q is not an integer", c.Source, raw)
		}
		// float64(math.MaxInt64) rounds up to 2^63, which is already out of range.
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return nil, fmt.Errorf("%s %q is out of range", c.Source, raw)
		}
		return int64(f), nil
	}

	f, err := strconv.ParseFloat(normalized, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%s %q is not a number", c.Source, raw)
	}
	return f, nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.Trim(v, " \t\r;,") != "" {
			return false
		}
	}
	return true
}
