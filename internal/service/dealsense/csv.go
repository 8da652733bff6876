package dealsense

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sandevgo/gtmsuite/internal/core"
)

var requiredColumns = []string{"company_name", "deal_value", "stage", "days_in_pipeline"}

// Row is one parsed CSV line. Line is 1-based and counts the header.
type Row struct {
	Line   int
	Record core.DealRecord
	Err    error
}

// ParseCSV reads a pipeline export. Missing required columns fail the whole
// file, a malformed line only fails its own Row.
func ParseCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, core.InvalidInput("parse csv", "file is empty")
	}
	if err != nil {
		return nil, core.InvalidInput("parse csv", "bad header: %v", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[normaliseHeader(h)] = i
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, core.InvalidInput("parse csv", "missing required columns: %s", strings.Join(missing, ", "))
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		var perr *csv.ParseError
		if errors.As(err, &perr) {
			rows = append(rows, Row{
				Line: perr.StartLine,
				Err:  core.InvalidInput("parse csv", "line %d: %v", perr.StartLine, perr.Err),
			})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}

		line, _ := cr.FieldPos(0)
		if isBlank(rec) {
			continue
		}

		deal, err := parseRecord(rec, cols)
		if err != nil {
			err = core.InvalidInput("parse csv", "line %d: %v", line, err)
		}
		rows = append(rows, Row{Line: line, Record: deal, Err: err})
	}

	return rows, nil
}

func parseRecord(rec []string, cols map[string]int) (core.DealRecord, error) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	d := core.DealRecord{
		DealID:      get("deal_id"),
		CompanyName: get("company_name"),
		Stage:       get("stage"),
	}
	if d.CompanyName == "" {
		return d, errors.New("company_name is empty")
	}

	var err error
	if d.DealValue, err = parseMoney(get("deal_value")); err != nil {
		return d, fmt.Errorf("deal_value: %w", err)
	}
	if d.DaysInPipeline, err = parseInt(get("days_in_pipeline")); err != nil {
		return d, fmt.Errorf("days_in_pipeline: %w", err)
	}
	if d.LastContactDays, err = parseInt(get("last_contact_days")); err != nil {
		return d, fmt.Errorf("last_contact_days: %w", err)
	}
	if d.DecisionMakerEngaged, err = parseBool(get("decision_maker_engaged")); err != nil {
		return d, fmt.Errorf("decision_maker_engaged: %w", err)
	}
	if d.HasCompetitor, err = parseBool(get("has_competitor")); err != nil {
		return d, fmt.Errorf("has_competitor: %w", err)
	}
	if d.BudgetConfirmed, err = parseBool(get("budget_confirmed")); err != nil {
		return d, fmt.Errorf("budget_confirmed: %w", err)
	}
	return d, nil
}

func normaliseHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Join(strings.Fields(h), "_")
}

func parseMoney(s string) (float64, error) {
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return 0, errors.New("value is empty")
	}
	return strconv.ParseFloat(s, 64)
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return int(f), nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "y", "1", "t":
		return true, nil
	case "false", "no", "n", "0", "f", "":
		return false, nil
	default:
		return false, fmt.Errorf("%q is not a boolean", s)
	}
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
