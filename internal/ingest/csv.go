// Package ingest reads the raw posting and résumé datasets consumed by the
// offline training run. Serving never touches these files; the trained
// artifact set carries everything the service needs.
package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kailas-cloud/jobscope/internal/domain"
)

// Column candidates, checked in order. Datasets in the wild disagree on
// header names, so the first present candidate wins.
var (
	titleColumns    = []string{"job_title", "title"}
	orgColumns      = []string{"company_name", "company", "organization"}
	locationColumns = []string{"company_location", "location"}
	salaryColumns   = []string{"salary_usd", "salary"}
	skillsColumns   = []string{"required_skills", "skills"}
	textColumns     = []string{
		"job_text", "job_title", "required_skills", "education_required",
		"industry", "company_name", "job_description", "description",
	}
)

// ReadJobs parses the posting dataset CSV into corpus records. The matching
// text of each record is the concatenation of its free-text columns.
func ReadJobs(path string) ([]domain.Record, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, len(rows))
	for i, row := range rows {
		rec := domain.Record{
			ID:           fmt.Sprintf("job-%d", i+1),
			Title:        pick(header, row, titleColumns),
			Organization: pick(header, row, orgColumns),
			Location:     pick(header, row, locationColumns),
			Skills:       pick(header, row, skillsColumns),
			Text:         joinText(header, row, textColumns),
		}
		if id := pick(header, row, []string{"id", "job_id"}); id != "" {
			rec.ID = id
		}
		if s := pick(header, row, salaryColumns); s != "" {
			if v, err := strconv.ParseFloat(s, 64); err == nil {
				rec.SalaryUSD = &v
			}
		}
		if rec.Text == "" {
			rec.Text = joinAll(row)
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s has no data rows", domain.ErrTrainingFailed, path)
	}
	return records, nil
}

// ReadTexts reads a CSV of free-text rows (the résumé dataset that may join
// the vocabulary fit) and returns one concatenated text per row.
func ReadTexts(path string) ([]string, error) {
	rows, _, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(rows))
	for _, row := range rows {
		if t := joinAll(row); t != "" {
			texts = append(texts, t)
		}
	}
	return texts, nil
}

// readCSV returns data rows and a lower-cased header → column index map.
func readCSV(path string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%s is empty", path)
	}

	header := make(map[string]int, len(all[0]))
	for i, name := range all[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return all[1:], header, nil
}

func pick(header map[string]int, row []string, candidates []string) string {
	for _, c := range candidates {
		if i, ok := header[c]; ok && i < len(row) {
			if v := strings.TrimSpace(row[i]); v != "" {
				return v
			}
		}
	}
	return ""
}

func joinText(header map[string]int, row []string, columns []string) string {
	var parts []string
	for _, c := range columns {
		if i, ok := header[c]; ok && i < len(row) {
			if v := strings.TrimSpace(row[i]); v != "" {
				parts = append(parts, v)
			}
		}
	}
	return strings.Join(parts, " ")
}

func joinAll(row []string) string {
	var parts []string
	for _, v := range row {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}
