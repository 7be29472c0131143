package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReadJobs(t *testing.T) {
	path := writeFile(t, "jobs.csv",
		"job_title,company_name,company_location,salary_usd,required_skills\n"+
			"ML Engineer,Acme,Berlin,140000,\"Python, TensorFlow\"\n"+
			"Frontend Developer,Initech,,not-a-number,\"React, JavaScript\"\n")

	records, err := ReadJobs(path)
	if err != nil {
		t.Fatalf("ReadJobs: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	first := records[0]
	if first.ID != "job-1" || first.Title != "ML Engineer" || first.Organization != "Acme" {
		t.Errorf("unexpected first record: %+v", first)
	}
	if first.SalaryUSD == nil || *first.SalaryUSD != 140000 {
		t.Errorf("salary = %v, want 140000", first.SalaryUSD)
	}
	if first.Text == "" {
		t.Error("matching text is empty")
	}

	if records[1].SalaryUSD != nil {
		t.Errorf("unparseable salary should be nil, got %v", *records[1].SalaryUSD)
	}
}

func TestReadJobs_NoRows(t *testing.T) {
	path := writeFile(t, "jobs.csv", "job_title,company_name\n")
	if _, err := ReadJobs(path); err == nil {
		t.Fatal("expected error for dataset with no rows")
	}
}

func TestReadTexts(t *testing.T) {
	path := writeFile(t, "cvs.csv",
		"skills,summary\n"+
			"\"Python, ML\",Senior data scientist\n"+
			",\n")

	texts, err := ReadTexts(path)
	if err != nil {
		t.Fatalf("ReadTexts: %v", err)
	}
	if len(texts) != 1 {
		t.Fatalf("got %d texts, want 1 (blank row skipped)", len(texts))
	}
	if texts[0] != "Python, ML Senior data scientist" {
		t.Errorf("text = %q", texts[0])
	}
}
