package domain

// Record is one job posting in the matching corpus. Records are loaded once
// from the model artifact set and are read-only for the service lifetime.
type Record struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Organization string   `json:"organization"`
	Location     string   `json:"location"`
	SalaryUSD    *float64 `json:"salary_usd,omitempty"`
	Skills       string   `json:"skills"`
	Text         string   `json:"text"`
}

// Match is a single ranked hit against the corpus. Rank is 1-based and
// contiguous; Score is cosine similarity between topic distributions.
type Match struct {
	Rank   int
	Record Record
	Score  float64
}
