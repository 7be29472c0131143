package config

import (
	"strings"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.HTTP.Port)
	}
	if cfg.Model.Dir != "final_model" {
		t.Errorf("model dir = %q, want final_model", cfg.Model.Dir)
	}
	if cfg.Matching.DefaultTopN != 5 || cfg.Matching.MaxTopN != 100 {
		t.Errorf("matching defaults = %+v", cfg.Matching)
	}
	if cfg.History.Enabled() {
		t.Error("history must be disabled without addresses")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"missing model dir", func(c *Config) { c.Model.Dir = "" }, "model.dir"},
		{"topn inversion", func(c *Config) { c.Matching.DefaultTopN = 200 }, "max_top_n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.ApplyDefaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("JOBSCOPE_TEST_DIR", "/srv/model")

	got := string(expandEnvVars([]byte("dir: ${JOBSCOPE_TEST_DIR}\nport: ${JOBSCOPE_TEST_PORT:-8080}")))
	want := "dir: /srv/model\nport: 8080"
	if got != want {
		t.Errorf("expanded = %q, want %q", got, want)
	}
}
