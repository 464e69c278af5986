package config

import (
	"testing"

	"github.com/bububa/docrerank/components"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "zero token budget",
			mutate: func(c *Config) { c.Chunker.MaxChunkTokens = 0 },
		},
		{
			name:   "negative token budget",
			mutate: func(c *Config) { c.Chunker.MaxChunkTokens = -5 },
		},
		{
			name:   "threshold above one",
			mutate: func(c *Config) { c.Chunker.Threshold = 1.5 },
		},
		{
			name:   "threshold below zero",
			mutate: func(c *Config) { c.Chunker.Threshold = -0.1 },
		},
		{
			name:   "zero top k",
			mutate: func(c *Config) { c.Reranker.TopK = 0 },
		},
		{
			name:   "unknown chunk mode",
			mutate: func(c *Config) { c.Chunker.Mode = "magic" },
		},
		{
			name:   "unknown rerank format",
			mutate: func(c *Config) { c.Reranker.Format = "soap" },
		},
		{
			name:   "http tokenizer without endpoint",
			mutate: func(c *Config) { c.Tokenizer.Mode = TokenizeHTTP },
		},
		{
			name:   "zero timeout",
			mutate: func(c *Config) { c.Tokenizer.Timeout = 0 },
		},
		{
			name:   "malformed endpoint",
			mutate: func(c *Config) {
				c.Reranker.Mode = RerankHTTP
				c.Reranker.Endpoint = "not a url"
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("want validation error")
			}
			if !components.IsConfig(err) {
				t.Errorf("want ConfigError, got %T: %v", err, err)
			}
		})
	}
}

func TestThresholdBoundsInclusive(t *testing.T) {
	for _, threshold := range []float64{0, 1} {
		cfg := Default()
		cfg.Chunker.Threshold = threshold
		if err := cfg.Validate(); err != nil {
			t.Errorf("threshold %v should validate: %v", threshold, err)
		}
	}
}
