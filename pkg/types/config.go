// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by providers that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "article-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for providers that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint, mainly for tests and proxies.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls
	// (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ResearchConfig holds settings for the research stage.
type ResearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the SERP API. When empty the mock
	// research provider is used.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxResults is the maximum number of SERP results to keep (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ImageConfig holds settings for the image generation stage.
type ImageConfig struct {
	AIConfig `yaml:",inline"`

	// Count is the number of images to generate per article, including
	// the header image (default 4).
	Count int `json:"count" yaml:"count"`

	// Size is the requested image size (default "1024x1024").
	Size string `json:"size" yaml:"size"`
}

// QualityConfig holds settings for the quality-gated improvement loop.
type QualityConfig struct {
	// MinScore is the score threshold that ends the loop (default 85).
	MinScore int `json:"min_score" yaml:"min_score"`

	// MaxAttempts bounds the number of scoring calls (default 3). The
	// loop always terminates within this budget even if the threshold is
	// never met.
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`
}

// StoreConfig holds settings for artifact and workflow persistence.
type StoreConfig struct {
	// CacheDir is the base directory for per-subject artifacts
	// ({slug}/{stage}.json) and workflow state ({slug}/workflow.json).
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`

	// IndexDir is the directory holding the SQLite run ledger.
	IndexDir string `json:"index_dir" yaml:"index_dir"`
}

// OutputConfig holds settings for final article output.
type OutputConfig struct {
	// ArticlesDir is the directory assembled markdown documents are
	// written to.
	ArticlesDir string `json:"articles_dir" yaml:"articles_dir"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Research ResearchConfig `json:"research" yaml:"research"`
	Content  AIConfig       `json:"content" yaml:"content"`
	Images   ImageConfig    `json:"images" yaml:"images"`
	Quality  QualityConfig  `json:"quality" yaml:"quality"`
	Store    StoreConfig    `json:"store" yaml:"store"`
	Output   OutputConfig   `json:"output" yaml:"output"`
}
