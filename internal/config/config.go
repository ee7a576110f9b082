package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Search struct {
		Terms      []string `yaml:"terms" json:"terms"`
		Sites      []string `yaml:"sites" json:"sites"`
		MaxPerTerm int      `yaml:"max_per_term" json:"max_per_term"`
		RecentOnly bool     `yaml:"recent_only" json:"recent_only"`
	} `yaml:"search" json:"search"`

	Scraping struct {
		TimeoutSeconds    int     `yaml:"timeout_seconds" json:"timeout_seconds"`
		SiteDelaySeconds  int     `yaml:"site_delay_seconds" json:"site_delay_seconds"`
		TermDelaySeconds  int     `yaml:"term_delay_seconds" json:"term_delay_seconds"`
		RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	} `yaml:"scraping" json:"scraping"`

	Scoring struct {
		Threshold   float64  `yaml:"threshold" json:"threshold"`
		ScoreFields string   `yaml:"score_fields" json:"score_fields"` // title_organization | title_description
		Keywords    []string `yaml:"keywords" json:"keywords"`
	} `yaml:"scoring" json:"scoring"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.Scraping.TimeoutSeconds) * time.Second
}

func (c Config) SiteDelay() time.Duration {
	return time.Duration(c.Scraping.SiteDelaySeconds) * time.Second
}

func (c Config) TermDelay() time.Duration {
	return time.Duration(c.Scraping.TermDelaySeconds) * time.Second
}
