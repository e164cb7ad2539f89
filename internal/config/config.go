// engine/internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DB struct {
		Path string `yaml:"path"`
	} `yaml:"db"`

	SQLDir  string `yaml:"sql_dir"`
	LogFile string `yaml:"log_file"`

	Classify Classify `yaml:"classify"`
	Archive  Archive  `yaml:"archive"`
	Crawl    Crawl    `yaml:"crawl"`
	Writer   Writer   `yaml:"writer"`
}

// Classify names the nested classification path inside a raw company
// document plus the code prefix a company must match to be kept.
type Classify struct {
	Prefix  string `yaml:"prefix"`
	Section string `yaml:"section"`
	Main    string `yaml:"main"`
	Code    string `yaml:"code"`
	Label   string `yaml:"label"`
}

type Archive struct {
	Path      string   `yaml:"path"`
	Entries   []string `yaml:"entries"` // empty = every .json entry
	Workers   int      `yaml:"workers"`
	BatchSize int      `yaml:"batch_size"`
}

type Crawl struct {
	VacanciesURL string            `yaml:"vacancies_url"`
	AreasURL     string            `yaml:"areas_url"`
	Country      string            `yaml:"country"`
	Regions      []string          `yaml:"regions"`
	Params       map[string]string `yaml:"params"`

	MaxVacancies int `yaml:"max_vacancies"`

	PageDelaySeconds  int `yaml:"page_delay_seconds"`
	RetryDelaySeconds int `yaml:"retry_delay_seconds"`
	Attempts          int `yaml:"attempts"`

	MaxRounds         int `yaml:"max_rounds"`
	RoundDelaySeconds int `yaml:"round_delay_seconds"`
	DetailWorkers     int `yaml:"detail_workers"`
}

type Writer struct {
	Attempts       int `yaml:"attempts"`
	RetryDelayMS   int `yaml:"retry_delay_ms"`
	PollIntervalMS int `yaml:"poll_interval_ms"`
	BusyTimeoutMS  int `yaml:"busy_timeout_ms"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) ApplyDefaults() {
	if c.DB.Path == "" {
		c.DB.Path = "vacsift.db"
	}
	if c.SQLDir == "" {
		c.SQLDir = "sql"
	}
	if c.LogFile == "" {
		c.LogFile = "vacsift.log"
	}
	if c.Classify.Section == "" {
		c.Classify.Section = "СвОКВЭД"
	}
	if c.Classify.Main == "" {
		c.Classify.Main = "СвОКВЭДОсн"
	}
	if c.Classify.Code == "" {
		c.Classify.Code = "КодОКВЭД"
	}
	if c.Classify.Label == "" {
		c.Classify.Label = "НаимОКВЭД"
	}
	if c.Archive.Workers <= 0 {
		c.Archive.Workers = 4
	}
	if c.Archive.BatchSize <= 0 {
		c.Archive.BatchSize = 10
	}
	if c.Crawl.MaxVacancies <= 0 {
		c.Crawl.MaxVacancies = 100
	}
	if c.Crawl.PageDelaySeconds <= 0 {
		c.Crawl.PageDelaySeconds = 3
	}
	if c.Crawl.RetryDelaySeconds <= 0 {
		c.Crawl.RetryDelaySeconds = 20
	}
	if c.Crawl.Attempts <= 0 {
		c.Crawl.Attempts = 3
	}
	if c.Crawl.MaxRounds <= 0 {
		c.Crawl.MaxRounds = 10
	}
	if c.Crawl.RoundDelaySeconds <= 0 {
		c.Crawl.RoundDelaySeconds = 10
	}
	if c.Crawl.DetailWorkers <= 0 {
		c.Crawl.DetailWorkers = 8
	}
	if c.Writer.Attempts <= 0 {
		c.Writer.Attempts = 5
	}
	if c.Writer.RetryDelayMS <= 0 {
		c.Writer.RetryDelayMS = 500
	}
	if c.Writer.PollIntervalMS <= 0 {
		c.Writer.PollIntervalMS = 500
	}
	if c.Writer.BusyTimeoutMS <= 0 {
		c.Writer.BusyTimeoutMS = 5000
	}
}

func (c *Config) Validate() error {
	if c.Classify.Prefix == "" {
		return fmt.Errorf("config: classify.prefix must be set")
	}
	if c.DB.Path == "" {
		return fmt.Errorf("config: db.path must be set")
	}
	return nil
}
