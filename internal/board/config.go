package board

import (
	"fmt"
	"os"
	"slices"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

// Config reúne apenas as opções que o pipeline consome
// Cores, bordas e demais detalhes visuais ficam com a camada de apresentação
type Config struct {
	PageSizes        []int  `yaml:"page_sizes"`
	DefaultPageSize  int    `yaml:"default_page_size"`
	MissingOdds      string `yaml:"missing_odds"`       // lado sem cotação numa casa
	NoDataText       string `yaml:"no_data_text"`       // linha sem cotações
	TimeZone         string `yaml:"time_zone"`          // horários dos tooltips
	TimeFormat       string `yaml:"time_format"`        // layout Go
	EarlySeasonUntil string `yaml:"early_season_until"` // MM-DD, inclusivo
	MemoSize         int    `yaml:"memo_size"`          // páginas memorizadas por data

	loc *time.Location
}

// DefaultConfig devolve a configuração padrão já validada
func DefaultConfig() Config {
	var c Config
	c.applyDefaults()
	_ = c.Validate()
	return c
}

// LoadConfig lê o YAML (com ${VAR} expandidas), aplica defaults e valida
// Caminho vazio devolve DefaultConfig
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read board config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &c); err != nil {
		return Config{}, fmt.Errorf("parse board config yaml: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate board config: %w", err)
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if len(c.PageSizes) == 0 {
		c.PageSizes = slices.Clone(PageSizes)
	}
	if c.DefaultPageSize == 0 {
		c.DefaultPageSize = c.PageSizes[0]
	}
	if c.MissingOdds == "" {
		c.MissingOdds = "N/A"
	}
	if c.NoDataText == "" {
		c.NoDataText = "No data available"
	}
	if c.TimeZone == "" {
		c.TimeZone = "America/New_York"
	}
	if c.TimeFormat == "" {
		c.TimeFormat = "3:04 PM"
	}
	if c.EarlySeasonUntil == "" {
		c.EarlySeasonUntil = "04-20"
	}
	if c.MemoSize == 0 {
		c.MemoSize = 256
	}
}

// Validate confere os valores e resolve o fuso horário
func (c *Config) Validate() error {
	for _, s := range c.PageSizes {
		if s <= 0 {
			return fmt.Errorf("page_sizes: invalid size %d", s)
		}
	}
	if !slices.Contains(c.PageSizes, c.DefaultPageSize) {
		return fmt.Errorf("default_page_size %d not in page_sizes %v", c.DefaultPageSize, c.PageSizes)
	}
	if _, err := time.Parse("01-02", c.EarlySeasonUntil); err != nil {
		return fmt.Errorf("early_season_until %q: %w", c.EarlySeasonUntil, err)
	}
	if c.MemoSize < 0 {
		return fmt.Errorf("memo_size must not be negative")
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return fmt.Errorf("time_zone %q: %w", c.TimeZone, err)
	}
	c.loc = loc
	return nil
}

// Location devolve o fuso dos tooltips (UTC se a config não foi validada)
func (c Config) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// AllowsPageSize informa se o tamanho está entre os configurados
func (c Config) AllowsPageSize(n int) bool {
	return slices.Contains(c.PageSizes, n)
}
