package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DataConfig struct {
	Dir string `yaml:"dir"`
}

type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	Key     string `yaml:"key"`
	Model   string `yaml:"model"`
}

// RetrievalConfig holds the retrieval and coverage policy parameters.
// The defaults match the values the simulator was tuned with; they are
// configuration, not protocol invariants.
type RetrievalConfig struct {
	KInitial          int     `yaml:"k_initial"`
	KFinal            int     `yaml:"k_final"`
	KeywordWeight     float64 `yaml:"keyword_weight"`
	CoverageThreshold float64 `yaml:"coverage_threshold"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Data      DataConfig      `yaml:"data"`
	EmbedLLM  LLMConfig       `yaml:"embed_llm"`
	ChatLLM   LLMConfig       `yaml:"chat_llm"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
}

// LoadConfig reads the YAML config at path, fills in defaults for any
// omitted field and applies environment overrides. A missing file is not
// an error; the defaults plus environment are enough to run.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "4000"
	}
	if c.Data.Dir == "" {
		c.Data.Dir = "./data"
	}
	if c.EmbedLLM.Model == "" {
		c.EmbedLLM.Model = "text-embedding-3-small"
	}
	if c.ChatLLM.Model == "" {
		c.ChatLLM.Model = "gpt-4o-mini"
	}
	if c.Retrieval.KInitial == 0 {
		c.Retrieval.KInitial = 15
	}
	if c.Retrieval.KFinal == 0 {
		c.Retrieval.KFinal = 5
	}
	if c.Retrieval.KeywordWeight == 0 {
		c.Retrieval.KeywordWeight = 0.1
	}
	if c.Retrieval.CoverageThreshold == 0 {
		c.Retrieval.CoverageThreshold = 0.7
	}
}

func (c *Config) applyEnv() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.EmbedLLM.Key = key
		c.ChatLLM.Key = key
	}
	if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
		c.EmbedLLM.BaseURL = base
		c.ChatLLM.BaseURL = base
	}
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		c.Data.Dir = dir
	}
}
