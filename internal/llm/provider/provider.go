// Package provider builds the configured LLM client.
package provider

import (
	"fmt"

	"github.com/tahcohcat/studyquest/config"
	"github.com/tahcohcat/studyquest/internal/llm"
	"github.com/tahcohcat/studyquest/internal/llm/ollama"
	"github.com/tahcohcat/studyquest/internal/llm/openai"
)

type Provider string

const (
	ProviderOllama Provider = "ollama"
	ProviderOpenAI Provider = "openai"
)

// New creates a new LLM client based on the configuration
func New(cfg *config.Config) (llm.LLM, error) {
	switch Provider(cfg.LLM.Provider) {
	case ProviderOllama:
		return ollama.NewClient(&cfg.Ollama)
	case ProviderOpenAI:
		return openai.NewClient(&cfg.OpenAI)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLM.Provider)
	}
}
