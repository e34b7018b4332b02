package factory

import (
	"fmt"

	"interview-prep-be/pkg/llm"
	"interview-prep-be/pkg/llm/ollama"
	"interview-prep-be/pkg/llm/openai"
)

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

type Settings struct {
	Provider string
	OpenAI   openai.Config
	Ollama   ollama.Config
}

func NewLLMProvider(s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case ProviderOpenAI, "":
		return openai.NewProvider(s.OpenAI), nil
	case ProviderOllama:
		return ollama.NewOllamaProvider(s.Ollama), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
