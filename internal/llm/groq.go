package llm

const groqBaseURL = "https://api.groq.com/openai/v1"

var groqModels = map[string]string{
	"llama-70b": "llama-3.3-70b-versatile",
	"llama-8b":  "llama-3.1-8b-instant",
}

// NewGroqProvider returns a provider for Groq's OpenAI-compatible API.
// Groq models accept json_object output only, so the schema travels in
// the system prompt and is enforced by local validation.
func NewGroqProvider(cfg KeyedConfig) (*OpenAIProvider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = groqBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultConfig().Groq.Model
	}
	return newChatProvider(ProviderGroq, cfg, groqModels, false)
}
