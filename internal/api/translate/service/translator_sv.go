package translateService

import (
	"ProjectFusion/internal/api/translate"
	"ProjectFusion/pkg/gemini"
	"ProjectFusion/pkg/model"
	"ProjectFusion/pkg/openai"
	"context"
	"fmt"
	"os"
	"strings"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

const systemPrompt = "You translate image generation prompts into English. " +
	"Reply with the translation only, keep names and punctuation, add no commentary."

// Translator turns text written in sourceLang (ISO 639-1) into English.
type Translator interface {
	Translate(ctx context.Context, text string, sourceLang string) (string, error)
}

type geminiTranslator struct {
	client gemini.IGemini
}

func (t *geminiTranslator) Translate(ctx context.Context, text string, sourceLang string) (string, error) {
	prompt := fmt.Sprintf("%s\nSource language: %s\nText:\n%s", systemPrompt, sourceLang, text)
	return t.client.GenerateText(ctx, prompt)
}

func (t *geminiTranslator) Close() error {
	return t.client.Close()
}

type openAITranslator struct {
	client openai.IChatGPT
}

func (t *openAITranslator) Translate(ctx context.Context, text string, sourceLang string) (string, error) {
	return t.client.Complete(ctx, systemPrompt+" Source language: "+sourceLang+".", text)
}

// NewTranslatorHandle returns a lazily built translator for provider. An empty
// provider falls back to TRANSLATE_PROVIDER, then to gemini.
func NewTranslatorHandle(provider string) *model.Handle[Translator] {
	if provider == "" {
		provider = os.Getenv("TRANSLATE_PROVIDER")
	}
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		provider = ProviderGemini
	}

	return model.NewHandle("translator-"+provider, func(ctx context.Context) (Translator, error) {
		switch provider {
		case ProviderGemini:
			client, err := gemini.NewGeminiClient(context.WithoutCancel(ctx))
			if err != nil {
				return nil, err
			}
			return &geminiTranslator{client: client}, nil
		case ProviderOpenAI:
			client, err := openai.NewChatGPT()
			if err != nil {
				return nil, err
			}
			return &openAITranslator{client: client}, nil
		default:
			return nil, fmt.Errorf("%w: %s", translate.ErrUnknownBackend, provider)
		}
	})
}
