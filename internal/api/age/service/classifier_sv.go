package ageService

import (
	"ProjectFusion/internal/api/age"
	"ProjectFusion/pkg/gemini"
	"ProjectFusion/pkg/model"
	"ProjectFusion/pkg/nlp"
	websocketPkg "ProjectFusion/pkg/websocket"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

const (
	ProviderInference = "inference"
	ProviderGemini    = "gemini"

	DefaultModelName = "nateraw/vit-age-classifier"
)

// Classifier returns the top age bucket for a preprocessed PNG image.
type Classifier interface {
	Classify(ctx context.Context, png []byte) (string, error)
}

type inferenceClassifier struct {
	client    websocketPkg.IInference
	modelName string
}

func (c *inferenceClassifier) Classify(ctx context.Context, png []byte) (string, error) {
	resp, err := c.client.Call(ctx, websocketPkg.Request{
		Op:    websocketPkg.OpClassify,
		Model: c.modelName,
		Image: base64.StdEncoding.EncodeToString(png),
	})
	if err != nil {
		return "", err
	}

	return resp.Label, nil
}

type geminiClassifier struct {
	client gemini.IGemini
}

func (c *geminiClassifier) Classify(ctx context.Context, png []byte) (string, error) {
	prompt := fmt.Sprintf(
		"Estimate the age of the person in this photo. Answer with exactly one of these labels and nothing else: %s",
		strings.Join(age.Labels, ", "),
	)

	answer, err := c.client.AnalyzeImage(ctx, png, "image/png", prompt)
	if err != nil {
		return "", err
	}

	return matchLabel(answer)
}

func (c *geminiClassifier) Close() error {
	return c.client.Close()
}

// matchLabel maps a free-form model answer onto one of the known buckets.
func matchLabel(answer string) (string, error) {
	answer = nlp.Fold(strings.Trim(strings.TrimSpace(answer), `."'`))
	if answer == "" {
		return "", age.ErrEmptyLabel
	}

	for _, label := range age.Labels {
		if answer == label {
			return label, nil
		}
	}

	for i := len(age.Labels) - 1; i >= 0; i-- {
		if strings.Contains(answer, age.Labels[i]) {
			return age.Labels[i], nil
		}
	}

	return "", fmt.Errorf("%w: %q", age.ErrUnknownLabel, answer)
}

// NewClassifierHandle returns a lazily built classifier for provider. An
// empty provider falls back to AGE_CLASSIFIER_PROVIDER, then to the inference
// service.
func NewClassifierHandle(provider string, client websocketPkg.IInference) *model.Handle[Classifier] {
	if provider == "" {
		provider = os.Getenv("AGE_CLASSIFIER_PROVIDER")
	}
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		provider = ProviderInference
	}

	modelName := os.Getenv("AGE_MODEL_NAME")
	if modelName == "" {
		modelName = DefaultModelName
	}

	return model.NewHandle("age-"+provider, func(ctx context.Context) (Classifier, error) {
		switch provider {
		case ProviderInference:
			if client == nil {
				return nil, websocketPkg.ErrNotConfigured
			}
			return &inferenceClassifier{client: client, modelName: modelName}, nil
		case ProviderGemini:
			gm, err := gemini.NewGeminiClient(context.WithoutCancel(ctx))
			if err != nil {
				return nil, err
			}
			return &geminiClassifier{client: gm}, nil
		default:
			return nil, fmt.Errorf("%w: %s", age.ErrUnknownBackend, provider)
		}
	})
}
