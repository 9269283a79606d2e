package translate

type TranslateRequest struct {
	Prompt string `json:"prompt" validate:"required,max=4000"`
}

// Result is the outcome of a translation. When Fallback is set Text holds the
// original prompt and Reason explains why it was not translated.
type Result struct {
	Text       string `json:"text"`
	Source     string `json:"source_language,omitempty"`
	Translated bool   `json:"translated"`
	Fallback   bool   `json:"fallback"`
	Reason     string `json:"reason,omitempty"`
}

type TranslateResponse struct {
	Data Result `json:"data"`
}
