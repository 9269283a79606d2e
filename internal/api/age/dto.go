package age

type PredictRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required,base64"`
}

// Prediction is the age bucket predicted for an image. Fallback is set when
// the model could not produce a label and Label holds the default bucket.
type Prediction struct {
	Label    string `json:"label"`
	Fallback bool   `json:"fallback"`
	Reason   string `json:"reason,omitempty"`
}

type PredictResponse struct {
	Data Prediction `json:"data"`
}
