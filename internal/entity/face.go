package entity

// BoundingBox is a face rectangle in pixel coordinates.
type BoundingBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func (b BoundingBox) Area() float64 {
	return (b.X2 - b.X1) * (b.Y2 - b.Y1)
}

// Face is a detected face as reported by the face analyser. The embedding is
// opaque and only compared by the inference service.
type Face struct {
	BoundingBox BoundingBox `json:"bounding_box"`
	Score       float64     `json:"score"`
	Embedding   []float32   `json:"embedding,omitempty"`
	Age         *int        `json:"age,omitempty"`
	Gender      *string     `json:"gender,omitempty"`
}
