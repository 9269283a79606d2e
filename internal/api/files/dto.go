package files

import "ProjectFusion/internal/entity"

type FileQuery struct {
	Filename string `query:"filename" validate:"required,max=255"`
	Format   string `query:"format" validate:"omitempty,oneof=png webp"`
}

type IndexQuery struct {
	Date string `query:"date" validate:"omitempty,datetime=2006-01-02"`
}

type FileResponse struct {
	Data entity.OutputFile `json:"data"`
}

type Base64Response struct {
	Data Base64Data `json:"data"`
}

type Base64Data struct {
	Filename string `json:"filename"`
	Format   string `json:"format"`
	Base64   string `json:"base64"`
}

type URLResponse struct {
	Data URLData `json:"data"`
}

type URLData struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

type IndexResponse struct {
	Data []entity.OutputFile `json:"data"`
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}
