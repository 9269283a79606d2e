package fusion

import "ProjectFusion/internal/entity"

type RunResponse struct {
	Data entity.OutputFile `json:"data"`
}
