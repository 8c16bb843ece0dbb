package ingest

import "github.com/amrwatch/surveillance/pkg/common/models"

type RequestWrapper struct {
	Source   string                 `json:"source"`
	Row      map[string]interface{} `json:"row"`
	Metadata map[string]string      `json:"metadata,omitempty"`
}

func (r RequestWrapper) ToModel() models.SubmitRequest {
	return models.SubmitRequest{
		Source:   r.Source,
		Row:      r.Row,
		Metadata: r.Metadata,
	}
}
