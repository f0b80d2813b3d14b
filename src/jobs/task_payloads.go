package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TypeRenderDocument = "inspection:render"

type InspectionPayload struct {
	InspectionID string `json:"inspection_id"`
}

func NewRenderDocumentTask(inspectionID string) (*asynq.Task, error) {
	payload, err := json.Marshal(InspectionPayload{InspectionID: inspectionID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRenderDocument, payload), nil
}
