package dto

type TaskUpdateRequest struct {
	Completed bool `json:"completed" form:"completed"`
}

type TrainingUpdateRequest struct {
	Status string `json:"status" form:"status"`
}

type ChatRequest struct {
	Message string `json:"message" form:"message"`
}

type ChatResponse struct {
	Response string `json:"response"`
}
