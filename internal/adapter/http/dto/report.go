package dto

type GenerateReportRequest struct {
	TaskID string `json:"task_id" binding:"required"`
}

type ReportItem struct {
	ID            string `json:"id"`
	TaskID        string `json:"task_id"`
	TaskTitle     string `json:"task_title"`
	CreatedBy     string `json:"created_by"`
	CreatedByName string `json:"created_by_name"`
	CreatedAt     string `json:"created_at"`
}
