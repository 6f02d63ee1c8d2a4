package dto

// HealthResponse reports the state of the API and its dependencies
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Database  string `json:"database"`
	MLService string `json:"ml_service"`
	Timestamp string `json:"timestamp"`
}
