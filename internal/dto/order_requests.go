package dto

type UpdateStatusRequest struct {
	Status  string `json:"status"`
	Version *int   `json:"version,omitempty"`
}

type BulkUpdateRequest struct {
	IDs    []string `json:"ids"`
	Status string   `json:"status"`
}

type ToggleSelectionRequest struct {
	ID       string `json:"id"`
	Selected bool   `json:"selected"`
}

type PageSelectionRequest struct {
	IDs      []string `json:"ids"`
	Selected bool     `json:"selected"`
}
