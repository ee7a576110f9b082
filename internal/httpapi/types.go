package httpapi

// RunStatus is what the UI polls between SSE events.
type RunStatus struct {
	LastRunAt  string `json:"last_run_at"`
	LastOkAt   string `json:"last_ok_at"`
	LastError  string `json:"last_error"`
	LastUnique int    `json:"last_unique"`
	Running    bool   `json:"running"`
}
