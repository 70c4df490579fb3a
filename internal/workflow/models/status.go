package models

// WorkflowStatus is the per-order summary derived from the event log.
type WorkflowStatus struct {
	Order      string `json:"order"`
	Design     string `json:"design"`
	Production string `json:"production"`
	Payment    string `json:"payment"`
}
