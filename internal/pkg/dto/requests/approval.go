package requests

type ApprovalDecision struct {
	Action        string `json:"action" validate:"required,oneof=approve edit reject"`
	EditedContent string `json:"edited_content,omitempty"`
	Reason        string `json:"reason,omitempty"`
	Notes         string `json:"notes,omitempty"`
}
