package domain

// Category groups commitments for display and filtering.
type Category struct {
	CategoryID string   `json:"categoryID"` // Primary key (UUID)
	UserID     string   `json:"userID"`     // Owner
	Name       string   `json:"name"`
	Kind       FlowType `json:"kind"` // which flow type the category applies to
	Icon       string   `json:"icon,omitempty"`
	AuditFields
}
