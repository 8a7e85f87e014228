package domain

// FlowType distinguishes money leaving from money arriving.
type FlowType string

const (
	Expense FlowType = "EXPENSE"
	Income  FlowType = "INCOME"
)

// Commitment is a standing financial obligation or income source owned by a
// user. Its conditions over time live in Terms; what actually happened lives
// in Payments.
type Commitment struct {
	CommitmentID       string   `json:"commitmentID"` // Primary key (UUID)
	UserID             string   `json:"userID"`       // Owner
	Name               string   `json:"name"`
	CategoryID         string   `json:"categoryID"`
	Flow               FlowType `json:"flow"`
	Important          bool     `json:"important"`
	LinkedCommitmentID *string  `json:"linkedCommitmentID,omitempty"` // e.g. the loan this insurance belongs to
	LinkRole           *string  `json:"linkRole,omitempty"`
	Terms              []Term   `json:"terms,omitempty"`
	AuditFields
}

// LatestTerm returns the highest-version term, or nil when the commitment
// has none. Version order is authoritative, not slice order.
func (c Commitment) LatestTerm() *Term {
	var latest *Term
	for i := range c.Terms {
		if latest == nil || c.Terms[i].Version > latest.Version {
			latest = &c.Terms[i]
		}
	}
	return latest
}
