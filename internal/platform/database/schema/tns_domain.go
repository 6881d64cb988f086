package schema

// DomainTable represents the 'tns.domain' mirror table
type DomainTable struct {
	Table        string
	Label        string
	FullName     string
	TokenID      string
	Owner        string
	ExpiresAt    string
	RegisteredAt string
	UpdatedAt    string
}

// Domain is the schema definition for tns.domain
var Domain = DomainTable{
	Table:        "tns.domain",
	Label:        "label",
	FullName:     "fullname",
	TokenID:      "tokenid",
	Owner:        "owner",
	ExpiresAt:    "expiresat",
	RegisteredAt: "registeredat",
	UpdatedAt:    "updatedat",
}

func (t DomainTable) Columns() []string {
	return []string{t.Label, t.FullName, t.TokenID, t.Owner, t.ExpiresAt, t.RegisteredAt, t.UpdatedAt}
}
