package schema

// AgentTable represents the 'tns.agent' directory table
type AgentTable struct {
	Table        string
	DomainLabel  string
	Owner        string
	Category     string
	Description  string
	Endpoint     string
	RegisteredAt string
	UpdatedAt    string
}

// Agent is the schema definition for tns.agent
var Agent = AgentTable{
	Table:        "tns.agent",
	DomainLabel:  "domainlabel",
	Owner:        "owner",
	Category:     "category",
	Description:  "description",
	Endpoint:     "endpoint",
	RegisteredAt: "registeredat",
	UpdatedAt:    "updatedat",
}

func (t AgentTable) Columns() []string {
	return []string{t.DomainLabel, t.Owner, t.Category, t.Description, t.Endpoint, t.RegisteredAt, t.UpdatedAt}
}
