package schema

// SyncStatusTable represents the 'tns.syncstatus' table
type SyncStatusTable struct {
	Table        string
	ID           string
	DomainLabel  string
	RecordKey    string
	RecordValue  string
	AtomURI      string
	AtomID       string
	Status       string
	AtomsCreated string
	TxHash       string
	LastError    string
	UpdatedAt    string
}

// SyncStatus is the schema definition for tns.syncstatus
var SyncStatus = SyncStatusTable{
	Table:        "tns.syncstatus",
	ID:           "id",
	DomainLabel:  "domainlabel",
	RecordKey:    "recordkey",
	RecordValue:  "recordvalue",
	AtomURI:      "atomuri",
	AtomID:       "atomid",
	Status:       "status",
	AtomsCreated: "atomscreated",
	TxHash:       "txhash",
	LastError:    "lasterror",
	UpdatedAt:    "updatedat",
}

func (t SyncStatusTable) Columns() []string {
	return []string{t.ID, t.DomainLabel, t.RecordKey, t.RecordValue, t.AtomURI, t.AtomID, t.Status, t.AtomsCreated, t.TxHash, t.LastError, t.UpdatedAt}
}
