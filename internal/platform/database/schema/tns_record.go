package schema

// DomainRecordTable represents the 'tns.record' mirror table
type DomainRecordTable struct {
	Table       string
	DomainLabel string
	RecordKey   string
	RecordValue string
	UpdatedAt   string
}

// DomainRecord is the schema definition for tns.record
var DomainRecord = DomainRecordTable{
	Table:       "tns.record",
	DomainLabel: "domainlabel",
	RecordKey:   "recordkey",
	RecordValue: "recordvalue",
	UpdatedAt:   "updatedat",
}

func (t DomainRecordTable) Columns() []string {
	return []string{t.DomainLabel, t.RecordKey, t.RecordValue, t.UpdatedAt}
}
