package schema

// CommitmentTable represents the 'tns.commitment' table
type CommitmentTable struct {
	Table           string
	ID              string
	CommitmentHash  string
	Label           string
	Owner           string
	DurationSeconds string
	SecretDigest    string
	Resolver        string
	CreatedAt       string
	RevealedAt      string
}

// Commitment is the schema definition for tns.commitment
var Commitment = CommitmentTable{
	Table:           "tns.commitment",
	ID:              "id",
	CommitmentHash:  "commitmenthash",
	Label:           "label",
	Owner:           "owner",
	DurationSeconds: "durationseconds",
	SecretDigest:    "secretdigest",
	Resolver:        "resolver",
	CreatedAt:       "createdat",
	RevealedAt:      "revealedat",
}

func (t CommitmentTable) Columns() []string {
	return []string{t.ID, t.CommitmentHash, t.Label, t.Owner, t.DurationSeconds, t.SecretDigest, t.Resolver, t.CreatedAt, t.RevealedAt}
}
