package coc

import "time"

// CurrentSchemaVersion is the version written by exports
const CurrentSchemaVersion = 2

// Identity is the descriptive part of a character record
type Identity struct {
	Name       string `json:"name" yaml:"name"`
	Player     string `json:"player" yaml:"player"`
	Occupation string `json:"occupation" yaml:"occupation"`
	Age        int    `json:"age" yaml:"age"`
	Gender     string `json:"gender,omitempty" yaml:"gender,omitempty"`
	Residence  string `json:"residence,omitempty" yaml:"residence,omitempty"`
	Birthplace string `json:"birthplace,omitempty" yaml:"birthplace,omitempty"`
}

// Finance is derived from the credit rating skill
type Finance struct {
	CreditRating  int     `json:"creditRating" yaml:"creditRating"`
	SpendingLevel float64 `json:"spendingLevel" yaml:"spendingLevel"`
	Cash          float64 `json:"cash" yaml:"cash"`
	Assets        float64 `json:"assets" yaml:"assets"`
}

// Character is a finished, schema-compliant character record
type Character struct {
	SchemaVersion int          `json:"schemaVersion" yaml:"schemaVersion"`
	ID            string       `json:"id" yaml:"id"`
	PlayerID      string       `json:"playerId,omitempty" yaml:"playerId,omitempty"`
	Identity      Identity     `json:"identity" yaml:"identity"`
	Attributes    Attributes   `json:"attributes" yaml:"attributes"`
	Derived       DerivedStats `json:"derived" yaml:"derived"`
	Skills        []Skill      `json:"skills" yaml:"skills"`
	Finance       Finance      `json:"finance" yaml:"finance"`
	CreatedAt     time.Time    `json:"createdAt" yaml:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt" yaml:"updatedAt"`
}
