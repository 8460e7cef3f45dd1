package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
)

// EntityChanges is a jsonb audit payload: an ordered list of field diffs
// captured by a single edit.
type EntityChanges struct {
	Description string         `json:"description"`
	Data        []FieldChanges `json:"data"`
}

type FieldChanges struct {
	Field    string `json:"field"`
	OldValue any    `json:"old_value"`
	NewValue any    `json:"new_value"`
}

func (j EntityChanges) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *EntityChanges) Scan(value any) error {
	if err := json.Unmarshal(value.([]byte), &j); err != nil {
		return err
	}
	return nil
}

// BudgetLines is a jsonb ordered sequence of budget rows; order is part of
// the submitted breakdown and must survive round-trips.
type BudgetLines []BudgetLine

type BudgetLine struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

func (j BudgetLines) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *BudgetLines) Scan(value any) error {
	if err := json.Unmarshal(value.([]byte), &j); err != nil {
		return err
	}
	return nil
}

func (j BudgetLines) Total() float64 {
	var total float64
	for _, line := range j {
		total += line.Amount
	}
	return total
}

type StringList []string

func (j StringList) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *StringList) Scan(value any) error {
	if err := json.Unmarshal(value.([]byte), &j); err != nil {
		return err
	}
	return nil
}
