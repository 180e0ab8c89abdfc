package domain

import "time"

type FieldType string

const (
	FieldText   FieldType = "text"
	FieldNumber FieldType = "number"
	FieldDate   FieldType = "date"
	FieldSelect FieldType = "select"
)

func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldNumber, FieldDate, FieldSelect:
		return true
	}
	return false
}

// CustomField is a project-level field definition. Options is only used for
// select fields.
type CustomField struct {
	ID        int64     `db:"id" json:"id"`
	ProjectID int64     `db:"project_id" json:"project_id"`
	Name      string    `db:"name" json:"name"`
	Type      FieldType `db:"field_type" json:"type"`
	Options   []string  `db:"options" json:"options,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CustomFieldValue is unique per (task, field); writes are upserts.
type CustomFieldValue struct {
	ID        int64     `db:"id" json:"id"`
	TaskID    int64     `db:"task_id" json:"task_id"`
	FieldID   int64     `db:"field_id" json:"field_id"`
	Value     string    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
