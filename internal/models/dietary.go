package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// DietaryProfileSchemaVersion is written with every stored profile.
const DietaryProfileSchemaVersion = 1

// PreferenceList is the flattened "<category>:<item>" list. PostgreSQL stores
// it as text[]; other dialects get the array literal in a text column.
type PreferenceList []string

func (l PreferenceList) Value() (driver.Value, error) {
	if l == nil {
		l = PreferenceList{}
	}
	return pq.StringArray(l).Value()
}

func (l *PreferenceList) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	*l = PreferenceList(arr)
	if *l == nil {
		*l = PreferenceList{}
	}
	return nil
}

func (PreferenceList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// DietaryProfile is the single remote profile document of a user.
type DietaryProfile struct {
	UserID        uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"user_id"`
	Preferences   PreferenceList `gorm:"not null" json:"preferences"`
	SchemaVersion int            `gorm:"not null;default:1" json:"schema_version"`
	Revision      int64          `gorm:"not null;default:1" json:"revision"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (DietaryProfile) TableName() string {
	return "dietary_profiles"
}
