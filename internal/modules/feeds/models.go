package feeds

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Feed is the per-form payment configuration: which PayArc field to use
// and how form fields map onto customer/address data. Owned by the host
// framework; this service only reads it.
type Feed struct {
	ID              string         `gorm:"type:char(36);primaryKey"`
	FormID          int64          `gorm:"not null;index:ix_feeds_form_id"`
	Name            string         `gorm:"type:varchar(128);not null"`
	TransactionType string         `gorm:"type:varchar(32);not null;default:'product'"`
	Active          bool           `gorm:"not null;default:true"`
	FieldMapJSON    datatypes.JSON `gorm:"type:json"`
	CreatedAt       time.Time      `gorm:"type:datetime(3);not null"`
	UpdatedAt       time.Time      `gorm:"type:datetime(3);not null"`
}

func (Feed) TableName() string { return "payment_feeds" }

// FieldMap: logical name -> form field id. Unmapped entries stay empty
// and the charge flow falls back to defaults.
type FieldMap struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Country   string `json:"country"`
	City      string `json:"city"`
	Address   string `json:"address"`
	Zip       string `json:"zip"`
	State     string `json:"state"`
}

func (f *Feed) FieldMap() (FieldMap, error) {
	var fm FieldMap
	if len(f.FieldMapJSON) == 0 {
		return fm, nil
	}
	err := json.Unmarshal(f.FieldMapJSON, &fm)
	return fm, err
}

func (f *Feed) SetFieldMap(fm FieldMap) error {
	raw, err := json.Marshal(fm)
	if err != nil {
		return err
	}
	f.FieldMapJSON = datatypes.JSON(raw)
	return nil
}
