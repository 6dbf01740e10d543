package entities

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Prediction persists one fare prediction returned by the ML gateway.
type Prediction struct {
	ID                uint            `gorm:"primaryKey"`
	PublicID          string          `gorm:"size:64;uniqueIndex"`
	PickupLocationID  int             `gorm:"index"`
	DropoffLocationID int             `gorm:"index"`
	PickupDatetime    time.Time       `gorm:"index"`
	TripDistance      float64         `gorm:"type:numeric(8,2)"`
	PredictedFare     decimal.Decimal `gorm:"type:numeric(10,2)"`
	Currency          string          `gorm:"size:8"`
	ModelVersion      string          `gorm:"size:64"`
	ModelInputs       datatypes.JSON  `gorm:"type:jsonb"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
