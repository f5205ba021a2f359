package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

// Numbers holds the per-game structured number sets, keyed the way the
// lottery config names them ("main_numbers" plus "lucky_numbers",
// "complementary" or "key_number"). Records are immutable after create.
type Prediction struct {
  ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  UserID          uuid.UUID       `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
  LotteryType     string          `gorm:"index;not null;column:lottery_type" json:"lottery_type"`
  Numbers         datatypes.JSON  `gorm:"not null;column:numbers" json:"numbers"`
  Confidence      float64         `gorm:"not null;column:prediction_confidence" json:"prediction_confidence"`
  Analysis        string          `gorm:"type:text;column:ai_analysis" json:"ai_analysis"`
  Language        string          `gorm:"column:language" json:"language"`
  PredictionDate  time.Time       `gorm:"index;not null;column:prediction_date" json:"prediction_date"`
}

func (Prediction) TableName() string {
  return "lottery_prediction"
}
