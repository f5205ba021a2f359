package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

// HistoricalDraw rows are populated by an external importer; this
// service only reads them.
type HistoricalDraw struct {
  ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  LotteryType     string          `gorm:"index;not null;column:lottery_type" json:"lottery_type"`
  DrawDate        time.Time       `gorm:"index;not null;column:draw_date" json:"draw_date"`
  WinningNumbers  datatypes.JSON  `gorm:"not null;column:winning_numbers" json:"winning_numbers"`
}

func (HistoricalDraw) TableName() string {
  return "lottery_history"
}
