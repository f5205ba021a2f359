package types

import (
  "time"
  "github.com/google/uuid"
)

type User struct {
  ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  Email         string          `gorm:"uniqueIndex;not null;column:email" json:"email"`
  Name          string          `gorm:"not null;column:name" json:"name"`
  AccessToken   string          `gorm:"uniqueIndex;not null;column:access_token" json:"access_token"`
  CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
  IsActive      bool            `gorm:"not null;default:true;column:is_active" json:"is_active"`
}

func (User) TableName() string {
  return "user"
}
