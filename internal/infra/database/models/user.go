package models

import (
	"time"
)

type User struct {
	ID           string    `json:"_id" gorm:"primaryKey;type:text"`
	Email        string    `json:"email" gorm:"type:text;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"type:text;not null"`
	CDate        time.Time `json:"cdate" gorm:"autoCreateTime"`
}
