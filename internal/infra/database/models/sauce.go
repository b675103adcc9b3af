package models

import (
	"time"

	"gorm.io/datatypes"
)

type Sauce struct {
	ID            string                      `json:"_id" gorm:"primaryKey;type:text"`
	UserID        string                      `json:"userId" gorm:"type:text;index"`
	Name          string                      `json:"name" gorm:"type:text"`
	Manufacturer  string                      `json:"manufacturer" gorm:"type:text"`
	Description   string                      `json:"description" gorm:"type:text"`
	MainPepper    string                      `json:"mainPepper" gorm:"type:text"`
	ImageURL      string                      `json:"imageUrl" gorm:"type:text"`
	Heat          int                         `json:"heat"`
	Likes         int                         `json:"likes" gorm:"not null;default:0"`
	Dislikes      int                         `json:"dislikes" gorm:"not null;default:0"`
	UsersLiked    datatypes.JSONSlice[string] `json:"usersLiked"`
	UsersDisliked datatypes.JSONSlice[string] `json:"usersDisliked"`
	CDate         time.Time                   `json:"cdate" gorm:"autoCreateTime"`
	MDate         time.Time                   `json:"mdate" gorm:"autoUpdateTime"`
}
