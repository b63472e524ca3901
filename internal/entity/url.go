package entity

import (
	"fmt"

	"gorm.io/gorm"
)

// StoredURL is an operator-managed keep-alive target kept in the database.
type StoredURL struct {
	gorm.Model
	Group    GroupID `json:"group" gorm:"column:url_group;size:16;index;not null"`
	Address  string  `json:"address" gorm:"size:2048;not null"`
	Position int     `json:"position" gorm:"default:0;not null"`
	Enabled  bool    `json:"enabled" gorm:"not null"`
	Note     string  `json:"note" gorm:"size:255"`
}

// BeforeSave rejects rows that no run would ever load.
func (u *StoredURL) BeforeSave(_ *gorm.DB) error {
	if !u.Group.Valid() {
		return fmt.Errorf("unknown url group %q", u.Group)
	}
	return nil
}
