package models

import (
    "gorm.io/gorm"
)

// User is either a chef or a client. Chefs publish and edit the daily menu and
// can see every order; clients can only order from it. Self-signup always
// produces a client, chef accounts are provisioned by hand.
type User struct {
    gorm.Model
    Username  string `gorm:"uniqueIndex;not null"`
    Password  string `gorm:"not null" json:"-"` // bcrypt hash, never serialized
    Email     string
    FirstName string
    LastName  string
    IsChef    bool `gorm:"default:false"`
    Active    bool `gorm:"default:true"`
}
