package models

import "time"

// User is a registered account. The password column only ever holds a
// salted PBKDF2 digest.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"size:100;uniqueIndex;not null"`
	Password  string `gorm:"size:200;not null"`
	Name      string `gorm:"size:100;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Cafe is a reviewed venue. The association fields exist so the migrator
// emits real foreign-key constraints; queries resolve relations by ID via
// the helpers in internal/db and never preload them.
type Cafe struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:250;uniqueIndex;not null"`
	MapURL       string `gorm:"size:500;not null"`
	ImgURL       string `gorm:"size:500;not null"`
	Location     string `gorm:"size:250;not null"`
	Phone        string `gorm:"size:250;not null"`
	OpenTime     string `gorm:"size:20;not null"` // "HH:MM"
	CloseTime    string `gorm:"size:20;not null"`
	CoffeeRating string `gorm:"size:250;not null"`
	FoodRating   string `gorm:"size:250;not null"`
	WifiRating   string `gorm:"size:250;not null"`
	PowerOutlet  string `gorm:"size:250;not null"`
	CoffeePrice  string `gorm:"size:250"`
	Body         string `gorm:"type:text;not null"`
	Date         string `gorm:"size:250;not null"` // display string, e.g. "August 30, 2026"
	AuthorID     uint   `gorm:"not null;index"`
	Author       *User  `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Comment is a remark attached to a cafe by a user. The cafe_id cascade is
// enforced twice: by the schema constraint below and by the transaction in
// db.DeleteCafe, so no dangling cafe_id is ever observable.
type Comment struct {
	ID        uint   `gorm:"primaryKey"`
	Text      string `gorm:"type:text;not null"`
	AuthorID  uint   `gorm:"not null;index"`
	Author    *User  `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	CafeID    uint   `gorm:"not null;index"`
	Cafe      *Cafe  `gorm:"foreignKey:CafeID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time
}
