package domain

import "time"

// Profile is the marketplace-facing user record. Exactly one per Identity.
type Profile struct {
	ID           uint      `gorm:"primaryKey"`
	IdentityID   uint      `gorm:"uniqueIndex;not null"`
	Identity     Identity  `gorm:"constraint:OnDelete:CASCADE"`
	Role         Role      `gorm:"size:20;not null;index"`
	FirstName    string    `gorm:"size:30"`
	LastName     string    `gorm:"size:30"`
	File         string    `gorm:"size:255"`
	Location     string    `gorm:"size:30"`
	Tel          string    `gorm:"size:30"`
	Description  string    `gorm:"size:150"`
	WorkingHours string    `gorm:"size:15"`
	CreatedAt    time.Time
}

// Owner implements authz.Resource: a profile is owned by itself.
func (p *Profile) Owner() uint { return p.ID }
