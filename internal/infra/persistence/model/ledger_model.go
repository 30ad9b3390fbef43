package model

import (
	"time"
)

// LedgerEntryModel mirrors the 'authentications' table, the server-side
// record of refresh tokens that are still honored. The signed token string
// itself is the primary key; issuing the same string twice is impossible
// because every refresh token carries a random jti.
type LedgerEntryModel struct {
	Token     string `gorm:"type:text;primary_key"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (LedgerEntryModel) TableName() string {
	return "authentications"
}
