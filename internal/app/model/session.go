package model

import "time"

// Session is a minted anonymous identity. Rows exist so the cleanup job can
// tell idle throwaway sessions from ones that own a wish or a support.
type Session struct {
	ID         string    `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `gorm:"index" json:"last_seen_at"`
}

func (Session) TableName() string {
	return "sessions"
}
