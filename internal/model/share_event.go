package model

import (
	"time"
)

// ShareEvent 一次分享行为，只追加不修改
type ShareEvent struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	ContentID  uint64    `gorm:"not null;index:idx_content_platform" json:"contentId"`
	Platform   string    `gorm:"type:varchar(32);not null;index:idx_content_platform;index:idx_platform_created" json:"platform"`
	CallerHash string    `gorm:"type:varchar(16);not null" json:"callerHash"`
	CallerIP   string    `gorm:"type:varchar(64);not null" json:"callerIp"`
	SharedURL  string    `gorm:"type:varchar(2048)" json:"sharedUrl"`
	CreatedAt  time.Time `gorm:"not null;index;index:idx_platform_created" json:"createdAt"`
}

func (ShareEvent) TableName() string {
	return "share_events"
}
