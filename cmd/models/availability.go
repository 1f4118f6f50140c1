package models

import (
	"gorm.io/gorm"
)

// Availability holds an owner's meeting preferences. The weekly working
// hours live in DayAvailability, one row per weekday.
type Availability struct {
	gorm.Model
	UserID          uint `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	MeetingDuration int  `gorm:"column:meeting_duration;not null;default:30" json:"meeting_duration"`

	Days []DayAvailability `gorm:"foreignKey:AvailabilityID;constraint:OnDelete:CASCADE;" json:"days"`
}

func (Availability) TableName() string {
	return "availabilities"
}

// DayAvailability is one weekday's working window. Weekday follows
// time.Weekday numbering (Sunday = 0).
type DayAvailability struct {
	gorm.Model
	AvailabilityID uint   `gorm:"column:availability_id;not null;uniqueIndex:idx_availability_weekday" json:"-"`
	Weekday        int    `gorm:"column:weekday;not null;uniqueIndex:idx_availability_weekday" json:"weekday"`
	Enabled        bool   `gorm:"column:enabled;default:false" json:"enabled"`
	StartTime      string `gorm:"column:start_time;size:5;not null" json:"start_time"`
	EndTime        string `gorm:"column:end_time;size:5;not null" json:"end_time"`
}

func (DayAvailability) TableName() string {
	return "day_availabilities"
}
