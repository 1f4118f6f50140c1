package models

import (
	"time"
)

const (
	AppointmentConfirmed = "confirmed"
	AppointmentCancelled = "cancelled"
	AppointmentCompleted = "completed"
)

type Appointment struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID      uint      `gorm:"column:owner_id;not null;index" json:"owner_id"`
	GuestName    string    `gorm:"column:guest_name;size:255;not null" json:"guest_name"`
	GuestEmail   string    `gorm:"column:guest_email;size:255;not null" json:"guest_email"`
	GuestMessage string    `gorm:"column:guest_message;type:text" json:"guest_message,omitempty"`
	StartTime    time.Time `gorm:"column:start_time;not null" json:"start_time"`
	Duration     int       `gorm:"column:duration;not null" json:"duration"`
	Status       string    `gorm:"column:status;size:20;not null;default:confirmed" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

// EndTime is derived, never stored.
func (a *Appointment) EndTime() time.Time {
	return a.StartTime.Add(time.Duration(a.Duration) * time.Minute)
}
