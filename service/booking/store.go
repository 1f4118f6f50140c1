package booking

import (
	"context"
	"errors"

	"github.com/blink-new/meetly-server/cmd/models"
	"gorm.io/gorm"
)

var ErrAppointmentNotFound = errors.New("appointment not found")

// AppointmentStore is the gorm-backed scheduling.AppointmentStore.
type AppointmentStore struct {
	db *gorm.DB
}

func NewAppointmentStore(db *gorm.DB) *AppointmentStore {
	return &AppointmentStore{db: db}
}

// Append inserts the appointment inside a transaction: the record lands
// whole or not at all.
func (s *AppointmentStore) Append(ctx context.Context, appointment *models.Appointment) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Create(appointment).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func (s *AppointmentStore) ListByOwner(ctx context.Context, ownerID uint) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("start_time ASC").
		Find(&appointments).Error
	return appointments, err
}

func (s *AppointmentStore) UpdateStatus(ctx context.Context, id string, status string) error {
	result := s.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}
