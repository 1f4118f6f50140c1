package scheduling

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/blink-new/meetly-server/cmd/models"
	"github.com/google/uuid"
)

// Step is the guest booking flow position.
type Step int

const (
	StepSelectTime Step = iota
	StepEnterDetails
	StepConfirmed
)

func (s Step) String() string {
	switch s {
	case StepSelectTime:
		return "select-time"
	case StepEnterDetails:
		return "enter-details"
	case StepConfirmed:
		return "confirmation"
	default:
		return "unknown"
	}
}

// GuestDetails is what the guest fills in on the second step.
type GuestDetails struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message,omitempty"`
}

// AppointmentStore persists committed bookings. Append must be atomic:
// either the full record lands or nothing does.
type AppointmentStore interface {
	Append(ctx context.Context, appointment *models.Appointment) error
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status string) error
}

// Notifier delivers the confirmation after a booking lands. Delivery is
// fire-and-forget; failures never unwind a booking.
type Notifier interface {
	SendConfirmation(appointment models.Appointment)
}

// Session is one guest's booking flow against an owner's schedule.
// It is not safe for concurrent use; each booking session owns its own
// draft state.
type Session struct {
	ownerID  uint
	schedule WeekSchedule
	store    AppointmentStore
	notifier Notifier

	step         Step
	selectedDate time.Time
	selectedTime string

	horizonDays int
	now         func() time.Time
}

func NewSession(ownerID uint, schedule WeekSchedule, store AppointmentStore, notifier Notifier) *Session {
	return &Session{
		ownerID:     ownerID,
		schedule:    schedule,
		store:       store,
		notifier:    notifier,
		step:        StepSelectTime,
		horizonDays: DefaultHorizonDays,
		now:         time.Now,
	}
}

func (s *Session) Step() Step {
	return s.step
}

// Selection returns the held date and time, zero-valued when unset.
func (s *Session) Selection() (time.Time, string) {
	return s.selectedDate, s.selectedTime
}

// SelectSlot picks a slot on the first step. The date must fall inside
// the bookable window, strictly after today and within the horizon, and
// the slot must come from the generator's output for that date.
func (s *Session) SelectSlot(date time.Time, start string) error {
	if s.step != StepSelectTime {
		return ErrInvalidTransition
	}
	today := s.now()
	base := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, date.Location())
	if !date.After(base) {
		return &ValidationError{Field: "date", Message: "date must be after today"}
	}
	if date.After(base.AddDate(0, 0, s.horizonDays)) {
		return &ValidationError{Field: "date", Message: "date is beyond the booking horizon"}
	}
	if !s.schedule.HasSlot(date, start) {
		return &ValidationError{Field: "time", Message: "selected time is not an available slot"}
	}
	s.selectedDate = date
	s.selectedTime = start
	return nil
}

// Continue advances to the details step. Rejected until both a date and
// a time are held.
func (s *Session) Continue() error {
	if s.step != StepSelectTime {
		return ErrInvalidTransition
	}
	if s.selectedDate.IsZero() || s.selectedTime == "" {
		return &ValidationError{Field: "slot", Message: "select a date and time first"}
	}
	s.step = StepEnterDetails
	return nil
}

// Back returns to the picker. Prior date and time selections stay
// intact so the guest may re-pick or just continue again.
func (s *Session) Back() error {
	if s.step != StepEnterDetails {
		return ErrInvalidTransition
	}
	s.step = StepSelectTime
	return nil
}

// Submit validates the guest details, commits the appointment and moves
// to the terminal confirmation step. A store failure leaves the session
// on the details step with nothing persisted.
func (s *Session) Submit(ctx context.Context, details GuestDetails) (*models.Appointment, error) {
	if s.step != StepEnterDetails {
		return nil, ErrInvalidTransition
	}
	if err := details.validate(); err != nil {
		return nil, err
	}

	startMin, err := ParseClock(s.selectedTime)
	if err != nil {
		return nil, err
	}
	d := s.selectedDate
	startUTC := time.Date(d.Year(), d.Month(), d.Day(), startMin/60, startMin%60, 0, 0, time.UTC)

	appointment := &models.Appointment{
		ID:           uuid.New().String(),
		OwnerID:      s.ownerID,
		GuestName:    strings.TrimSpace(details.Name),
		GuestEmail:   strings.TrimSpace(details.Email),
		GuestMessage: details.Message,
		StartTime:    startUTC,
		Duration:     s.schedule.DurationMinutes,
		Status:       models.AppointmentConfirmed,
	}

	if err := s.store.Append(ctx, appointment); err != nil {
		return nil, &PersistenceError{Op: "append appointment", Err: err}
	}

	s.step = StepConfirmed
	if s.notifier != nil {
		s.notifier.SendConfirmation(*appointment)
	}
	return appointment, nil
}

func (g GuestDetails) validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	addr := strings.TrimSpace(g.Email)
	if addr == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}
	if parsed, err := mail.ParseAddress(addr); err != nil || parsed.Address != addr {
		return &ValidationError{Field: "email", Message: "email is not valid"}
	}
	return nil
}

// Cancel transitions an appointment confirmed -> cancelled through the
// store. Cancelling an already-cancelled appointment is a no-op, not an
// error; any other status is rejected without touching the store. This
// is the owner-side flow, separate from the guest session.
func Cancel(ctx context.Context, store AppointmentStore, appointment *models.Appointment) error {
	if appointment.Status == models.AppointmentCancelled {
		return nil
	}
	if appointment.Status != models.AppointmentConfirmed {
		return &ValidationError{Field: "status", Message: "only confirmed appointments can be cancelled"}
	}
	if err := store.UpdateStatus(ctx, appointment.ID, models.AppointmentCancelled); err != nil {
		return &PersistenceError{Op: "cancel appointment", Err: err}
	}
	appointment.Status = models.AppointmentCancelled
	return nil
}
