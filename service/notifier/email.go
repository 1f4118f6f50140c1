package notifier

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/blink-new/meetly-server/cmd/models"
	"gopkg.in/gomail.v2"
)

// EmailNotifier sends booking mail over SMTP. All sends are
// fire-and-forget: failures are logged, never returned to the booking
// flow.
type EmailNotifier struct{}

func NewEmailNotifier() *EmailNotifier {
	return &EmailNotifier{}
}

func (n *EmailNotifier) SendConfirmation(appointment models.Appointment) {
	go func() {
		subject := "Appointment Confirmed"
		body := fmt.Sprintf(
			"Hi %s,\n\nYour appointment on %s (%d minutes) is confirmed.\n\nBooking reference: %s",
			appointment.GuestName,
			appointment.StartTime.Format("Monday, January 2 2006 at 15:04 MST"),
			appointment.Duration,
			appointment.ID,
		)
		if err := sendMail(appointment.GuestEmail, subject, body); err != nil {
			log.Printf("Error sending confirmation email for appointment %s: %v", appointment.ID, err)
		}
	}()
}

func (n *EmailNotifier) SendCancellation(appointment models.Appointment) {
	go func() {
		subject := "Appointment Cancelled"
		body := fmt.Sprintf(
			"Hi %s,\n\nYour appointment on %s has been cancelled.\n\nBooking reference: %s",
			appointment.GuestName,
			appointment.StartTime.Format("Monday, January 2 2006 at 15:04 MST"),
			appointment.ID,
		)
		if err := sendMail(appointment.GuestEmail, subject, body); err != nil {
			log.Printf("Error sending cancellation email for appointment %s: %v", appointment.ID, err)
		}
	}()
}

func sendMail(to, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	port, err := strconv.Atoi(smtpPort)
	if err != nil {
		return fmt.Errorf("invalid SMTP port: %v", err)
	}
	d := gomail.NewDialer(smtpHost, port, smtpUser, smtpPass)

	return d.DialAndSend(m)
}
