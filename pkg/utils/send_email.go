package utils

import (
	"fmt"
	"net/smtp"
	"os"
)

// SendBookingConfirmationEmail mails the meeting link after a booking is
// materialized. Best-effort; callers log and move on when it fails.
func SendBookingConfirmationEmail(to, meetingLink, bookedAt string, amount float64) error {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASSWORD")
	from := os.Getenv("SMTP_FROM")

	if from == "" {
		from = user
	}
	if host == "" || user == "" || pass == "" {
		return fmt.Errorf("SMTP config not set")
	}
	if port == "" {
		port = "587"
	}

	addr := host + ":" + port
	auth := smtp.PlainAuth("", user, pass, host)

	subject := "Your consultation is confirmed"
	body := fmt.Sprintf("Your consultation is booked.\r\n\r\nBooked at: %s\r\nAmount paid: %.2f\r\nMeeting link: %s\r\n", bookedAt, amount, meetingLink)

	msg := "From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n" +
		"\r\n" + body

	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}
