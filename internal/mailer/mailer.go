package mailer

import (
	"fmt"
	"net/smtp"
)

// Mailer sends booking confirmation emails over SMTP. Construction
// takes the full transport config so nothing is read from ambient
// state at send time.
type Mailer struct {
	addr string
	auth smtp.Auth
	from string
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New creates a Mailer. Auth is skipped when no username is
// configured (local relay setups).
func New(host, port, username, password, from string) *Mailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &Mailer{
		addr: host + ":" + port,
		auth: auth,
		from: from,
		send: smtp.SendMail,
	}
}

// SendBookingConfirmation sends one confirmation email and returns a
// human-readable confirmation string. Transport errors are returned
// to the caller so the task queue sees the failure.
func (m *Mailer) SendBookingConfirmation(to, details string) (string, error) {
	body := fmt.Sprintf(
		"Dear customer,\n\nYour booking was successful!\n\nDetails:\n%s\n\nThank you for choosing us!",
		details)
	return m.sendMail(to, "Booking Confirmation", body)
}

// SendPaymentConfirmation sends the email that follows a verified
// payment.
func (m *Mailer) SendPaymentConfirmation(to, details string) (string, error) {
	body := fmt.Sprintf(
		"Dear customer,\n\nYour payment was received and your booking is confirmed!\n\nDetails:\n%s\n\nThank you for choosing us!",
		details)
	return m.sendMail(to, "Payment Confirmation", body)
}

func (m *Mailer) sendMail(to, subject, body string) (string, error) {
	msg := "From: " + m.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n" +
		"\r\n" + body

	if err := m.send(m.addr, m.auth, m.from, []string{to}, []byte(msg)); err != nil {
		return "", fmt.Errorf("failed to send mail: %w", err)
	}

	return fmt.Sprintf("Email sent to %s", to), nil
}
