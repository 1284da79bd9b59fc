package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"staybook-backend/internal/logger"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(to, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)

	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.Debug("email sent", "to", to, "subject", subject)
	return nil
}

func (s *emailService) SendBookingRequested(ctx context.Context, hostEmail, guestName, propertyName, confirmationCode string) error {
	subject := fmt.Sprintf("New Booking Request: %s", propertyName)
	plainText := fmt.Sprintf("%s requested to book %s (booking %s)", guestName, propertyName, confirmationCode)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>New Booking Request</h2>
				<p><strong>%s</strong> has requested to book <strong>%s</strong>.</p>
				<p>Confirmation code: <strong>%s</strong></p>
			</body>
		</html>
	`, guestName, propertyName, confirmationCode)
	return s.send(hostEmail, subject, plainText, htmlContent)
}

func (s *emailService) SendBookingConfirmed(ctx context.Context, guestEmail, propertyName, confirmationCode string) error {
	subject := fmt.Sprintf("Booking Confirmed: %s", propertyName)
	plainText := fmt.Sprintf("Your booking at %s is confirmed. Confirmation code: %s", propertyName, confirmationCode)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Booking Confirmed</h2>
				<p>Your stay at <strong>%s</strong> is confirmed.</p>
				<p>Confirmation code: <strong>%s</strong></p>
			</body>
		</html>
	`, propertyName, confirmationCode)
	return s.send(guestEmail, subject, plainText, htmlContent)
}

func (s *emailService) SendBookingCancelled(ctx context.Context, email, propertyName, confirmationCode, reason string, refundCents int64) error {
	subject := fmt.Sprintf("Booking Cancelled: %s", propertyName)
	refundLine := "No refund is due under the cancellation policy."
	if refundCents > 0 {
		refundLine = fmt.Sprintf("A refund of $%.2f is on its way.", float64(refundCents)/100)
	}
	plainText := fmt.Sprintf("Booking %s at %s was cancelled (%s). %s", confirmationCode, propertyName, reason, refundLine)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Booking Cancelled</h2>
				<p>Booking <strong>%s</strong> at <strong>%s</strong> was cancelled: %s</p>
				<p>%s</p>
			</body>
		</html>
	`, confirmationCode, propertyName, reason, refundLine)
	return s.send(email, subject, plainText, htmlContent)
}

func (s *emailService) SendCheckInWelcome(ctx context.Context, guestEmail, propertyName string) error {
	subject := fmt.Sprintf("Welcome to %s", propertyName)
	plainText := fmt.Sprintf("You are checked in at %s. Enjoy your stay!", propertyName)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Welcome!</h2>
				<p>You are checked in at <strong>%s</strong>. Enjoy your stay!</p>
			</body>
		</html>
	`, propertyName)
	return s.send(guestEmail, subject, plainText, htmlContent)
}
