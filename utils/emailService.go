package utils

import (
	"condingo/config"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail delivers a plain-text email through SendGrid when an API key is
// configured, otherwise over SMTP.
func SendEmail(to []string, subject string, body string) error {
	if config.AppConfig.SendGridApiKey != "" {
		return sendViaSendGrid(to, subject, body)
	}
	return sendViaSMTP(to, subject, body)
}

func sendViaSendGrid(to []string, subject string, body string) error {
	from := mail.NewEmail("Condingo", config.AppConfig.EmailSender)
	client := sendgrid.NewSendClient(config.AppConfig.SendGridApiKey)

	for _, recipient := range to {
		message := mail.NewSingleEmail(from, subject, mail.NewEmail("", recipient), body, body)
		resp, err := client.Send(message)
		if err != nil {
			log.Printf("Error sending email to %s: %v", recipient, err)
			return err
		}
		if resp.StatusCode >= 400 {
			log.Printf("SendGrid rejected email to %s: %d %s", recipient, resp.StatusCode, resp.Body)
			return fmt.Errorf("sendgrid rejected email: %d", resp.StatusCode)
		}
	}
	return nil
}

func sendViaSMTP(to []string, subject string, body string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	msg := fmt.Sprintf("From: Condingo <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += body

	auth := smtp.PlainAuth("", from, password, smtpHost)

	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg)); err != nil {
		log.Printf("Error sending email: %v", err)
		return err
	}
	return nil
}

// --- Triggers ---

// SendWelcomeEmail greets a freshly registered user. Fire and forget.
func SendWelcomeEmail(email, name string) {
	subject := "Welcome to Condingo"
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Welcome to Condingo! Your account has been created.\n\n"+
			"Pick a subject, work through its courses and climb the leaderboard.\n\n"+
			"- Condingo Team",
		name,
	)

	go SendEmail([]string{email}, subject, body)
}

// SendLicenseEmail delivers a license code. Synchronous so the handler can
// report delivery failures.
func SendLicenseEmail(email, name, code string) error {
	subject := "Your Condingo License Key"
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Here is your Condingo license code:\n\n"+
			"%s\n\n"+
			"This code expires in 1 hour. Paste it into the app to unlock exports.\n\n"+
			"- Condingo Team",
		name, code,
	)

	return SendEmail([]string{email}, subject, body)
}

// SendPasswordResetEmail delivers a reset token. Fire and forget.
func SendPasswordResetEmail(email, name, token string) {
	subject := "Condingo Password Reset"
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Use this token to reset your password:\n\n"+
			"%s\n\n"+
			"It expires in 1 hour. If you did not request a reset, ignore this email.\n\n"+
			"- Condingo Team",
		name, token,
	)

	go SendEmail([]string{email}, subject, body)
}
