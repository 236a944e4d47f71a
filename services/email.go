package services

import (
	"encoding/base64"
	"fmt"
	"log"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"

	"brainhr-server/models"
)

// EmailService mails HR when a new application arrives. When SMTP is not
// configured it logs and skips; an application never fails because mail
// did.
type EmailService struct{}

func NewEmailService() *EmailService {
	return &EmailService{}
}

// SendApplicationEmail notifies HR of a new application, attaching the
// résumé when it is readable. Intended to run in a goroutine.
func (es *EmailService) SendApplicationEmail(app models.Application, resumePath string) {
	host := os.Getenv("SMTP_SERVER")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	password := os.Getenv("SMTP_PASSWORD")
	recipient := os.Getenv("HR_EMAIL")
	if recipient == "" {
		recipient = "hr@brainhritsolutions.com"
	}
	if port == "" {
		port = "587"
	}

	if host == "" || user == "" || password == "" {
		log.Println("SMTP settings not configured. Skipping email notification.")
		return
	}

	subject := fmt.Sprintf("New Application: %s for %s", app.Name, app.JobTitle)
	body := fmt.Sprintf(
		"A new job application has been received.\n\n"+
			"Name: %s\nEmail: %s\nContact No: %s\nLinkedin: %s\nLocation: %s\n"+
			"Visa Status: %s\nRelocation: %s\nExperience Years: %.1f\nJob Title: %s\n",
		app.Name, app.Email, app.ContactNo, app.LinkedIn, app.Location,
		app.VisaStatus, app.Relocation, app.ExperienceYears, app.JobTitle)

	msg := buildMIMEMessage(user, recipient, subject, body, resumePath)

	auth := smtp.PlainAuth("", user, password, host)
	if err := smtp.SendMail(host+":"+port, auth, user, []string{recipient}, msg); err != nil {
		log.Printf("Failed to send application email: %v", err)
		return
	}
	log.Printf("Application email sent to %s", recipient)
}

func buildMIMEMessage(from, to, subject, body, attachmentPath string) []byte {
	const boundary = "brainhr-mail-boundary"

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\n", from, to, subject)

	data, err := os.ReadFile(attachmentPath)
	if attachmentPath == "" || err != nil {
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		b.WriteString(body)
		return []byte(b.String())
	}

	fmt.Fprintf(&b, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", boundary)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", boundary, body)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: application/octet-stream\r\n", boundary)
	fmt.Fprintf(&b, "Content-Disposition: attachment; filename=%q\r\n", filepath.Base(attachmentPath))
	b.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")

	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 76 {
		b.WriteString(encoded[:76])
		b.WriteString("\r\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded)
	fmt.Fprintf(&b, "\r\n--%s--\r\n", boundary)
	return []byte(b.String())
}
