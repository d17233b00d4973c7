package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/go-faster/errors"
)

var ErrMailDisabled = errors.New("smtp is not configured")

type EmailData struct {
	Name    string
	Message string
	URL     string
	OTP     string
}

// Mailer sends HTML mail rendered from a template file.
type Mailer struct {
	From     string
	Password string
	Host     string
	Address  string
}

func (m Mailer) SendEmail(emailTo string, emailSubject string, data EmailData, templatePath string) error {
	if m.Address == "" || m.From == "" {
		return ErrMailDisabled
	}

	body, err := RenderTemplate(templatePath, data)
	if err != nil {
		return err
	}

	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		m.From,
		emailTo,
		emailSubject,
		body,
	)

	auth := smtp.PlainAuth("", m.From, m.Password, m.Host)
	if err := smtp.SendMail(m.Address, auth, m.From, []string{emailTo}, []byte(message)); err != nil {
		return errors.Wrap(err, "send email")
	}
	return nil
}

func RenderTemplate(templatePath string, data EmailData) (string, error) {
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return "", errors.Wrap(err, "template parse")
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", errors.Wrap(err, "template execution")
	}
	return body.String(), nil
}
