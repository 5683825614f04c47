package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"strconv"

	"laundry_manager/config"

	"gopkg.in/gomail.v2"
)

var codeEmailTmpl = template.Must(template.New("code").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>{{.Title}}</h2>
  <p>{{.Message}}</p>
  <div style="background: #f4f4f4; padding: 20px; text-align: center; margin: 20px 0; font-size: 24px; font-weight: bold; letter-spacing: 2px;">
    {{.Code}}
  </div>
  <p>This verification code will expire in {{.ExpiryMinutes}} minutes.</p>
  <p>If you didn't request this, please ignore this email.</p>
</div>`))

type codeEmailData struct {
	Title         string
	Message       string
	Code          string
	ExpiryMinutes int
}

// dialAndSend is swappable so tests can run the OTP flow without an SMTP
// server.
var dialAndSend = func(m *gomail.Message) error {
	port, _ := strconv.Atoi(config.ConfigOr("SMTP_PORT", "587"))
	d := gomail.NewDialer(config.Config("SMTP_HOST"), port, config.Config("SMTP_USERNAME"), config.Config("SMTP_PASSWORD"))
	return d.DialAndSend(m)
}

// SendCodeEmail delivers a one-time code. Errors are returned, not swallowed:
// a failed dispatch must surface to the caller as a delivery failure.
// Package-level var so tests can stub delivery.
var SendCodeEmail = func(to, code, purpose string) error {
	title := "Email Verification"
	message := "Your verification code is:"
	if purpose == "login" {
		title = "Login Verification"
		message = "Your login verification code is:"
	}

	var body bytes.Buffer
	if err := codeEmailTmpl.Execute(&body, codeEmailData{
		Title:         title,
		Message:       message,
		Code:          code,
		ExpiryMinutes: config.OTPTTLMinutes(),
	}); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", config.Config("SMTP_FROM"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", title)
	m.SetBody("text/html", body.String())

	return dialAndSend(m)
}

// SendPaymentReceiptEmail sends a receipt after a successful payment (async,
// best effort — a failed receipt must not fail the payment).
func SendPaymentReceiptEmail(to, orderNumber string, amount float64, method string) {
	go func() {
		m := gomail.NewMessage()
		m.SetHeader("From", config.Config("SMTP_FROM"))
		m.SetHeader("To", to)
		m.SetHeader("Subject", "Payment received for order "+orderNumber)
		m.SetBody("text/html", fmt.Sprintf(
			`<p>We received your payment of <b>%.2f</b> via %s for order <b>%s</b>. Thank you!</p>`,
			amount, method, orderNumber))

		if err := dialAndSend(m); err != nil {
			log.Printf("failed to send receipt for order %s: %v", orderNumber, err)
		}
	}()
}
