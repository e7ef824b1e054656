// Package mail sends notification emails over SMTP.
package mail

import (
	"bytes"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/AyishaBeevi/ab-backend/internal/config"
)

type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Sender delivers messages. A Sender built from a disabled configuration
// accepts every message and sends nothing.
type Sender struct {
	cfg  config.MailOptions
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func New(cfg config.MailOptions) *Sender {
	return &Sender{cfg: cfg, send: smtp.SendMail}
}

func (s *Sender) Send(msg Message) error {
	if !s.cfg.Enabled() || len(msg.To) == 0 {
		return nil
	}

	port := s.cfg.Port
	if port == 0 {
		port = 587
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, port)

	from := s.cfg.From
	if from == "" {
		from = s.cfg.User
	}

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	}
	return s.send(addr, auth, from, msg.To, compose(from, msg))
}

func compose(from string, msg Message) []byte {
	var body bytes.Buffer
	body.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&body, "From: %s\r\n", from)
	fmt.Fprintf(&body, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&body, "Subject: %s\r\n", stripHeader(msg.Subject))
	body.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)
	return body.Bytes()
}

// stripHeader keeps user-supplied text from injecting extra header lines.
func stripHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
