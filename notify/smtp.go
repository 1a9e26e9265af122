package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/wneessen/go-mail"
)

// SMTPNotifier sends mail over an authenticated SMTP submission port.
type SMTPNotifier struct {
	host     string
	port     int
	account  string
	password string
	sender   string
	timeout  time.Duration
}

func NewSMTPNotifier(host string, port int, account, password, sender string, timeout time.Duration) *SMTPNotifier {
	if sender == "" {
		sender = account
	}
	return &SMTPNotifier{
		host:     host,
		port:     port,
		account:  account,
		password: password,
		sender:   sender,
		timeout:  timeout,
	}
}

var _ Notifier = (*SMTPNotifier)(nil)

func (n *SMTPNotifier) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.From(n.sender); err != nil {
		return errors.Wrap(err, "[SMTPNotifier.Send] invalid sender address")
	}
	if err := m.To(msg.Recipient); err != nil {
		return errors.Wrap(err, "[SMTPNotifier.Send] invalid recipient address")
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.TextBody)
	if msg.HTMLBody != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)
	}

	client, err := mail.NewClient(n.host,
		mail.WithPort(n.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.account),
		mail.WithPassword(n.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(n.timeout),
	)
	if err != nil {
		return errors.Wrap(err, "[SMTPNotifier.Send] mail.NewClient")
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return errors.Wrap(err, "[SMTPNotifier.Send] DialAndSend")
	}
	return nil
}

// OTPMessage composes the one-time passcode mail sent during login.
func OTPMessage(recipient, code string) Message {
	return Message{
		Recipient: recipient,
		Subject:   "Your OTP for Verification",
		TextBody:  fmt.Sprintf("Your OTP is: %s\nThis code will expire in 10 minutes.", code),
		HTMLBody: fmt.Sprintf(`<h3>Your OTP Verification Code</h3>
<p>Your OTP is: <strong>%s</strong></p>
<p>This code will expire in 10 minutes.</p>`, code),
	}
}
