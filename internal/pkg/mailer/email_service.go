package mailer

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

type IAlertMailer interface {
	SendSubmissionFailure(sessionID, observationType string, errs []string) error
}

type alertMailer struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	recipient   string
}

// NewAlertMailer builds the failure-alert mailer. An empty recipient makes
// every send a no-op, so operators can leave alerting unconfigured.
func NewAlertMailer(host string, port int, username, password, senderName, recipient string) IAlertMailer {
	d := gomail.NewDialer(host, port, username, password)
	return &alertMailer{
		dialer:      d,
		senderEmail: username,
		senderName:  senderName,
		recipient:   recipient,
	}
}

func (s *alertMailer) SendSubmissionFailure(sessionID, observationType string, errs []string) error {
	if s.recipient == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", s.recipient)
	m.SetHeader("Subject", fmt.Sprintf("InfoEx submission failed: %s", observationType))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>InfoEx Submission Failure</h2>
			<p><b>Session:</b> %s</p>
			<p><b>Observation type:</b> %s</p>
			<p><b>Errors:</b></p>
			<pre>%s</pre>
			<p>The payload remains in the session and can be corrected and resubmitted.</p>
		</div>
	`, sessionID, observationType, strings.Join(errs, "\n"))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send failure alert to %s: %v\n", s.recipient, err)
		return err
	}

	fmt.Printf("[MAILER] Submission failure alert sent to %s\n", s.recipient)
	return nil
}
