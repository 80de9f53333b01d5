// Package notify emails the operator when a device is seen for the first time.
package notify

import (
	"fmt"
	"strings"
	"time"

	"ScreenWatch/api/config"
	"ScreenWatch/api/logx"
	"ScreenWatch/api/models"

	"github.com/matcornic/hermes/v2"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

var logger = logx.GetScope("notify")

type sender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// Mailer sends new-device notices through SendGrid.
type Mailer struct {
	client sender
	from   *mail.Email
	to     *mail.Email
	h      hermes.Hermes
}

// NewMailer returns nil when SendGrid or the recipient is not configured.
// A nil *Mailer is safe to call.
func NewMailer(cfg *config.Config) *Mailer {
	n := cfg.Notify
	if n.SendGridKey == "" || n.To == "" {
		return nil
	}
	return newMailer(sendgrid.NewSendClient(n.SendGridKey), n.From, n.To, n.ProductLink)
}

func newMailer(client sender, from, to, link string) *Mailer {
	return &Mailer{
		client: client,
		from:   mail.NewEmail("ScreenWatch", from),
		to:     mail.NewEmail("Operator", to),
		h: hermes.Hermes{
			Product: hermes.Product{
				Name:      "ScreenWatch",
				Link:      link,
				Copyright: fmt.Sprintf("Copyright © %d ScreenWatch.", time.Now().Year()),
			},
		},
	}
}

// NewDeviceEmail renders the notice for d.
func (m *Mailer) NewDeviceEmail(d *models.Device) (subject, html, text string, err error) {
	email := hermes.Email{
		Body: hermes.Body{
			Name: "Operator",
			Intros: []string{
				fmt.Sprintf("A new device (%s) uploaded its first screenshot.", d.DeviceID),
			},
			Table: hermes.Table{
				Data: [][]hermes.Entry{
					{{Key: "Field", Value: "Device ID"}, {Key: "Value", Value: d.DeviceID}},
					{{Key: "Field", Value: "IP"}, {Key: "Value", Value: orDash(d.IP.String())}},
					{{Key: "Field", Value: "Browsers"}, {Key: "Value", Value: orDash(strings.Join(d.Browsers, ", "))}},
					{{Key: "Field", Value: "OS"}, {Key: "Value", Value: orDash(firstNonEmpty(d.OS, d.Platform))}},
					{{Key: "Field", Value: "Screen"}, {Key: "Value", Value: orDash(d.ScreenResolution)}},
					{{Key: "Field", Value: "Timezone"}, {Key: "Value", Value: orDash(d.Timezone)}},
				},
			},
			Outros: []string{
				"You can label this device from the admin dashboard.",
			},
		},
	}

	html, err = m.h.GenerateHTML(email)
	if err != nil {
		return "", "", "", err
	}
	text, err = m.h.GeneratePlainText(email)
	if err != nil {
		return "", "", "", err
	}
	return "New device registered: " + d.DeviceID, html, text, nil
}

// Send delivers the notice for d synchronously.
func (m *Mailer) Send(d *models.Device) error {
	subject, html, text, err := m.NewDeviceEmail(d)
	if err != nil {
		return fmt.Errorf("render new device email: %w", err)
	}
	message := mail.NewSingleEmail(m.from, subject, m.to, text, html)
	resp, err := m.client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp != nil && resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// NotifyNewDevice sends the notice in the background. Failures are logged.
func (m *Mailer) NotifyNewDevice(d *models.Device) {
	if m == nil || d == nil {
		return
	}
	snapshot := *d
	go func() {
		if err := m.Send(&snapshot); err != nil {
			logger.Warn("new device notification failed",
				zap.String("device_id", snapshot.DeviceID),
				zap.Error(err),
			)
		}
	}()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
