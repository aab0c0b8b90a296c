package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"log"

	"github.com/wneessen/go-mail"

	"storefront_back_end/internal/config"
	"storefront_back_end/internal/models"
)

// Mailer envoie les e-mails transactionnels via SMTP.
// Un Mailer sans hôte SMTP est désactivé et ne fait que journaliser.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewMailer(cfg *config.Config) *Mailer {
	if cfg.SMTPHost == "" {
		log.Println("⚠️ SMTP_HOST non configuré, e-mails désactivés")
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPass,
		from:     cfg.SMTPFrom,
	}
}

func (m *Mailer) Enabled() bool {
	return m != nil && m.host != ""
}

// Send envoie un e-mail HTML.
func (m *Mailer) Send(to, subject, htmlBody string) error {
	if !m.Enabled() {
		log.Printf("📭 E-mail non envoyé (SMTP désactivé): %s → %s", subject, to)
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSend(msg)
}

var orderConfirmationTemplate = template.Must(template.New("order").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2>Order #{{.Order.ID}} confirmed</h2>
		<p>Status: {{.Order.Status}}</p>
		<table style="width: 100%; border-collapse: collapse;">
			<thead>
				<tr><th align="left">Item</th><th align="left">Qty</th><th align="left">Price</th><th align="left">Total</th></tr>
			</thead>
			<tbody>
			{{range .Lines}}
				<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{.Price}}</td><td>{{.Total}}</td></tr>
			{{end}}
			</tbody>
		</table>
		<p><strong>Total: {{.Order.Total.StringFixed 2}}</strong></p>
		<p>Shipping to {{.Order.Address}} ({{.Order.Phone}})</p>
	</div>
</body>
</html>`))

type orderLine struct {
	Name     string
	Quantity int
	Price    string
	Total    string
}

// OrderConfirmationHTML génère le corps de l'e-mail de confirmation.
func OrderConfirmationHTML(order models.Order, details []models.OrderDetail) (string, error) {
	lines := make([]orderLine, 0, len(details))
	for _, d := range details {
		name := fmt.Sprintf("Variant #%d", d.ProductVariantID)
		if d.ProductVariant != nil && d.ProductVariant.Name != "" {
			name = d.ProductVariant.Name
		}
		lines = append(lines, orderLine{
			Name:     name,
			Quantity: d.Quantity,
			Price:    d.Price.StringFixed(2),
			Total:    d.LineTotal().StringFixed(2),
		})
	}

	var buf bytes.Buffer
	if err := orderConfirmationTemplate.Execute(&buf, map[string]any{"Order": order, "Lines": lines}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendOrderConfirmation est appelé en arrière-plan après un checkout.
func (m *Mailer) SendOrderConfirmation(to string, order models.Order, details []models.OrderDetail) {
	go func() {
		body, err := OrderConfirmationHTML(order, details)
		if err != nil {
			log.Printf("❌ Erreur génération e-mail commande %d: %v", order.ID, err)
			return
		}
		if err := m.Send(to, fmt.Sprintf("Order #%d confirmed", order.ID), body); err != nil {
			log.Printf("❌ Erreur envoi e-mail commande %d: %v", order.ID, err)
			return
		}
		log.Printf("📧 Confirmation envoyée: %s (commande %d)", to, order.ID)
	}()
}

// SendOrderStatus prévient le client d'un changement de statut.
func (m *Mailer) SendOrderStatus(to string, order models.Order) {
	go func() {
		body := fmt.Sprintf("<p>Your order #%d is now <strong>%s</strong>.</p>", order.ID, template.HTMLEscapeString(order.Status.String()))
		if err := m.Send(to, fmt.Sprintf("Order #%d: %s", order.ID, order.Status), body); err != nil {
			log.Printf("❌ Erreur envoi e-mail statut commande %d: %v", order.ID, err)
		}
	}()
}
