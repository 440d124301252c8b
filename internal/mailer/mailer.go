// Package mailer sends transactional email over SMTP. Every send is
// best-effort: failures are logged and counted, never returned to the
// caller, so a mail outage cannot fail an order.
package mailer

import (
	"context"
	"fmt"

	"vendio/internal/config"
	"vendio/internal/middleware"
	"vendio/internal/models"
	"vendio/internal/observability"

	"gopkg.in/gomail.v2"
)

// sender abstracts gomail's dialer for tests.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Mailer struct {
	from   string
	sender sender
}

// New builds a Mailer from SMTP config. Returns nil when no SMTP host is
// configured; callers treat a nil Mailer as "email disabled".
func New(cfg *config.Config) *Mailer {
	if cfg.SMTPHost == "" {
		return nil
	}
	return &Mailer{
		from:   cfg.SMTPFrom,
		sender: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
	}
}

// NewWithSender is for tests.
func NewWithSender(from string, s sender) *Mailer {
	return &Mailer{from: from, sender: s}
}

// dispatch sends one templated message and records the outcome. It never
// returns an error.
func (m *Mailer) dispatch(ctx context.Context, template, to, subject, body string) {
	if m == nil || to == "" {
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.sender.DialAndSend(msg); err != nil {
		observability.EmailsSent.WithLabelValues(template, "error").Inc()
		middleware.Logger.ErrorContext(ctx, "email send failed",
			"template", template,
			"to", to,
			"error", err,
		)
		return
	}
	observability.EmailsSent.WithLabelValues(template, "ok").Inc()
}

func (m *Mailer) SendWelcome(ctx context.Context, user *models.User) {
	body := fmt.Sprintf(
		"<h2>Welcome to Vendio, %s!</h2><p>Your store and bio page are ready. Add a product and share your link to start selling.</p>",
		user.Username,
	)
	m.dispatch(ctx, "welcome", user.Email, "Welcome to Vendio", body)
}

func (m *Mailer) SendBuyerConfirmation(ctx context.Context, order *models.Order) {
	body := fmt.Sprintf(
		"<h2>Order confirmed</h2><p>Order <strong>%s</strong> for %.2f %s has been received.</p>",
		order.OrderNumber, order.TotalAmount, order.Currency,
	)
	m.dispatch(ctx, "buyer_confirmation", order.BuyerEmail, fmt.Sprintf("Order %s confirmed", order.OrderNumber), body)
}

func (m *Mailer) SendSellerNotification(ctx context.Context, order *models.Order, sellerEmail string) {
	body := fmt.Sprintf(
		"<h2>New order</h2><p>Order <strong>%s</strong>: %d item(s), %.2f %s.</p>",
		order.OrderNumber, len(order.Items), order.TotalAmount, order.Currency,
	)
	m.dispatch(ctx, "seller_notification", sellerEmail, fmt.Sprintf("New order %s", order.OrderNumber), body)
}

func (m *Mailer) SendPaymentReceived(ctx context.Context, order *models.Order) {
	body := fmt.Sprintf(
		"<h2>Payment received</h2><p>Payment for order <strong>%s</strong> was recorded (tx %s).</p>",
		order.OrderNumber, order.PaymentHash,
	)
	m.dispatch(ctx, "payment_received", order.BuyerEmail, fmt.Sprintf("Payment received for %s", order.OrderNumber), body)
}

func (m *Mailer) SendPurchaseConfirmation(ctx context.Context, purchase *models.Purchase, link *models.PaymentLink) {
	total := purchase.Amount + purchase.TipAmount
	body := fmt.Sprintf(
		"<h2>Thanks for your purchase</h2><p><strong>%s</strong>: %.2f %s (ref %s).</p>",
		link.Title, total, purchase.Currency, purchase.PurchaseNumber,
	)
	m.dispatch(ctx, "purchase_confirmation", purchase.BuyerEmail, fmt.Sprintf("Purchase %s", purchase.PurchaseNumber), body)
}

func (m *Mailer) SendCreatorNotification(ctx context.Context, purchase *models.Purchase, link *models.PaymentLink, creatorEmail string) {
	body := fmt.Sprintf(
		"<h2>New sale</h2><p><strong>%s</strong> sold for %.2f %s",
		link.Title, purchase.Amount, purchase.Currency,
	)
	if purchase.TipAmount > 0 {
		body += fmt.Sprintf(" plus a %.2f tip", purchase.TipAmount)
	}
	body += ".</p>"
	m.dispatch(ctx, "creator_notification", creatorEmail, fmt.Sprintf("New sale: %s", link.Title), body)
}
