// Package notifier renders and dispatches the transactional order
// receipt. It is injected into settlement as a capability so tests can
// substitute a double, and production wiring routes it through the
// receipt actor so a slow mail provider never stalls a settlement.
package notifier

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/example/shopmate/pkg/config"
	"github.com/example/shopmate/pkg/models"
)

type UserSource interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// ReceiptMailer builds the receipt for a settled order and hands it to
// the transactional-email service.
type ReceiptMailer struct {
	mail        MailSender
	users       UserSource
	senderName  string
	senderEmail string
}

func NewReceiptMailer(mail MailSender, users UserSource, cfg *config.MailConfig) *ReceiptMailer {
	return &ReceiptMailer{
		mail:        mail,
		users:       users,
		senderName:  cfg.SenderName,
		senderEmail: cfg.SenderEmail,
	}
}

func (m *ReceiptMailer) Send(ctx context.Context, order *models.Order, settings *models.Settings) error {
	user, err := m.users.GetByID(ctx, order.User)
	if err != nil {
		return fmt.Errorf("load receipt recipient: %w", err)
	}

	html, err := RenderReceipt(order, settings, user)
	if err != nil {
		return fmt.Errorf("render receipt: %w", err)
	}

	return m.mail.SendMail(ctx, &Mail{
		SenderName:  m.senderName,
		SenderEmail: m.senderEmail,
		ToName:      user.Name,
		ToEmail:     user.Email,
		Subject:     fmt.Sprintf("New Order %s", order.ID),
		HTML:        html,
	})
}

type receiptItem struct {
	Name     string
	Keygen   string
	Size     string
	Color    string
	Quantity int
	Price    string
}

type receiptData struct {
	UserName      string
	OrderID       string
	CreatedAt     string
	ShopName      string
	Items         []receiptItem
	ItemsPrice    string
	TaxPrice      string
	ShippingPrice string
	GrandTotal    string
	PaymentMethod string
	Address       models.ShippingAddress
}

var receiptTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html><html><body>
<h1>Thanks for shopping with us</h1>
<p>Hi {{.UserName}},</p>
<p>We have finished processing your order.</p>
<h2>[Order {{.OrderID}}] ({{.CreatedAt}})</h2>
<table>
<thead>
<tr>
<td><strong>Product</strong></td>
<td><strong>Keygen</strong></td>
<td><strong>Size</strong></td>
<td><strong>Color</strong></td>
<td><strong>Quantity</strong></td>
<td align="right"><strong>Price</strong></td>
</tr>
</thead>
<tbody>
{{range .Items}}<tr>
<td>{{.Name}}</td>
<td align="left">{{.Keygen}}</td>
<td align="left">{{.Size}}</td>
<td align="center"><img src="{{.Color}}" alt=""/></td>
<td align="center">{{.Quantity}}</td>
<td align="right">{{.Price}}</td>
</tr>
{{end}}</tbody>
<tfoot>
<tr><td colspan="2">Items Price:</td><td align="right">{{.ItemsPrice}}</td></tr>
<tr><td colspan="2">Tax Price:</td><td align="right">{{.TaxPrice}}</td></tr>
<tr><td colspan="2">Shipping Price:</td><td align="right">{{.ShippingPrice}}</td></tr>
<tr><td colspan="2"><strong>Total Price:</strong></td><td align="right"><strong>{{.GrandTotal}}</strong></td></tr>
<tr><td colspan="2">Payment Method:</td><td align="right">{{.PaymentMethod}}</td></tr>
</tfoot>
</table>
<h2>Shipping address</h2>
<p>
{{.Address.FirstName}} {{.Address.LastName}},<br/>
{{.Address.Address}},<br/>
{{.Address.City}}, {{.Address.ZipCode}}<br/>
{{.Address.State}}, {{.Address.Country}},<br/>
{{.Address.Shipping}}
</p>
<hr/>
<p>Thanks for shopping with {{.ShopName}}.</p>
</body></html>`))

// RenderReceipt produces the receipt HTML with every amount formatted
// using the shop's currency sign.
func RenderReceipt(order *models.Order, settings *models.Settings, user *models.User) (string, error) {
	items := make([]receiptItem, len(order.OrderItems))
	for i, item := range order.OrderItems {
		items[i] = receiptItem{
			Name:     item.Name,
			Keygen:   item.Keygen,
			Size:     item.Size,
			Color:    item.Color,
			Quantity: item.Quantity,
			Price:    money(settings.CurrencySign, item.Price),
		}
	}

	data := receiptData{
		UserName:      user.Name,
		OrderID:       order.ID,
		CreatedAt:     order.CreatedAt.UTC().Format(time.DateOnly),
		ShopName:      settings.ShopName,
		Items:         items,
		ItemsPrice:    money(settings.CurrencySign, order.ItemsPrice),
		TaxPrice:      money(settings.CurrencySign, order.TaxPrice),
		ShippingPrice: money(settings.CurrencySign, order.ShippingPrice),
		GrandTotal:    money(settings.CurrencySign, order.GrandTotal),
		PaymentMethod: order.PaymentMethod,
		Address:       order.ShippingAddress,
	}

	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func money(sign string, amount float64) string {
	return fmt.Sprintf("%s%.2f", sign, amount)
}
