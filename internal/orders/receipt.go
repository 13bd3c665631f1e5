package orders

import (
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"

	"unishop/internal/currency"
)

// WriteReceipt renders the simulated purchase receipt for an order as a
// PDF. Amounts are formatted in the base currency.
func WriteReceipt(w io.Writer, order *Order) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "UniShop - Comprobante simulado")

	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Pedido: %s", order.ID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Token: %s", order.Token))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Fecha: %s", order.Date.Format("2006-01-02 15:04")))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Cliente: %s (%s)", order.Shipping.Nombre, order.UserEmail))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Envio: %s, %s - Tel. %s",
		order.Shipping.Direccion, order.Shipping.Ciudad, order.Shipping.Telefono))

	pdf.Ln(12)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 10, "Items")
	pdf.SetFont("Arial", "", 12)
	for i, item := range order.Items {
		pdf.Ln(8)
		pdf.Cell(0, 10, fmt.Sprintf("%d. %s x %d - %s",
			i+1, item.Nombre, item.Cantidad,
			currency.Format(item.Precio*float64(item.Cantidad), currency.Base)))
	}

	pdf.Ln(12)
	pdf.Cell(0, 10, fmt.Sprintf("Subtotal: %s", currency.Format(order.Subtotal, currency.Base)))
	if order.Discount > 0 {
		pdf.Ln(8)
		label := "Descuento"
		if order.Coupon != "" {
			label = fmt.Sprintf("Descuento (%s)", order.Coupon)
		}
		pdf.Cell(0, 10, fmt.Sprintf("%s: -%s", label, currency.Format(order.Discount, currency.Base)))
	}
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Envio: %s", currency.Format(order.ShippingCost, currency.Base)))
	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Total: %s", currency.Format(order.Total, currency.Base)))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Estado: %s | Pago: %s (%s)",
		order.Status, order.Payment.Label, order.Payment.Reference))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render receipt %s: %w", order.ID, err)
	}
	return nil
}
