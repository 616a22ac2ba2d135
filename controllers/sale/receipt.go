package saleControllers

import (
	"errors"
	"html/template"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/tahirfruitchaat/pos-api/models"
	"gorm.io/gorm"
)

// 58mm thermal receipt. The terminal opens this document in a print window.
var receiptTmpl = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"amount": func(price float64, qty int) float64 { return price * float64(qty) },
}).Parse(`<html>
  <head>
    <title>{{.Sale.InvoiceID}}</title>
    <style>
      body { font-family: 'Courier New', monospace; width: 58mm; margin: 0 auto; padding: 10px; text-align: center; }
      table { width: 100%; border-collapse: collapse; font-size: 12px; margin-top: 10px; }
      td { padding: 2px 0; }
      .separator { border-top: 1px dashed #000; margin: 8px 0; }
      .total { font-weight: bold; }
    </style>
  </head>
  <body>
    <h2>{{.BusinessName}}</h2>
    <p>{{.Sale.CreatedAt.Format "02/01/2006 15:04:05"}}</p>
    <div class="separator"></div>
    <h3>INVOICE</h3>
    <p><b>{{.Sale.InvoiceID}}</b></p>
    <div class="separator"></div>
    <table>
      <thead>
        <tr><td>Item</td><td>Qty</td><td>Amount</td></tr>
      </thead>
      <tbody>
        {{range .Sale.Items}}
        <tr>
          <td style="text-align:left;">{{.Name}}{{if .PlateType}} ({{.PlateType}}){{end}}</td>
          <td style="text-align:center;">{{.Quantity}}</td>
          <td style="text-align:right;">{{printf "%.2f" (amount .UnitPrice .Quantity)}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
    <div class="separator"></div>
    <p class="total">Total: {{printf "%.2f" .Sale.Total}} PKR</p>
    <p>Order Type: {{.Sale.OrderType}}</p>
    <p>Order Taker: {{.Sale.OrderTaker}}</p>
    <p>Payment: {{.Sale.PaymentMethod}}</p>
  </body>
</html>
`))

// GET /sales/:saleID/receipt
func GetReceipt(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		saleID, ok := parseSaleID(c)
		if !ok {
			return
		}
		var sale models.Sale
		if err := db.Preload("Items").First(&sale, "id = ?", saleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sale"})
			return
		}

		businessName := os.Getenv("BUSINESS_NAME")
		if businessName == "" {
			businessName = "Tahir Fruit Chaat"
		}

		c.Header("Content-Type", "text/html; charset=utf-8")
		c.Status(http.StatusOK)
		if err := receiptTmpl.Execute(c.Writer, gin.H{
			"Sale":         sale,
			"BusinessName": businessName,
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render receipt"})
		}
	}
}
