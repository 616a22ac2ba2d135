package saleControllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tahirfruitchaat/pos-api/models"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// GET /sales/export-excel?date=YYYY-MM-DD
// Daily sales workbook grouped by order taker, one block per taker with a
// revenue subtotal and an overall total at the bottom.
func ExportSalesToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dateStr := c.Query("date")
		day, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date is required as YYYY-MM-DD"})
			return
		}

		var sales []models.Sale
		if err := db.Preload("Items").
			Where("created_at >= ? AND created_at < ?", day, day.Add(24*time.Hour)).
			Order("order_taker, created_at").
			Find(&sales).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales"})
			return
		}
		if len(sales) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "No sales recorded for this date"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Sales " + dateStr)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		byTaker := make(map[string][]models.Sale)
		var takerOrder []string
		for _, sale := range sales {
			if _, seen := byTaker[sale.OrderTaker]; !seen {
				takerOrder = append(takerOrder, sale.OrderTaker)
			}
			byTaker[sale.OrderTaker] = append(byTaker[sale.OrderTaker], sale)
		}

		headers := []string{"Invoice", "Date", "Type", "Items", "Payment", "Total (PKR)"}
		var overallRevenue float64

		for _, taker := range takerOrder {
			takerSales := byTaker[taker]

			titleRow := sheet.AddRow()
			titleRow.AddCell().SetValue("Order Taker: " + taker)

			headerRow := sheet.AddRow()
			for _, h := range headers {
				headerRow.AddCell().SetValue(h)
			}

			var takerRevenue float64
			for _, sale := range takerSales {
				var itemParts []string
				for _, item := range sale.Items {
					itemParts = append(itemParts, item.Name+" ("+item.PlateType+" × "+strconv.Itoa(item.Quantity)+")")
				}

				row := sheet.AddRow()
				row.AddCell().SetValue(sale.InvoiceID)
				row.AddCell().SetValue(sale.CreatedAt.Format("2006-01-02 15:04:05"))
				row.AddCell().SetValue(string(sale.OrderType))
				row.AddCell().SetValue(strings.Join(itemParts, ", "))
				row.AddCell().SetValue(string(sale.PaymentMethod))
				row.AddCell().SetValue(sale.Total)

				takerRevenue += sale.Total
			}
			overallRevenue += takerRevenue

			subtotalRow := sheet.AddRow()
			subtotalRow.AddCell().SetValue("Total revenue for " + taker)
			for i := 0; i < len(headers)-2; i++ {
				subtotalRow.AddCell()
			}
			subtotalRow.AddCell().SetValue(takerRevenue)

			sheet.AddRow()
		}

		totalRow := sheet.AddRow()
		totalRow.AddCell().SetValue("Overall total revenue")
		for i := 0; i < len(headers)-2; i++ {
			totalRow.AddCell()
		}
		totalRow.AddCell().SetValue(overallRevenue)

		c.Header("Content-Disposition", "attachment; filename=sales_report_"+dateStr+".xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
