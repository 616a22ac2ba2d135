package saleControllers

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tahirfruitchaat/pos-api/models"
	"gorm.io/gorm"
)

// Fixed page size of the sales history table.
const salesPageSize = 5

type UpdateSaleRequest struct {
	Items         []models.SaleItem `json:"items"`
	PaymentMethod string            `json:"payment_method"`
	OrderType     string            `json:"order_type"`
	OrderTaker    string            `json:"order_taker"`
}

type ResetSalesRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// -------- Core Logic --------

// creditTaker refunds an amount to the live taker matching a sale's name
// snapshot. Sales keep names, not foreign keys, so the taker may have been
// deleted or renamed since; the credit is silently dropped in that case.
func creditTaker(tx *gorm.DB, takerName string, amount float64) error {
	if amount == 0 {
		return nil
	}
	var taker models.OrderTaker
	err := forUpdate(tx).
		Where("name = ?", takerName).First(&taker).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	taker.Balance += amount
	return tx.Save(&taker).Error
}

// UpdateSale merges partial fields into a stored sale. When items are
// supplied the total is recomputed from them — a caller-supplied total is
// never trusted — and the ledger absorbs the delta: old total credited
// back, new total debited. Zero-bill sales stay at total 0.
func UpdateSale(db *gorm.DB, saleID uint, req UpdateSaleRequest) (*models.Sale, error) {
	var updated models.Sale

	err := db.Transaction(func(tx *gorm.DB) error {
		var sale models.Sale
		if err := tx.Preload("Items").First(&sale, "id = ?", saleID).Error; err != nil {
			return err
		}

		if req.Items != nil {
			newTotal := models.ItemsTotal(req.Items)
			if sale.ZeroBill {
				newTotal = 0
			}

			if sale.Debited {
				delta := newTotal - sale.Total
				if delta != 0 {
					var taker models.OrderTaker
					err := forUpdate(tx).
						Where("name = ?", sale.OrderTaker).First(&taker).Error
					if err == nil {
						if taker.Balance < delta {
							return ErrInsufficientBalance
						}
						taker.Balance -= delta
						if err := tx.Save(&taker).Error; err != nil {
							return err
						}
					} else if !errors.Is(err, gorm.ErrRecordNotFound) {
						return err
					}
				}
			}

			if err := tx.Where("sale_id = ?", sale.ID).Delete(&models.SaleItem{}).Error; err != nil {
				return err
			}
			for i := range req.Items {
				req.Items[i].ID = 0
				req.Items[i].SaleID = sale.ID
			}
			if len(req.Items) > 0 {
				if err := tx.Create(&req.Items).Error; err != nil {
					return err
				}
			}
			sale.Total = newTotal
		}

		if req.PaymentMethod != "" {
			method, err := mapPaymentMethod(req.PaymentMethod)
			if err != nil {
				return err
			}
			sale.PaymentMethod = method
		}
		if req.OrderType != "" {
			orderType, err := mapOrderType(req.OrderType)
			if err != nil {
				return err
			}
			sale.OrderType = orderType
		}
		if req.OrderTaker != "" {
			sale.OrderTaker = req.OrderTaker
		}

		sale.Synced = false
		if err := tx.Omit("Items").Save(&sale).Error; err != nil {
			return err
		}

		return tx.Preload("Items").First(&updated, "id = ?", sale.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteSale removes a sale and refunds its total to the taker it debited.
func DeleteSale(db *gorm.DB, saleID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var sale models.Sale
		if err := tx.First(&sale, "id = ?", saleID).Error; err != nil {
			return err
		}

		if sale.Debited {
			if err := creditTaker(tx, sale.OrderTaker, sale.Total); err != nil {
				return err
			}
		}

		if err := tx.Where("sale_id = ?", sale.ID).Delete(&models.SaleItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&sale).Error
	})
}

// ResetAllSales wipes the history and reverses every recorded debit,
// taker by taker. The invoice counter keeps running.
func ResetAllSales(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var sales []models.Sale
		if err := tx.Where("debited = ?", true).Find(&sales).Error; err != nil {
			return err
		}

		refunds := make(map[string]float64)
		for _, sale := range sales {
			refunds[sale.OrderTaker] += sale.Total
		}
		for name, amount := range refunds {
			if err := creditTaker(tx, name, amount); err != nil {
				return err
			}
		}

		if err := tx.Where("1 = 1").Delete(&models.SaleItem{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&models.Sale{}).Error
	})
}

// -------- Handlers --------

// GET /sales?taker=&order_type=&payment_method=&date=YYYY-MM-DD&page=1
func GetSales(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Sale{}).Preload("Items")

		if taker := c.Query("taker"); taker != "" {
			query = query.Where("order_taker = ?", taker)
		}
		if orderType := c.Query("order_type"); orderType != "" {
			query = query.Where("order_type = ?", orderType)
		}
		if method := c.Query("payment_method"); method != "" {
			query = query.Where("payment_method = ?", method)
		}
		if date := c.Query("date"); date != "" {
			day, err := time.ParseInLocation("2006-01-02", date, time.Local)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
				return
			}
			query = query.Where("created_at >= ? AND created_at < ?", day, day.Add(24*time.Hour))
		}

		var count int64
		if err := query.Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count sales"})
			return
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}

		var sales []models.Sale
		if err := query.
			Order("created_at DESC").
			Limit(salesPageSize).
			Offset((page - 1) * salesPageSize).
			Find(&sales).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales"})
			return
		}

		totalPages := (count + salesPageSize - 1) / salesPageSize
		c.JSON(http.StatusOK, gin.H{
			"sales":       sales,
			"page":        page,
			"page_size":   salesPageSize,
			"total":       count,
			"total_pages": totalPages,
		})
	}
}

// GET /sales/:saleID
func GetSaleByID(db *gorm.DB) gin.HandlerFunc {
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
		c.JSON(http.StatusOK, sale)
	}
}

// GET /sales/stats — revenue overview plus per-taker order-type breakdown.
func GetSalesStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sales []models.Sale
		if err := db.Find(&sales).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales"})
			return
		}

		var totalRevenue, todayRevenue float64
		var todayCount int64
		today := time.Now().Format("2006-01-02")

		type typeStat struct {
			Count   int     `json:"count"`
			Revenue float64 `json:"revenue"`
		}
		byTaker := make(map[string]map[models.OrderType]*typeStat)

		for _, sale := range sales {
			totalRevenue += sale.Total
			if sale.CreatedAt.Format("2006-01-02") == today {
				todayRevenue += sale.Total
				todayCount++
			}
			if byTaker[sale.OrderTaker] == nil {
				byTaker[sale.OrderTaker] = make(map[models.OrderType]*typeStat)
			}
			stat := byTaker[sale.OrderTaker][sale.OrderType]
			if stat == nil {
				stat = &typeStat{}
				byTaker[sale.OrderTaker][sale.OrderType] = stat
			}
			stat.Count++
			stat.Revenue += sale.Total
		}

		c.JSON(http.StatusOK, gin.H{
			"total_sales":   len(sales),
			"total_revenue": totalRevenue,
			"today_sales":   todayCount,
			"today_revenue": todayRevenue,
			"by_taker":      byTaker,
		})
	}
}

// PUT /sales/:saleID
func UpdateSaleHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		saleID, ok := parseSaleID(c)
		if !ok {
			return
		}
		var req UpdateSaleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sale, err := UpdateSale(db, saleID, req)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
				return
			}
			if errors.Is(err, ErrInsufficientBalance) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, sale)
	}
}

// DELETE /sales/:saleID
func DeleteSaleHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		saleID, ok := parseSaleID(c)
		if !ok {
			return
		}
		if err := DeleteSale(db, saleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete sale"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Sale deleted successfully"})
	}
}

// DELETE /sales/reset
func ResetSalesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResetSalesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		configured := os.Getenv("POS_OVERRIDE_PIN")
		if configured == "" || req.PIN != configured {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect PIN"})
			return
		}
		if err := ResetAllSales(db); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset sales"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "All sales have been reset"})
	}
}

func parseSaleID(c *gin.Context) (uint, bool) {
	raw := c.Param("saleID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid saleID"})
		return 0, false
	}
	return uint(id), true
}
