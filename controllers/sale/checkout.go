package saleControllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tahirfruitchaat/pos-api/gateway"
	"github.com/tahirfruitchaat/pos-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrNoOrderTaker        = errors.New("no order taker selected")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
	OrderType     string `json:"order_type" binding:"required"`
}

// -------- Helpers --------

func mapPaymentMethod(method string) (models.PaymentMethod, error) {
	switch method {
	case string(models.PaymentCash):
		return models.PaymentCash, nil
	case string(models.PaymentOnline):
		return models.PaymentOnline, nil
	default:
		return "", errors.New("invalid payment method")
	}
}

func mapOrderType(orderType string) (models.OrderType, error) {
	switch orderType {
	case string(models.OrderDineIn):
		return models.OrderDineIn, nil
	case string(models.OrderTakeAway):
		return models.OrderTakeAway, nil
	case string(models.OrderDriveThru):
		return models.OrderDriveThru, nil
	case string(models.OrderDelivery):
		return models.OrderDelivery, nil
	default:
		return "", errors.New("invalid order type")
	}
}

// -------- Core Logic --------

// forUpdate applies a row lock on dialects that support it. SQLite (used by
// the test databases) has no FOR UPDATE clause and runs single-writer anyway.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// CompleteSale turns the terminal's cart into a Sale inside one transaction:
// balance gate, invoice counter bump, taker debit, per-tier stock deduction,
// snapshot build, cart clear. Either all of it commits or none of it does.
//
// The balance gate is skipped for self-service ("Open Sale") takers and when
// the zero-bill override is active; zero-bill additionally forces the
// recorded total to 0 and skips the debit.
func CompleteSale(db *gorm.DB, terminalID string, req CheckoutRequest) (*models.Sale, error) {
	paymentMethod, err := mapPaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	orderType, err := mapOrderType(req.OrderType)
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := db.Preload("Items").Where("terminal_id = ?", terminalID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if cart.OrderTakerID == nil {
		return nil, ErrNoOrderTaker
	}

	var sale models.Sale

	err = db.Transaction(func(tx *gorm.DB) error {
		var taker models.OrderTaker
		if err := forUpdate(tx).
			First(&taker, "id = ?", *cart.OrderTakerID).Error; err != nil {
			return ErrNoOrderTaker
		}

		total := cart.Subtotal()
		if cart.ZeroBill {
			total = 0
		}

		if !taker.SelfService && !cart.ZeroBill && taker.Balance < total {
			return ErrInsufficientBalance
		}

		var saleItems []models.SaleItem
		for _, item := range cart.Items {
			var product models.Product
			if err := forUpdate(tx).
				First(&product, "id = ?", item.ProductID).Error; err != nil {
				return errors.New("product no longer exists: " + item.ProductName)
			}

			if product.StockFor(item.PlateType) < item.Quantity {
				return errors.New("insufficient stock for product: " + product.Name)
			}
			product.DeductStock(item.PlateType, item.Quantity)
			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			saleItems = append(saleItems, models.SaleItem{
				ProductID: item.ProductID,
				Name:      item.ProductName,
				UnitPrice: item.SelectedPrice,
				PlateType: item.PlateType,
				Quantity:  item.Quantity,
			})
		}

		// Invoice counter lives in its own locked row so numbering stays
		// monotonic across restarts and sale resets.
		var counter models.InvoiceCounter
		if err := forUpdate(tx).
			Where("id = ?", 1).First(&counter).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			counter = models.InvoiceCounter{ID: 1, Next: 1}
			if err := tx.Create(&counter).Error; err != nil {
				return err
			}
		}
		invoiceNumber := counter.Next
		counter.Next++
		if err := tx.Save(&counter).Error; err != nil {
			return err
		}

		debited := false
		if !taker.SelfService && !cart.ZeroBill {
			taker.Balance -= total
			if err := tx.Save(&taker).Error; err != nil {
				return err
			}
			debited = true
		}

		sale = models.Sale{
			Ref:           uuid.NewString(),
			InvoiceID:     models.FormatInvoiceID(invoiceNumber),
			Items:         saleItems,
			Total:         total,
			PaymentMethod: paymentMethod,
			OrderType:     orderType,
			OrderTaker:    taker.Name,
			ZeroBill:      cart.ZeroBill,
			Debited:       debited,
			CreatedAt:     time.Now(),
		}
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Cart{}).Where("cart_id = ?", cart.CartID).
			Update("zero_bill", false).Error
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// MarkSynced flags a sale as delivered upstream.
func MarkSynced(db *gorm.DB, saleID uint) error {
	return db.Model(&models.Sale{}).Where("id = ?", saleID).Update("synced", true).Error
}

// -------- Handlers --------

// POST /pos/checkout
func CheckoutHandler(db *gorm.DB, upstream *gateway.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		terminalVal, exists := c.Get("terminal_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		terminal, _ := terminalVal.(string)

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		sale, err := CompleteSale(db, terminal, req)
		if err != nil {
			c.JSON(statusForCheckoutError(err), gin.H{"error": err.Error()})
			return
		}

		// Upstream push is best-effort: a dead head office never fails the
		// checkout. Unsynced sales are retried by the reconciler.
		if upstream != nil && upstream.Enabled() {
			if err := upstream.PushSale(sale); err != nil {
				log.Printf("⚠️ Sale %s not synced upstream: %v", sale.InvoiceID, err)
			} else {
				if err := MarkSynced(db, sale.ID); err == nil {
					sale.Synced = true
				}
			}
		}

		BroadcastSale(*sale)

		c.JSON(http.StatusCreated, sale)
	}
}

func statusForCheckoutError(err error) int {
	if errors.Is(err, ErrInsufficientBalance) {
		return http.StatusConflict
	}
	return http.StatusBadRequest
}
