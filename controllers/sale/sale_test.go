package saleControllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cartControllers "github.com/tahirfruitchaat/pos-api/controllers/cart"
	"github.com/tahirfruitchaat/pos-api/models"
	"gorm.io/gorm"
)

// checkoutOne runs a full cart-to-checkout cycle for a single line item.
func checkoutOne(t *testing.T, db *gorm.DB, terminal string, productID, takerID uint, plate string, qty int) *models.Sale {
	t.Helper()
	_, err := cartControllers.AddItem(db, terminal, productID, plate)
	require.NoError(t, err)
	if qty > 1 {
		_, err = cartControllers.SetQuantity(db, terminal, productID, plate, qty)
		require.NoError(t, err)
	}
	_, err = cartControllers.SelectTaker(db, terminal, takerID)
	require.NoError(t, err)

	sale, err := CompleteSale(db, terminal, cashDineIn())
	require.NoError(t, err)
	return sale
}

func TestDeleteSaleRefundsDebit(t *testing.T) {
	db := newTestDB(t)
	product := seedBiryani(t, db)
	taker := seedTaker(t, db, "Ahmad", 1000)

	sale := checkoutOne(t, db, "till-1", product.ID, taker.ID, models.PlateFull, 1)

	var mid models.OrderTaker
	require.NoError(t, db.First(&mid, taker.ID).Error)
	require.InDelta(t, 700.0, mid.Balance, 0.001)

	require.NoError(t, DeleteSale(db, sale.ID))

	var fresh models.OrderTaker
	require.NoError(t, db.First(&fresh, taker.ID).Error)
	assert.InDelta(t, 1000.0, fresh.Balance, 0.001)

	var count int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.SaleItem{}).Count(&count).Error)
	assert.Zero(t, count, "sale items go with the sale")
}

func TestDeleteSaleToleratesDanglingTaker(t *testing.T) {
	db := newTestDB(t)
	product := seedBiryani(t, db)
	taker := seedTaker(t, db, "Ahmad", 1000)

	sale := checkoutOne(t, db, "till-1", product.ID, taker.ID, models.PlateFull, 1)

	require.NoError(t, db.Delete(&models.OrderTaker{}, taker.ID).Error)

	// The refund has nowhere to go but the delete still succeeds.
	require.NoError(t, DeleteSale(db, sale.ID))

	var count int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteZeroBillSaleDoesNotCredit(t *testing.T) {
	t.Setenv("POS_OVERRIDE_PIN", "4321")

	db := newTestDB(t)
	product := seedBiryani(t, db)
	taker := seedTaker(t, db, "Tahir Sb", 500)

	_, err := cartControllers.AddItem(db, "till-1", product.ID, models.PlateFull)
	require.NoError(t, err)
	_, err = cartControllers.ActivateZeroBill(db, "till-1", "4321", taker.ID)
	require.NoError(t, err)
	sale, err := CompleteSale(db, "till-1", cashDineIn())
	require.NoError(t, err)
	require.False(t, sale.Debited)

	require.NoError(t, DeleteSale(db, sale.ID))

	var fresh models.OrderTaker
	require.NoError(t, db.First(&fresh, taker.ID).Error)
	assert.InDelta(t, 500.0, fresh.Balance, 0.001, "nothing was charged, nothing comes back")
}

func TestUpdateSaleRecomputesTotalAndAdjustsBalance(t *testing.T) {
	db := newTestDB(t)
	product := seedBiryani(t, db)
	taker := seedTaker(t, db, "Ahmad", 1000)

	sale := checkoutOne(t, db, "till-1", product.ID, taker.ID, models.PlateFull, 1)
	require.InDelta(t, 300.0, sale.Total, 0.001)

	updated, err := UpdateSale(db, sale.ID, UpdateSaleRequest{
		Items: []models.SaleItem{
			{ProductID: product.ID, Name: product.Name, UnitPrice: 160, PlateType: models.PlateHalf, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.InDelta(t, 160.0, updated.Total, 0.001, "total always comes from the items")
	assert.False(t, updated.Synced, "an edited sale needs pushing again")
	require.Len(t, updated.Items, 1)
	assert.Equal(t, models.PlateHalf, updated.Items[0].PlateType)

	// 300 charged, 140 back.
	var fresh models.OrderTaker
	require.NoError(t, db.First(&fresh, taker.ID).Error)
	assert.InDelta(t, 840.0, fresh.Balance, 0.001)
}

func TestUpdateSaleRejectsIncreaseBeyondBalance(t *testing.T) {
	db := newTestDB(t)
	product := seedBiryani(t, db)
	taker := seedTaker(t, db, "Bilal", 350)

	sale := checkoutOne(t, db, "till-1", product.ID, taker.ID, models.PlateFull, 1)

	// Balance is down to 50; growing the sale by 300 must fail.
	_, err := UpdateSale(db, sale.ID, UpdateSaleRequest{
		Items: []models.SaleItem{
			{ProductID: product.ID, Name: product.Name, UnitPrice: 300, PlateType: models.PlateFull, Quantity: 2},
		},
	})
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	var fresh models.Sale
	require.NoError(t, db.First(&fresh, sale.ID).Error)
	assert.InDelta(t, 300.0, fresh.Total, 0.001, "rejected edit leaves the sale alone")
}

func TestUpdateZeroBillSaleKeepsZeroTotal(t *testing.T) {
	t.Setenv("POS_OVERRIDE_PIN", "4321")

	db := newTestDB(t)
	product := seedBiryani(t, db)
	taker := seedTaker(t, db, "Tahir Sb", 0)

	_, err := cartControllers.AddItem(db, "till-1", product.ID, models.PlateFull)
	require.NoError(t, err)
	_, err = cartControllers.ActivateZeroBill(db, "till-1", "4321", taker.ID)
	require.NoError(t, err)
	sale, err := CompleteSale(db, "till-1", cashDineIn())
	require.NoError(t, err)

	updated, err := UpdateSale(db, sale.ID, UpdateSaleRequest{
		Items: []models.SaleItem{
			{ProductID: product.ID, Name: product.Name, UnitPrice: 300, PlateType: models.PlateFull, Quantity: 3},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, updated.Total)
}

func TestUpdateSalePaymentAndOrderType(t *testing.T) {
	db := newTestDB(t)
	product := seedBiryani(t, db)
	taker := seedTaker(t, db, "Ahmad", 1000)

	sale := checkoutOne(t, db, "till-1", product.ID, taker.ID, models.PlateFull, 1)

	updated, err := UpdateSale(db, sale.ID, UpdateSaleRequest{
		PaymentMethod: string(models.PaymentOnline),
		OrderType:     string(models.OrderDelivery),
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentOnline, updated.PaymentMethod)
	assert.Equal(t, models.OrderDelivery, updated.OrderType)
	assert.InDelta(t, 300.0, updated.Total, 0.001, "no items in the request, total untouched")
}

func TestResetAllSalesRefundsPerTaker(t *testing.T) {
	db := newTestDB(t)
	product := seedBiryani(t, db)
	ahmad := seedTaker(t, db, "Ahmad", 1000)
	bilal := seedTaker(t, db, "Bilal", 500)

	checkoutOne(t, db, "till-1", product.ID, ahmad.ID, models.PlateFull, 1)
	checkoutOne(t, db, "till-2", product.ID, ahmad.ID, models.PlateHalf, 1)
	checkoutOne(t, db, "till-3", product.ID, bilal.ID, models.PlateHalf, 2)

	require.NoError(t, ResetAllSales(db))

	var freshAhmad models.OrderTaker
	require.NoError(t, db.First(&freshAhmad, ahmad.ID).Error)
	assert.InDelta(t, 1000.0, freshAhmad.Balance, 0.001)
	var freshBilal models.OrderTaker
	require.NoError(t, db.First(&freshBilal, bilal.ID).Error)
	assert.InDelta(t, 500.0, freshBilal.Balance, 0.001)

	var count int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&count).Error)
	assert.Zero(t, count)

	// The counter does not restart.
	sale := checkoutOne(t, db, "till-4", product.ID, ahmad.ID, models.PlateFull, 1)
	assert.Equal(t, "INV-000004", sale.InvoiceID)
}
