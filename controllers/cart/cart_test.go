package cartControllers

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tahirfruitchaat/pos-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.OrderTaker{},
		&models.Cart{},
		&models.CartItem{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, p models.Product) models.Product {
	t.Helper()
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestAddItemDedupesOnProductAndPlate(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, models.Product{
		Name: "Chicken Biryani", FullPrice: 300, HalfPrice: 160, FullStock: 10, HalfStock: 5,
	})

	_, err := AddItem(db, "till-1", product.ID, models.PlateHalf)
	require.NoError(t, err)
	item, err := AddItem(db, "till-1", product.ID, models.PlateHalf)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)

	full, err := AddItem(db, "till-1", product.ID, models.PlateFull)
	require.NoError(t, err)
	assert.Equal(t, 1, full.Quantity)

	cart, err := GetOrCreateCart(db, "till-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	seen := map[string]bool{}
	for _, line := range cart.Items {
		key := fmt.Sprintf("%d/%s", line.ProductID, line.PlateType)
		assert.False(t, seen[key], "duplicate cart line for %s", key)
		seen[key] = true
	}
}

func TestAddItemResolvesPriceFromPlate(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, models.Product{
		Name: "Fruit Chaat", FullPrice: 300, HalfPrice: 160, FullStock: 10, HalfStock: 5,
	})

	half, err := AddItem(db, "till-1", product.ID, models.PlateHalf)
	require.NoError(t, err)
	assert.Equal(t, 160.0, half.SelectedPrice)
	assert.Equal(t, models.PlateHalf, half.PlateType)

	full, err := AddItem(db, "till-1", product.ID, models.PlateFull)
	require.NoError(t, err)
	assert.Equal(t, 300.0, full.SelectedPrice)
}

func TestAddItemSoloAlwaysFullPlate(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, models.Product{
		Name: "Soft Drink", FullPrice: 80, FullStock: 24, IsSolo: true,
	})

	item, err := AddItem(db, "till-1", product.ID, models.PlateHalf)
	require.NoError(t, err)
	assert.Equal(t, models.PlateFull, item.PlateType)
	assert.Equal(t, 80.0, item.SelectedPrice)
}

func TestAddItemRejectsInvalidPlate(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, models.Product{
		Name: "Karahi", FullPrice: 900, HalfPrice: 500, FullStock: 3, HalfStock: 3,
	})

	_, err := AddItem(db, "till-1", product.ID, "Quarter Plate")
	assert.ErrorIs(t, err, ErrInvalidPlateType)
}

func TestAddItemIncrementBlockedAtTierStock(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, models.Product{
		Name: "BBQ Platter", FullPrice: 700, HalfPrice: 400, FullStock: 10, HalfStock: 2,
	})

	_, err := AddItem(db, "till-1", product.ID, models.PlateHalf)
	require.NoError(t, err)
	_, err = AddItem(db, "till-1", product.ID, models.PlateHalf)
	require.NoError(t, err)

	_, err = AddItem(db, "till-1", product.ID, models.PlateHalf)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	cart, err := GetOrCreateCart(db, "till-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestSetQuantityRemovesAtZeroAndClampsToStock(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, models.Product{
		Name: "Rice", FullPrice: 200, HalfPrice: 120, FullStock: 4, HalfStock: 4,
	})

	_, err := AddItem(db, "till-1", product.ID, models.PlateFull)
	require.NoError(t, err)

	item, err := SetQuantity(db, "till-1", product.ID, models.PlateFull, 9)
	require.NoError(t, err)
	assert.Equal(t, 4, item.Quantity, "quantity clamps to tier stock")

	item, err = SetQuantity(db, "till-1", product.ID, models.PlateFull, 0)
	require.NoError(t, err)
	assert.Nil(t, item)

	cart, err := GetOrCreateCart(db, "till-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestRemoveItemIsNoopWhenAbsent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, RemoveItem(db, "till-1", 42, models.PlateFull))
}

func TestCartTotal(t *testing.T) {
	db := newTestDB(t)
	biryani := seedProduct(t, db, models.Product{
		Name: "Biryani", FullPrice: 300, HalfPrice: 160, FullStock: 10, HalfStock: 5,
	})
	drink := seedProduct(t, db, models.Product{
		Name: "Drink", FullPrice: 80, FullStock: 24, IsSolo: true,
	})

	_, err := AddItem(db, "till-1", biryani.ID, models.PlateHalf)
	require.NoError(t, err)
	_, err = AddItem(db, "till-1", biryani.ID, models.PlateHalf)
	require.NoError(t, err)
	_, err = AddItem(db, "till-1", drink.ID, models.PlateFull)
	require.NoError(t, err)

	cart, err := GetOrCreateCart(db, "till-1")
	require.NoError(t, err)
	assert.InDelta(t, 400.0, CartTotal(cart), 0.001)
}

func TestZeroBillForcesTotalToZero(t *testing.T) {
	t.Setenv("POS_OVERRIDE_PIN", "4321")

	db := newTestDB(t)
	product := seedProduct(t, db, models.Product{
		Name: "Meal Deal", FullPrice: 500, HalfPrice: 260, FullStock: 10, HalfStock: 10,
	})
	owner := models.OrderTaker{Name: "Tahir Sb", Balance: 0}
	require.NoError(t, db.Create(&owner).Error)

	_, err := AddItem(db, "till-1", product.ID, models.PlateFull)
	require.NoError(t, err)

	cart, err := ActivateZeroBill(db, "till-1", "4321", owner.ID)
	require.NoError(t, err)
	assert.True(t, cart.ZeroBill)
	assert.Equal(t, 0.0, CartTotal(cart))
	assert.InDelta(t, 500.0, cart.Subtotal(), 0.001)
}

func TestZeroBillRejectsWrongPIN(t *testing.T) {
	t.Setenv("POS_OVERRIDE_PIN", "4321")

	db := newTestDB(t)
	owner := models.OrderTaker{Name: "Tahir Sb"}
	require.NoError(t, db.Create(&owner).Error)

	_, err := ActivateZeroBill(db, "till-1", "1111", owner.ID)
	assert.ErrorIs(t, err, ErrInvalidPIN)
}

func TestZeroBillDisabledWithoutConfiguredPIN(t *testing.T) {
	t.Setenv("POS_OVERRIDE_PIN", "")

	db := newTestDB(t)
	owner := models.OrderTaker{Name: "Tahir Sb"}
	require.NoError(t, db.Create(&owner).Error)

	_, err := ActivateZeroBill(db, "till-1", "", owner.ID)
	assert.ErrorIs(t, err, ErrInvalidPIN)
}

func TestSelectingDifferentTakerClearsZeroBill(t *testing.T) {
	t.Setenv("POS_OVERRIDE_PIN", "4321")

	db := newTestDB(t)
	owner := models.OrderTaker{Name: "Tahir Sb"}
	require.NoError(t, db.Create(&owner).Error)
	ahmad := models.OrderTaker{Name: "Ahmad", Balance: 5000}
	require.NoError(t, db.Create(&ahmad).Error)

	cart, err := ActivateZeroBill(db, "till-1", "4321", owner.ID)
	require.NoError(t, err)
	require.True(t, cart.ZeroBill)

	cart, err = SelectTaker(db, "till-1", ahmad.ID)
	require.NoError(t, err)
	assert.False(t, cart.ZeroBill, "switching taker clears the override")

	// Re-selecting the same taker keeps whatever state is active.
	cart, err = ActivateZeroBill(db, "till-1", "4321", ahmad.ID)
	require.NoError(t, err)
	require.True(t, cart.ZeroBill)
	cart, err = SelectTaker(db, "till-1", ahmad.ID)
	require.NoError(t, err)
	assert.True(t, cart.ZeroBill)
}
