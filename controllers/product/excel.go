package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tahirfruitchaat/pos-api/models"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

var productSheetHeaders = []string{
	"ID", "Name", "Category", "FullPrice", "HalfPrice",
	"FullStock", "HalfStock", "Barcode", "IsSolo", "ImageURL",
	"CreatedAt", "UpdatedAt",
}

// GET /admin/products/export-excel
func ExportProductsToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Order("name").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headerRow := sheet.AddRow()
		for _, h := range productSheetHeaders {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range products {
			row := sheet.AddRow()
			row.AddCell().SetValue(p.ID)
			row.AddCell().SetValue(p.Name)
			row.AddCell().SetValue(p.Category)
			row.AddCell().SetValue(p.FullPrice)
			row.AddCell().SetValue(p.HalfPrice)
			row.AddCell().SetValue(p.FullStock)
			row.AddCell().SetValue(p.HalfStock)
			row.AddCell().SetValue(p.Barcode)
			row.AddCell().SetValue(strconv.FormatBool(p.IsSolo))
			row.AddCell().SetValue(p.ImageURL)
			row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
			row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}

// POST /admin/products/import-excel
// Rows are matched by name: existing products are updated, new ones
// created. Malformed rows are skipped, not fatal.
func ImportProductsFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			name := get(1)
			category := get(2)
			fullPrice, err1 := strconv.ParseFloat(get(3), 64)
			halfPrice, _ := strconv.ParseFloat(get(4), 64)
			fullStock, _ := strconv.Atoi(get(5))
			halfStock, _ := strconv.Atoi(get(6))
			barcode := get(7)
			isSolo := strings.EqualFold(get(8), "true")
			imageURL := get(9)

			if name == "" || err1 != nil || fullPrice <= 0 {
				skippedCount++
				continue
			}

			incoming := models.Product{
				Name:      name,
				Category:  category,
				FullPrice: fullPrice,
				HalfPrice: halfPrice,
				FullStock: fullStock,
				HalfStock: halfStock,
				Barcode:   barcode,
				IsSolo:    isSolo,
				ImageURL:  imageURL,
			}

			var existing models.Product
			err := db.Where("name = ?", name).First(&existing).Error
			if err == nil {
				incoming.ID = existing.ID
				if err := db.Save(&incoming).Error; err != nil {
					skippedCount++
					continue
				}
				updatedCount++
			} else if err == gorm.ErrRecordNotFound {
				if err := db.Create(&incoming).Error; err != nil {
					skippedCount++
					continue
				}
				createdCount++
			} else {
				skippedCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"created": createdCount,
			"updated": updatedCount,
			"skipped": skippedCount,
		})
	}
}
