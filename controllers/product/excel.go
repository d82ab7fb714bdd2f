package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/shop-api/apperror"
	"github.com/junaidrashid-git/shop-api/controllers/response"
	"github.com/junaidrashid-git/shop-api/services"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
)

// importRow is one data row in the export layout:
// ID, Name, Description, Price, Stock, Image.
type importRow struct {
	ID    uint
	Input services.ProductInput
}

func parseImportSheet(sheet *xlsx.Sheet) (rows []importRow, skipped int) {
	for i := 1; i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		if len(row.Cells) < 5 {
			skipped++
			continue
		}

		get := func(index int) string {
			if index < len(row.Cells) {
				return strings.TrimSpace(row.Cells[index].String())
			}
			return ""
		}

		name := get(1)
		price, err1 := decimal.NewFromString(get(3))
		stock, err2 := strconv.Atoi(get(4))
		if name == "" || err1 != nil || err2 != nil {
			skipped++
			continue
		}

		r := importRow{Input: services.ProductInput{
			Name:        name,
			Description: get(2),
			Price:       &price,
			Stock:       &stock,
			Image:       get(5),
		}}
		if id, err := strconv.ParseUint(get(0), 10, 64); err == nil {
			r.ID = uint(id)
		}
		rows = append(rows, r)
	}
	return rows, skipped
}

// ImportProductsFromExcel creates or updates products from an uploaded
// workbook on behalf of the seller named by the "seller_id" form field.
// Rows with an ID update that product when the seller owns it.
func ImportProductsFromExcel(catalog services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID, err := strconv.ParseUint(c.PostForm("seller_id"), 10, 64)
		if err != nil || sellerID == 0 {
			response.Error(c, apperror.ValidationFields(map[string]string{"seller_id": "seller_id is required"}))
			return
		}

		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			response.Error(c, apperror.ValidationFields(map[string]string{"file": "Excel file is required"}))
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			response.Error(c, apperror.Internal(err, "failed to open Excel file"))
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			response.Error(c, apperror.Validation("failed to parse Excel file"))
			return
		}
		if len(xlFile.Sheets) == 0 || len(xlFile.Sheets[0].Rows) < 2 {
			response.Error(c, apperror.Validation("Excel file is empty or missing header row"))
			return
		}

		rows, skippedCount := parseImportSheet(xlFile.Sheets[0])
		createdCount, updatedCount := 0, 0
		ctx := c.Request.Context()
		seller := uint(sellerID)

		for _, row := range rows {
			if row.ID != 0 {
				in := row.Input
				_, err := catalog.Update(ctx, seller, row.ID, services.ProductPatch{
					Name:        &in.Name,
					Description: &in.Description,
					Price:       in.Price,
					Stock:       in.Stock,
					Image:       &in.Image,
				})
				if err == nil {
					updatedCount++
					continue
				}
				if !apperror.Is(err, apperror.KindNotFound) {
					skippedCount++
					continue
				}
			}

			if _, err := catalog.Create(ctx, seller, row.Input); err == nil {
				createdCount++
			} else {
				skippedCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": createdCount,
			"updated_count": updatedCount,
			"skipped_count": skippedCount,
		})
	}
}
