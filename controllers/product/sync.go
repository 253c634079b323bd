package productcontroller

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/NickVeles/portfolio-ecommerce/models"
	"github.com/NickVeles/portfolio-ecommerce/payments"
)

// SyncCatalog mirrors the payment provider's product catalog into the
// products table: upsert by catalog id, deactivate rows the provider no
// longer lists. The provider stays the source of truth; local rows only
// add category curation on top.
func SyncCatalog(ctx context.Context, db *gorm.DB, pc *payments.Client) (int, error) {
	providerProducts, err := pc.ListProducts(ctx)
	if err != nil {
		return 0, err
	}

	seen := make([]string, 0, len(providerProducts))
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, p := range providerProducts {
			imageURL := ""
			if len(p.Images) > 0 {
				imageURL = p.Images[0]
			}
			row := models.Product{
				CatalogID:   p.ID,
				Name:        p.Name,
				Description: p.Description,
				PriceCents:  p.UnitAmount,
				Currency:    p.Currency,
				ImageURL:    imageURL,
				Active:      p.Active,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "catalog_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"name", "description", "price_cents", "currency", "image_url", "active",
				}),
			}).Create(&row).Error; err != nil {
				return err
			}
			seen = append(seen, p.ID)
		}

		// Anything the provider stopped listing goes inactive, not away:
		// order history still references the row. An empty listing is
		// treated as a provider hiccup rather than a reason to blank the
		// whole store.
		if len(seen) == 0 {
			return nil
		}
		return tx.Model(&models.Product{}).
			Where("catalog_id NOT IN ?", seen).
			Update("active", false).Error
	})
	if err != nil {
		return 0, err
	}

	log.Printf("✅ Catalog synced: %d products", len(seen))
	return len(seen), nil
}

// POST /admin/catalog/sync
func SyncCatalogHandler(db *gorm.DB, pc *payments.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := SyncCatalog(c.Request.Context(), db, pc)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Catalog sync failed: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Catalog synced", "products": count})
	}
}
