package seed

import (
	"fmt"
	"log"

	"vendio/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumCreators      int
	ProductsPerStore int
	OrdersPerStore   int
	LinksPerCreator  int
	PurchasesPerLink int
	ShouldClean      bool
	SkipBcrypt       bool
	MaxDays          int
}

// DefaultOptions is the preset used by `vendio-seed` and bootstrap demo
// seeding.
func DefaultOptions() Options {
	return Options{
		NumCreators:      8,
		ProductsPerStore: 5,
		OrdersPerStore:   12,
		LinksPerCreator:  2,
		PurchasesPerLink: 4,
		MaxDays:          90,
	}
}

// Demo seeds a demo marketplace with the default preset without clearing
// existing data.
func Demo(db *gorm.DB) error {
	return Seed(db, DefaultOptions())
}

// Seed populates the database with creators, storefronts, catalogs, orders,
// payment links and purchases.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("seeding %d creators (%d products, %d orders per store)...",
		opts.NumCreators, opts.ProductsPerStore, opts.OrdersPerStore)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Printf("warning: could not clear existing data, continuing anyway: %v", err)
		}
	}

	f := NewFactory(db, opts)

	for i := 0; i < opts.NumCreators; i++ {
		user, err := f.CreateCreator()
		if err != nil {
			return fmt.Errorf("failed to create creator: %w", err)
		}

		store, err := f.CreateStore(user)
		if err != nil {
			return fmt.Errorf("failed to create store for %s: %w", user.Username, err)
		}

		products := make([]*models.Product, 0, opts.ProductsPerStore)
		for j := 0; j < opts.ProductsPerStore; j++ {
			p, err := f.CreateProduct(store)
			if err != nil {
				return fmt.Errorf("failed to create product: %w", err)
			}
			products = append(products, p)
		}

		for j := 0; j < opts.OrdersPerStore; j++ {
			if _, err := f.CreateOrder(store, products); err != nil {
				return fmt.Errorf("failed to create order: %w", err)
			}
		}

		for j := 0; j < opts.LinksPerCreator; j++ {
			link, err := f.CreatePaymentLink(user)
			if err != nil {
				return fmt.Errorf("failed to create payment link: %w", err)
			}
			for k := 0; k < opts.PurchasesPerLink; k++ {
				if _, err := f.CreatePurchase(link); err != nil {
					return fmt.Errorf("failed to create purchase: %w", err)
				}
			}
		}

		if _, err := f.CreateLinkInBio(user); err != nil {
			return fmt.Errorf("failed to create bio page for %s: %w", user.Username, err)
		}

		log.Printf("seeded creator %d/%d (%s)", i+1, opts.NumCreators, user.Username)
	}

	log.Println("database seeding completed")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("clearing existing data...")
	if db.Dialector.Name() == "postgres" {
		sql := `TRUNCATE TABLE order_items, orders, purchases, payment_links,
			products, bio_links, link_in_bios, stores, users RESTART IDENTITY CASCADE;`
		return db.Exec(sql).Error
	}
	// sqlite path for tests
	for _, table := range []string{
		"order_items", "orders", "purchases", "payment_links",
		"products", "bio_links", "link_in_bios", "stores", "users",
	} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}
