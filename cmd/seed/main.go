// Command seed populates the database with demo creators, storefronts,
// catalogs, orders and payment-link purchases for local development.
package main

import (
	"flag"
	"log"

	"vendio/internal/bootstrap"
	"vendio/internal/config"
	"vendio/internal/seed"
)

func main() {
	opts := seed.DefaultOptions()
	flag.IntVar(&opts.NumCreators, "creators", opts.NumCreators, "number of creator accounts to seed")
	flag.IntVar(&opts.ProductsPerStore, "products", opts.ProductsPerStore, "products per store")
	flag.IntVar(&opts.OrdersPerStore, "orders", opts.OrdersPerStore, "orders per store")
	flag.IntVar(&opts.LinksPerCreator, "links", opts.LinksPerCreator, "payment links per creator")
	flag.IntVar(&opts.PurchasesPerLink, "purchases", opts.PurchasesPerLink, "purchases per payment link")
	flag.BoolVar(&opts.ShouldClean, "clean", false, "truncate existing data before seeding")
	flag.BoolVar(&opts.SkipBcrypt, "skip-bcrypt", false, "store plaintext passwords (fast, dev only)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	if err := seed.Seed(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
