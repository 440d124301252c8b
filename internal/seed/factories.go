// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"vendio/internal/models"
	"vendio/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // weak randomness is fine for seeding
	return &Factory{db: db, opts: opts, rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateCreator persists a creator account with a wallet address.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateCreator(overrides ...func(*models.User)) (*models.User, error) {
	name := gofakeit.Name()
	username := strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(100, 999))

	user := &models.User{
		Name:          name,
		Username:      username,
		Email:         fmt.Sprintf("%s@example.com", username),
		WalletAddress: fakeWalletAddress(),
		Role:          models.RoleCreator,
		Bio:           gofakeit.Sentence(10),
		Avatar:        fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateStore persists a storefront for the given creator.
func (f *Factory) CreateStore(user *models.User, overrides ...func(*models.Store)) (*models.Store, error) {
	name := gofakeit.Company()
	store := &models.Store{
		UserID:      user.ID,
		Name:        name,
		Slug:        uniqueSlug(name),
		Description: gofakeit.Sentence(12),
		LogoURL:     fmt.Sprintf("https://picsum.photos/seed/%s/400/400", gofakeit.UUID()),
		Active:      true,
	}

	for _, override := range overrides {
		override(store)
	}

	if err := f.db.Create(store).Error; err != nil {
		return nil, err
	}
	return store, nil
}

// CreateProduct persists a catalog item in the given store.
func (f *Factory) CreateProduct(store *models.Store, overrides ...func(*models.Product)) (*models.Product, error) {
	name := gofakeit.ProductName()
	productType := models.ProductTypeProduct
	if f.rand.Float32() < 0.3 {
		productType = models.ProductTypeService
	}

	product := &models.Product{
		UserID:      store.UserID,
		StoreID:     store.ID,
		Name:        name,
		Slug:        validation.Slugify(name),
		Description: gofakeit.ProductDescription(),
		Price:       roundCents(gofakeit.Float64Range(1, 250)),
		Currency:    "USDC",
		Type:        productType,
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
		Active:      f.rand.Float32() < 0.9,
	}

	for _, override := range overrides {
		override(product)
	}

	if err := f.db.Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// CreatePaymentLink persists a shareable payment link for the creator.
func (f *Factory) CreatePaymentLink(user *models.User, overrides ...func(*models.PaymentLink)) (*models.PaymentLink, error) {
	title := gofakeit.BuzzWord() + " " + gofakeit.HackerNoun()
	link := &models.PaymentLink{
		UserID:      user.ID,
		Title:       title,
		Slug:        uniqueSlug(title),
		Description: gofakeit.Sentence(8),
		Price:       roundCents(gofakeit.Float64Range(5, 100)),
		Currency:    "USDC",
		AllowTips:   f.rand.Float32() < 0.5,
		Active:      true,
	}

	for _, override := range overrides {
		override(link)
	}

	if err := f.db.Create(link).Error; err != nil {
		return nil, err
	}
	return link, nil
}

// CreateOrder persists an order against the store with 1-3 line items drawn
// from the given products, each priced at the current catalog price.
func (f *Factory) CreateOrder(store *models.Store, products []*models.Product, overrides ...func(*models.Order)) (*models.Order, error) {
	if len(products) == 0 {
		return nil, fmt.Errorf("cannot seed an order without products")
	}

	order := &models.Order{
		OrderNumber: fakeReference("ORD"),
		StoreID:     store.ID,
		Status:      weightedStatus(f.rand),
		Currency:    "USDC",
		CreatedAt:   f.spreadCreatedAt(),
	}

	// guest buyers get name+email, wallet buyers just an address
	if f.rand.Float32() < 0.5 {
		order.BuyerName = gofakeit.Name()
		order.BuyerEmail = gofakeit.Email()
	} else {
		order.BuyerWallet = fakeWalletAddress()
	}
	if order.Status == models.OrderStatusCompleted || order.Status == models.OrderStatusRefunded {
		order.PaymentHash = fakeTxHash()
	}

	lines := f.rand.Intn(3) + 1
	if lines > len(products) {
		lines = len(products)
	}
	total := 0.0
	for _, idx := range f.rand.Perm(len(products))[:lines] {
		p := products[idx]
		qty := f.rand.Intn(3) + 1
		order.Items = append(order.Items, models.OrderItem{
			ProductID: p.ID,
			Quantity:  qty,
			Price:     p.Price,
		})
		total += float64(qty) * p.Price
	}
	order.TotalAmount = roundCents(total)

	for _, override := range overrides {
		override(order)
	}

	if err := f.db.Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// CreatePurchase persists a payment-link purchase, tipping when the link
// allows it.
func (f *Factory) CreatePurchase(link *models.PaymentLink, overrides ...func(*models.Purchase)) (*models.Purchase, error) {
	purchase := &models.Purchase{
		PurchaseNumber: fakeReference("PUR"),
		PaymentLinkID:  link.ID,
		BuyerName:      gofakeit.Name(),
		BuyerEmail:     gofakeit.Email(),
		Status:         models.OrderStatusCompleted,
		PaymentHash:    fakeTxHash(),
		Amount:         link.Price,
		Currency:       link.Currency,
		CreatedAt:      f.spreadCreatedAt(),
	}
	if link.AllowTips && f.rand.Float32() < 0.4 {
		purchase.TipAmount = roundCents(gofakeit.Float64Range(1, 20))
		purchase.Amount = roundCents(link.Price + purchase.TipAmount)
	}

	for _, override := range overrides {
		override(purchase)
	}

	if err := f.db.Create(purchase).Error; err != nil {
		return nil, err
	}
	return purchase, nil
}

// CreateLinkInBio persists a bio page with a few sample links for the user.
func (f *Factory) CreateLinkInBio(user *models.User, overrides ...func(*models.LinkInBio)) (*models.LinkInBio, error) {
	bio := &models.LinkInBio{
		UserID: user.ID,
		Slug:   uniqueSlug(user.Username),
		Title:  user.Name,
		Theme:  "default",
		Links: []models.BioLink{
			{Title: "Shop", URL: gofakeit.URL(), Position: 0, Active: true},
			{Title: "Twitter", URL: "https://twitter.com/" + user.Username, Position: 1, Active: true},
			{Title: "Newsletter", URL: gofakeit.URL(), Position: 2, Active: f.rand.Float32() < 0.7},
		},
	}

	for _, override := range overrides {
		override(bio)
	}

	if err := f.db.Create(bio).Error; err != nil {
		return nil, err
	}
	return bio, nil
}

// spreadCreatedAt returns a timestamp spread over the configured window so
// seeded dashboards look lived-in.
func (f *Factory) spreadCreatedAt() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rand.Intn(maxDays)
	hoursBack := f.rand.Intn(24)
	minsBack := f.rand.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}

func weightedStatus(r *rand.Rand) string {
	switch roll := r.Float32(); {
	case roll < 0.6:
		return models.OrderStatusCompleted
	case roll < 0.85:
		return models.OrderStatusPending
	case roll < 0.95:
		return models.OrderStatusCancelled
	default:
		return models.OrderStatusRefunded
	}
}

func fakeWalletAddress() string {
	return "0x" + strings.ReplaceAll(gofakeit.UUID(), "-", "")[:40]
}

func fakeTxHash() string {
	return "0x" + strings.ReplaceAll(gofakeit.UUID()+gofakeit.UUID(), "-", "")[:64]
}

// fakeReference mirrors the ORD/PUR number shape with a wider suffix,
// since seed runs mint many references inside the same second.
func fakeReference(prefix string) string {
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UTC().Unix(),
		strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8]))
}

// uniqueSlug appends a short random suffix so seed runs never collide on
// globally unique slug columns.
func uniqueSlug(name string) string {
	return validation.Slugify(name) + "-" + strings.ToLower(uuid.NewString()[:6])
}

func roundCents(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
