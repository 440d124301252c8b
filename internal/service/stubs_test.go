package service

import (
	"context"

	"vendio/internal/models"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	getByWalletFn   func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	deleteFn        func(context.Context, uint) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByWallet(ctx context.Context, wallet string) (*models.User, error) {
	return s.getByWalletFn(ctx, wallet)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByWalletFn:   func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
	}
}

// storeRepoStub is a stub for repository.StoreRepository.
type storeRepoStub struct {
	getByIDFn     func(context.Context, uint) (*models.Store, error)
	getByUserIDFn func(context.Context, uint) (*models.Store, error)
	getBySlugFn   func(context.Context, string) (*models.Store, error)
	slugTakenFn   func(context.Context, string) (bool, error)
	createFn      func(context.Context, *models.Store) error
	updateFn      func(context.Context, *models.Store) error
}

func (s *storeRepoStub) GetByID(ctx context.Context, id uint) (*models.Store, error) {
	return s.getByIDFn(ctx, id)
}
func (s *storeRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Store, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *storeRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Store, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *storeRepoStub) SlugTaken(ctx context.Context, slug string) (bool, error) {
	return s.slugTakenFn(ctx, slug)
}
func (s *storeRepoStub) Create(ctx context.Context, store *models.Store) error {
	return s.createFn(ctx, store)
}
func (s *storeRepoStub) Update(ctx context.Context, store *models.Store) error {
	return s.updateFn(ctx, store)
}

func noopStoreRepo() *storeRepoStub {
	return &storeRepoStub{
		getByIDFn:     func(_ context.Context, id uint) (*models.Store, error) { return &models.Store{ID: id}, nil },
		getByUserIDFn: func(_ context.Context, _ uint) (*models.Store, error) { return nil, nil },
		getBySlugFn:   func(_ context.Context, _ string) (*models.Store, error) { return nil, nil },
		slugTakenFn:   func(_ context.Context, _ string) (bool, error) { return false, nil },
		createFn:      func(_ context.Context, _ *models.Store) error { return nil },
		updateFn:      func(_ context.Context, _ *models.Store) error { return nil },
	}
}

// productRepoStub is a stub for repository.ProductRepository.
type productRepoStub struct {
	getByIDFn     func(context.Context, uint) (*models.Product, error)
	listByUserFn  func(context.Context, uint) ([]models.Product, error)
	listByStoreFn func(context.Context, uint, bool) ([]models.Product, error)
	createFn      func(context.Context, *models.Product) error
	updateFn      func(context.Context, *models.Product) error
	deleteFn      func(context.Context, uint) error
}

func (s *productRepoStub) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	return s.getByIDFn(ctx, id)
}
func (s *productRepoStub) ListByUser(ctx context.Context, userID uint) ([]models.Product, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *productRepoStub) ListByStore(ctx context.Context, storeID uint, activeOnly bool) ([]models.Product, error) {
	return s.listByStoreFn(ctx, storeID, activeOnly)
}
func (s *productRepoStub) Create(ctx context.Context, product *models.Product) error {
	return s.createFn(ctx, product)
}
func (s *productRepoStub) Update(ctx context.Context, product *models.Product) error {
	return s.updateFn(ctx, product)
}
func (s *productRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopProductRepo() *productRepoStub {
	return &productRepoStub{
		getByIDFn:     func(_ context.Context, id uint) (*models.Product, error) { return &models.Product{ID: id, Active: true}, nil },
		listByUserFn:  func(_ context.Context, _ uint) ([]models.Product, error) { return nil, nil },
		listByStoreFn: func(_ context.Context, _ uint, _ bool) ([]models.Product, error) { return nil, nil },
		createFn:      func(_ context.Context, _ *models.Product) error { return nil },
		updateFn:      func(_ context.Context, _ *models.Product) error { return nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
	}
}

// paymentLinkRepoStub is a stub for repository.PaymentLinkRepository.
type paymentLinkRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.PaymentLink, error)
	getBySlugFn  func(context.Context, string) (*models.PaymentLink, error)
	listByUserFn func(context.Context, uint) ([]models.PaymentLink, error)
	slugTakenFn  func(context.Context, string) (bool, error)
	createFn     func(context.Context, *models.PaymentLink) error
	updateFn     func(context.Context, *models.PaymentLink) error
	deleteFn     func(context.Context, *models.PaymentLink) error
}

func (s *paymentLinkRepoStub) GetByID(ctx context.Context, id uint) (*models.PaymentLink, error) {
	return s.getByIDFn(ctx, id)
}
func (s *paymentLinkRepoStub) GetBySlug(ctx context.Context, slug string) (*models.PaymentLink, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *paymentLinkRepoStub) ListByUser(ctx context.Context, userID uint) ([]models.PaymentLink, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *paymentLinkRepoStub) SlugTaken(ctx context.Context, slug string) (bool, error) {
	return s.slugTakenFn(ctx, slug)
}
func (s *paymentLinkRepoStub) Create(ctx context.Context, link *models.PaymentLink) error {
	return s.createFn(ctx, link)
}
func (s *paymentLinkRepoStub) Update(ctx context.Context, link *models.PaymentLink) error {
	return s.updateFn(ctx, link)
}
func (s *paymentLinkRepoStub) Delete(ctx context.Context, link *models.PaymentLink) error {
	return s.deleteFn(ctx, link)
}

func noopPaymentLinkRepo() *paymentLinkRepoStub {
	return &paymentLinkRepoStub{
		getByIDFn:    func(_ context.Context, id uint) (*models.PaymentLink, error) { return &models.PaymentLink{ID: id}, nil },
		getBySlugFn:  func(_ context.Context, _ string) (*models.PaymentLink, error) { return nil, nil },
		listByUserFn: func(_ context.Context, _ uint) ([]models.PaymentLink, error) { return nil, nil },
		slugTakenFn:  func(_ context.Context, _ string) (bool, error) { return false, nil },
		createFn:     func(_ context.Context, _ *models.PaymentLink) error { return nil },
		updateFn:     func(_ context.Context, _ *models.PaymentLink) error { return nil },
		deleteFn:     func(_ context.Context, _ *models.PaymentLink) error { return nil },
	}
}

// orderRepoStub is a stub for repository.OrderRepository.
type orderRepoStub struct {
	getByIDFn          func(context.Context, uint) (*models.Order, error)
	getByOrderNumberFn func(context.Context, string) (*models.Order, error)
	getByPaymentHashFn func(context.Context, string) (*models.Order, error)
	listByStoreFn      func(context.Context, uint, string, int, int) ([]models.Order, int64, error)
	createFn           func(context.Context, *models.Order) error
	updateFn           func(context.Context, *models.Order) error
}

func (s *orderRepoStub) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	return s.getByIDFn(ctx, id)
}
func (s *orderRepoStub) GetByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	return s.getByOrderNumberFn(ctx, orderNumber)
}
func (s *orderRepoStub) GetByPaymentHash(ctx context.Context, paymentHash string) (*models.Order, error) {
	return s.getByPaymentHashFn(ctx, paymentHash)
}
func (s *orderRepoStub) ListByStore(ctx context.Context, storeID uint, status string, limit, offset int) ([]models.Order, int64, error) {
	return s.listByStoreFn(ctx, storeID, status, limit, offset)
}
func (s *orderRepoStub) Create(ctx context.Context, order *models.Order) error {
	return s.createFn(ctx, order)
}
func (s *orderRepoStub) Update(ctx context.Context, order *models.Order) error {
	return s.updateFn(ctx, order)
}

func noopOrderRepo() *orderRepoStub {
	return &orderRepoStub{
		getByIDFn:          func(_ context.Context, id uint) (*models.Order, error) { return &models.Order{ID: id}, nil },
		getByOrderNumberFn: func(_ context.Context, _ string) (*models.Order, error) { return &models.Order{}, nil },
		getByPaymentHashFn: func(_ context.Context, _ string) (*models.Order, error) { return &models.Order{}, nil },
		listByStoreFn: func(_ context.Context, _ uint, _ string, _, _ int) ([]models.Order, int64, error) {
			return nil, 0, nil
		},
		createFn: func(_ context.Context, _ *models.Order) error { return nil },
		updateFn: func(_ context.Context, _ *models.Order) error { return nil },
	}
}

// purchaseRepoStub is a stub for repository.PurchaseRepository.
type purchaseRepoStub struct {
	getByIDFn             func(context.Context, uint) (*models.Purchase, error)
	getByPurchaseNumberFn func(context.Context, string) (*models.Purchase, error)
	listByPaymentLinkFn   func(context.Context, uint, int, int) ([]models.Purchase, int64, error)
	listByUserFn          func(context.Context, uint, int, int) ([]models.Purchase, int64, error)
	createFn              func(context.Context, *models.Purchase) error
}

func (s *purchaseRepoStub) GetByID(ctx context.Context, id uint) (*models.Purchase, error) {
	return s.getByIDFn(ctx, id)
}
func (s *purchaseRepoStub) GetByPurchaseNumber(ctx context.Context, purchaseNumber string) (*models.Purchase, error) {
	return s.getByPurchaseNumberFn(ctx, purchaseNumber)
}
func (s *purchaseRepoStub) ListByPaymentLink(ctx context.Context, paymentLinkID uint, limit, offset int) ([]models.Purchase, int64, error) {
	return s.listByPaymentLinkFn(ctx, paymentLinkID, limit, offset)
}
func (s *purchaseRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Purchase, int64, error) {
	return s.listByUserFn(ctx, userID, limit, offset)
}
func (s *purchaseRepoStub) Create(ctx context.Context, purchase *models.Purchase) error {
	return s.createFn(ctx, purchase)
}

func noopPurchaseRepo() *purchaseRepoStub {
	return &purchaseRepoStub{
		getByIDFn:             func(_ context.Context, id uint) (*models.Purchase, error) { return &models.Purchase{ID: id}, nil },
		getByPurchaseNumberFn: func(_ context.Context, _ string) (*models.Purchase, error) { return &models.Purchase{}, nil },
		listByPaymentLinkFn: func(_ context.Context, _ uint, _, _ int) ([]models.Purchase, int64, error) {
			return nil, 0, nil
		},
		listByUserFn: func(_ context.Context, _ uint, _, _ int) ([]models.Purchase, int64, error) {
			return nil, 0, nil
		},
		createFn: func(_ context.Context, _ *models.Purchase) error { return nil },
	}
}

// bioRepoStub is a stub for repository.LinkInBioRepository.
type bioRepoStub struct {
	getByUserIDFn  func(context.Context, uint) (*models.LinkInBio, error)
	getBySlugFn    func(context.Context, string) (*models.LinkInBio, error)
	slugTakenFn    func(context.Context, string) (bool, error)
	createFn       func(context.Context, *models.LinkInBio) error
	updateFn       func(context.Context, *models.LinkInBio) error
	replaceLinksFn func(context.Context, *models.LinkInBio, []models.BioLink) error
}

func (s *bioRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.LinkInBio, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *bioRepoStub) GetBySlug(ctx context.Context, slug string) (*models.LinkInBio, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *bioRepoStub) SlugTaken(ctx context.Context, slug string) (bool, error) {
	return s.slugTakenFn(ctx, slug)
}
func (s *bioRepoStub) Create(ctx context.Context, bio *models.LinkInBio) error {
	return s.createFn(ctx, bio)
}
func (s *bioRepoStub) Update(ctx context.Context, bio *models.LinkInBio) error {
	return s.updateFn(ctx, bio)
}
func (s *bioRepoStub) ReplaceLinks(ctx context.Context, bio *models.LinkInBio, links []models.BioLink) error {
	return s.replaceLinksFn(ctx, bio, links)
}

func noopBioRepo() *bioRepoStub {
	return &bioRepoStub{
		getByUserIDFn:  func(_ context.Context, _ uint) (*models.LinkInBio, error) { return nil, nil },
		getBySlugFn:    func(_ context.Context, _ string) (*models.LinkInBio, error) { return nil, nil },
		slugTakenFn:    func(_ context.Context, _ string) (bool, error) { return false, nil },
		createFn:       func(_ context.Context, _ *models.LinkInBio) error { return nil },
		updateFn:       func(_ context.Context, _ *models.LinkInBio) error { return nil },
		replaceLinksFn: func(_ context.Context, _ *models.LinkInBio, _ []models.BioLink) error { return nil },
	}
}

// mailerStub records which templates were dispatched.
type mailerStub struct {
	sent []string
}

func (m *mailerStub) SendBuyerConfirmation(_ context.Context, _ *models.Order) {
	m.sent = append(m.sent, "buyer_confirmation")
}
func (m *mailerStub) SendSellerNotification(_ context.Context, _ *models.Order, _ string) {
	m.sent = append(m.sent, "seller_notification")
}
func (m *mailerStub) SendPaymentReceived(_ context.Context, _ *models.Order) {
	m.sent = append(m.sent, "payment_received")
}
func (m *mailerStub) SendPurchaseConfirmation(_ context.Context, _ *models.Purchase, _ *models.PaymentLink) {
	m.sent = append(m.sent, "purchase_confirmation")
}
func (m *mailerStub) SendCreatorNotification(_ context.Context, _ *models.Purchase, _ *models.PaymentLink, _ string) {
	m.sent = append(m.sent, "creator_notification")
}
func (m *mailerStub) SendWelcome(_ context.Context, _ *models.User) {
	m.sent = append(m.sent, "welcome")
}

// notifierStub records order events.
type notifierStub struct {
	created     []*models.Order
	transitions []string
}

func (n *notifierStub) OrderCreated(_ context.Context, order *models.Order) {
	n.created = append(n.created, order)
}
func (n *notifierStub) OrderStatusChanged(_ context.Context, _ *models.Order, from string) {
	n.transitions = append(n.transitions, from)
}
