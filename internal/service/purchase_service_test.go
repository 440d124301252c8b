package service

import (
	"context"
	"strings"
	"testing"

	"vendio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeLink() *models.PaymentLink {
	return &models.PaymentLink{
		ID:        5,
		UserID:    7,
		Title:     "Coffee",
		Slug:      "coffee",
		Price:     3.5,
		Currency:  "USDC",
		AllowTips: true,
		Active:    true,
	}
}

func newPurchaseService(link *models.PaymentLink, purchaseRepo *purchaseRepoStub, mailer *mailerStub) *PurchaseService {
	linkRepo := noopPaymentLinkRepo()
	linkRepo.getBySlugFn = func(_ context.Context, slug string) (*models.PaymentLink, error) {
		if link != nil && link.Slug == slug {
			return link, nil
		}
		return nil, models.NewNotFoundError("Payment link", slug)
	}
	var m OrderMailer
	if mailer != nil {
		m = mailer
	}
	return NewPurchaseService(purchaseRepo, linkRepo, noopUserRepo(), m)
}

func TestPurchaseService_CreatePurchase(t *testing.T) {
	ctx := context.Background()

	t.Run("Completed With Tip", func(t *testing.T) {
		var created *models.Purchase
		purchaseRepo := noopPurchaseRepo()
		purchaseRepo.createFn = func(_ context.Context, p *models.Purchase) error {
			created = p
			return nil
		}
		mailer := &mailerStub{}
		svc := newPurchaseService(activeLink(), purchaseRepo, mailer)

		purchase, err := svc.CreatePurchase(ctx, CreatePurchaseInput{
			Slug:        "coffee",
			Buyer:       BuyerInput{Name: "Bob", Email: "bob@example.com"},
			TipAmount:   1.5,
			PaymentHash: "0xfeed",
		})
		require.NoError(t, err)
		require.NotNil(t, created)

		assert.Equal(t, models.OrderStatusCompleted, purchase.Status)
		assert.InDelta(t, 3.5, purchase.Amount, 1e-9)
		assert.InDelta(t, 1.5, purchase.TipAmount, 1e-9)
		assert.True(t, strings.HasPrefix(purchase.PurchaseNumber, "PUR-"))
		assert.Contains(t, mailer.sent, "purchase_confirmation")
	})

	t.Run("Tip Dropped When Not Allowed", func(t *testing.T) {
		link := activeLink()
		link.AllowTips = false
		svc := newPurchaseService(link, noopPurchaseRepo(), nil)

		purchase, err := svc.CreatePurchase(ctx, CreatePurchaseInput{
			Slug:      "coffee",
			Buyer:     BuyerInput{Name: "Bob", Email: "bob@example.com"},
			TipAmount: 5,
		})
		require.NoError(t, err)
		assert.Zero(t, purchase.TipAmount)
	})

	t.Run("Negative Tip Rejected", func(t *testing.T) {
		svc := newPurchaseService(activeLink(), noopPurchaseRepo(), nil)
		_, err := svc.CreatePurchase(ctx, CreatePurchaseInput{
			Slug:      "coffee",
			Buyer:     BuyerInput{Name: "Bob", Email: "bob@example.com"},
			TipAmount: -1,
		})
		assert.Error(t, err)
	})

	t.Run("Inactive Link Not Found", func(t *testing.T) {
		link := activeLink()
		link.Active = false
		svc := newPurchaseService(link, noopPurchaseRepo(), nil)

		_, err := svc.CreatePurchase(ctx, CreatePurchaseInput{
			Slug:  "coffee",
			Buyer: BuyerInput{Name: "Bob", Email: "bob@example.com"},
		})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})

	t.Run("Email Failure Does Not Fail Purchase", func(t *testing.T) {
		// The mailer interface has no error return; sends cannot fail the
		// request by construction. This asserts the purchase still lands
		// when no mailer is wired at all.
		svc := newPurchaseService(activeLink(), noopPurchaseRepo(), nil)
		_, err := svc.CreatePurchase(ctx, CreatePurchaseInput{
			Slug:  "coffee",
			Buyer: BuyerInput{Name: "Bob", Email: "bob@example.com"},
		})
		assert.NoError(t, err)
	})
}

func TestPurchaseService_ListLinkPurchases_OwnershipCheck(t *testing.T) {
	linkRepo := noopPaymentLinkRepo()
	linkRepo.getByIDFn = func(_ context.Context, id uint) (*models.PaymentLink, error) {
		return &models.PaymentLink{ID: id, UserID: 7}, nil
	}
	svc := NewPurchaseService(noopPurchaseRepo(), linkRepo, noopUserRepo(), nil)

	_, _, err := svc.ListLinkPurchases(context.Background(), 8, 5, 20, 0)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
}
