package service

import (
	"context"
	"log"
	"strings"

	"vendio/internal/models"
	"vendio/internal/repository"
	"vendio/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo repository.UserRepository
	stores   *StoreService
	bios     *LinkInBioService
	mailer   UserMailer
}

type SignupInput struct {
	Name          string `json:"name"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	WalletAddress string `json:"wallet_address"`
	// Password is optional; wallet-first accounts have none. When set it
	// enables the email+password signin used by the admin area.
	Password  string `json:"password"`
	StoreName string `json:"store_name"`
}

func NewAuthService(
	userRepo repository.UserRepository,
	stores *StoreService,
	bios *LinkInBioService,
	mailer UserMailer,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		stores:   stores,
		bios:     bios,
		mailer:   mailer,
	}
}

// Signup creates the account and provisions its store and link-in-bio page
// in one pass. Uniqueness of username, email and wallet is checked up
// front; the DB unique indexes catch the concurrent race.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.WalletAddress != "" {
		if err := validation.ValidateWalletAddress(in.WalletAddress); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}

	if existing, err := s.userRepo.GetByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("Username already taken")
	}
	if existing, err := s.userRepo.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("Email already registered")
	}

	wallet := validation.NormalizeWalletAddress(in.WalletAddress)
	if wallet != "" {
		if existing, err := s.userRepo.GetByWallet(ctx, wallet); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, models.NewConflictError("Wallet already registered")
		}
	}

	user := &models.User{
		Name:          strings.TrimSpace(in.Name),
		Username:      in.Username,
		Email:         in.Email,
		WalletAddress: wallet,
		Role:          models.RoleCreator,
	}
	if in.Password != "" {
		if len(in.Password) < 8 {
			return nil, models.NewValidationError("Password must be at least 8 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		user.Password = string(hash)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	storeName := strings.TrimSpace(in.StoreName)
	if storeName == "" {
		storeName = in.Username
	}
	if _, err := s.stores.CreateStoreForUser(ctx, user.ID, storeName); err != nil {
		s.rollbackSignup(ctx, user.ID)
		return nil, err
	}
	if _, err := s.bios.CreateBioForUser(ctx, user.ID, in.Username); err != nil {
		s.rollbackSignup(ctx, user.ID)
		return nil, err
	}

	if s.mailer != nil {
		s.mailer.SendWelcome(ctx, user)
	}
	return user, nil
}

// rollbackSignup removes a half-provisioned account so the username and
// email are free for a retry. Store and bio rows cascade, or never existed.
func (s *AuthService) rollbackSignup(ctx context.Context, userID uint) {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		log.Printf("signup rollback failed for user %d: %v", userID, err)
	}
}

// SigninByWallet resolves a wallet address to its account. Unknown wallets
// get a not-found, matching the client's signup-redirect behavior.
func (s *AuthService) SigninByWallet(ctx context.Context, wallet string) (*models.User, error) {
	if err := validation.ValidateWalletAddress(wallet); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	user, err := s.userRepo.GetByWallet(ctx, validation.NormalizeWalletAddress(wallet))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", wallet)
	}
	return user, nil
}

// SigninByEmail verifies an email+password pair. Accounts without a stored
// password cannot sign in this way.
func (s *AuthService) SigninByEmail(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", email)
	}
	if user.Password == "" {
		return nil, models.NewUnauthorizedError("Password signin is not enabled for this account")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}
