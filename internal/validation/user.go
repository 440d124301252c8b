package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	walletRegex   = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
)

// ValidateUsername enforces the allowed username character set and length.
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return fmt.Errorf("username must be at least 3 characters")
	}
	if len(username) > 30 {
		return fmt.Errorf("username must not exceed 30 characters")
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username may contain only letters, numbers, and underscores")
	}
	return nil
}

// ValidateEmail checks email address format.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email must not be empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ValidateWalletAddress checks EVM wallet address format.
func ValidateWalletAddress(addr string) error {
	if !walletRegex.MatchString(addr) {
		return fmt.Errorf("invalid wallet address")
	}
	return nil
}

// NormalizeWalletAddress lowercases a wallet address for storage and lookup.
func NormalizeWalletAddress(addr string) string {
	return strings.ToLower(addr)
}
