package services

import (
	"fmt"
	"strings"

	"github.com/bingolaperla/perla-backend/apperrors"
	"github.com/bingolaperla/perla-backend/models"
	"github.com/bingolaperla/perla-backend/utils/logger"

	"github.com/google/uuid"
)

// WalletService is the Perlas ledger. Every balance change goes through
// AdjustBalance so each movement has a transaction row with BalanceAfter.
type WalletService struct {
	provider GameProvider
}

func NewWalletService(provider GameProvider) *WalletService {
	return &WalletService{provider: provider}
}

// RequestDeposit opens a pending deposit awaiting the payment gateway
// webhook. Funds are credited only when the webhook confirms the charge.
func (s *WalletService) RequestDeposit(userID uint, amount float64) (*models.Deposit, error) {
	if amount <= 0 {
		return nil, apperrors.Validationf("amount must be positive")
	}
	if _, err := s.provider.GetUser(userID); err != nil {
		return nil, err
	}

	dep := &models.Deposit{
		UserID:    userID,
		Amount:    amount,
		Status:    models.PaymentPending,
		Reference: uuid.NewString(),
	}
	if err := s.provider.CreateDeposit(dep); err != nil {
		return nil, err
	}
	logger.Infof("deposit %s opened for user %d: %.2f", dep.Reference, userID, amount)
	return dep, nil
}

// RequestWithdrawal debits the Perlas immediately and opens a pending
// payout; a failed payout webhook refunds it.
func (s *WalletService) RequestWithdrawal(userID uint, amount float64, bankAccount string) (*models.Withdrawal, error) {
	if amount <= 0 {
		return nil, apperrors.Validationf("amount must be positive")
	}
	if bankAccount == "" {
		return nil, apperrors.Validationf("bank account is required")
	}

	wd := &models.Withdrawal{
		UserID:      userID,
		Amount:      amount,
		Status:      models.PaymentPending,
		Reference:   uuid.NewString(),
		BankAccount: maskAccount(bankAccount),
	}

	if _, err := s.provider.AdjustBalance(userID, -amount, models.WithdrawalTransaction, wd.Reference,
		fmt.Sprintf("withdrawal of %.2f Perlas", amount)); err != nil {
		return nil, err
	}
	if err := s.provider.CreateWithdrawal(wd); err != nil {
		return nil, err
	}
	logger.Infof("withdrawal %s opened for user %d: %.2f", wd.Reference, userID, amount)
	return wd, nil
}

// Transactions returns a user's ledger history, newest first.
func (s *WalletService) Transactions(userID uint) ([]models.Transaction, error) {
	if _, err := s.provider.GetUser(userID); err != nil {
		return nil, err
	}
	return s.provider.Transactions(userID)
}

// maskAccount keeps only the last four characters.
func maskAccount(account string) string {
	if len(account) <= 4 {
		return account
	}
	return strings.Repeat("*", len(account)-4) + account[len(account)-4:]
}
