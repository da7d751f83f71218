package sandbox

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/qantani/qantani-go/sandbox/models"
)

var ErrUnknownBank = fmt.Errorf("unknown bank")

// idealBanks is the fixture set every sandbox instance advertises. Ids
// follow the provider's convention.
var idealBanks = []models.Bank{
	{Name: "ABN AMRO", ID: "ABN_AMRO"},
	{Name: "ASN Bank", ID: "ASN_BANK"},
	{Name: "ING", ID: "ING"},
	{Name: "Rabobank", ID: "RABOBANK"},
	{Name: "SNS Bank", ID: "SNS_BANK"},
	{Name: "Triodos Bank", ID: "TRIODOS_BANK"},
}

// Service implements the sandbox's provider behavior on top of a Repository.
type Service struct {
	repo *Repository
	cfg  *Config
}

func NewService(repo *Repository, cfg *Config) *Service {
	return &Service{
		repo: repo,
		cfg:  cfg,
	}
}

// Banks returns the iDeal banks the sandbox supports.
func (s *Service) Banks() []models.Bank {
	return idealBanks
}

// CreateTransaction opens a new payment awaiting completion at the bank.
func (s *Service) CreateTransaction(ctx context.Context, amountCents int64, bankID, description, returnURL string) (*models.Transaction, error) {
	if !knownBank(bankID) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBank, bankID)
	}

	tx := &models.Transaction{
		ID:          uuid.New().String(),
		Code:        generateTransactionCode(6),
		AmountCents: amountCents,
		Currency:    "EUR",
		BankID:      bankID,
		Description: description,
		ReturnURL:   returnURL,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}

	return tx, nil
}

// TransactionStatus looks a transaction up by ID and code. A wrong code
// behaves like an unknown transaction so codes cannot be probed.
func (s *Service) TransactionStatus(ctx context.Context, transactionID, transactionCode string) (*models.Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("finding transaction: %w", err)
	}
	if tx.Code != transactionCode {
		return nil, fmt.Errorf("finding transaction: %w", ErrNotFound)
	}
	return tx, nil
}

// MarkPaid settles a transaction with a fixture consumer, as if the payer
// had completed the bank flow.
func (s *Service) MarkPaid(ctx context.Context, transactionID string) (*models.Transaction, error) {
	tx, err := s.repo.MarkPaid(ctx, transactionID, "J. Doe", "NL13TEST0123456789")
	if err != nil {
		return nil, fmt.Errorf("settling transaction: %w", err)
	}
	return tx, nil
}

func knownBank(bankID string) bool {
	for _, b := range idealBanks {
		if b.ID == bankID {
			return true
		}
	}
	return false
}

func generateTransactionCode(length int) string {
	digits := make([]byte, length)
	for i := range digits {
		digits[i] = byte('0' + rand.Intn(10))
	}
	return string(digits)
}
