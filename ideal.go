package qantani

import (
	"context"
	"fmt"
	"net/url"

	"github.com/qantani/qantani-go/internal/amount"
	"github.com/qantani/qantani-go/internal/checksum"
	"github.com/qantani/qantani-go/models"
)

const (
	commandGetBanks = "IDEAL.GETBANKS"
	commandExecute  = "IDEAL.EXECUTE"
	commandStatus   = "TRANSACTIONSTATUS"
)

// iDeal settles in euros only; the provider rejects anything else.
const currencyEUR = "EUR"

// GetIdealBanks returns the banks currently available for iDeal payments, in
// the provider's order.
func (c *Client) GetIdealBanks(ctx context.Context) ([]models.Bank, error) {
	resp, err := c.do(ctx, commandGetBanks, nil)
	if err != nil {
		return nil, err
	}

	return resp.Banks, nil
}

// CreateIdealTransaction initiates an iDeal payment of amt euros via the
// given bank. The consumer completes the payment at the returned BankURL and
// is sent back to returnURL afterwards; keep TransactionID and Code around
// for status checks.
func (c *Client) CreateIdealTransaction(ctx context.Context, amt float64, bankID, description, returnURL string) (*models.Transaction, error) {
	cents, err := amount.FromFloat(amt)
	if err != nil {
		return nil, &ValidationError{Field: "amount", Reason: err.Error()}
	}
	if bankID == "" {
		return nil, &ValidationError{Field: "bank", Reason: "bank id is required"}
	}
	if err := validateReturnURL(returnURL); err != nil {
		return nil, &ValidationError{Field: "return url", Reason: err.Error()}
	}

	resp, err := c.do(ctx, commandExecute, map[string]string{
		"Amount":      amount.Format(cents),
		"Currency":    currencyEUR,
		"Bank":        bankID,
		"Description": description,
		"Return":      returnURL,
	})
	if err != nil {
		return nil, err
	}
	if resp.Transaction == nil {
		return nil, &RemoteError{Message: "response carries no transaction"}
	}

	return resp.Transaction, nil
}

// CheckTransactionStatus reports the current state of any transaction.
func (c *Client) CheckTransactionStatus(ctx context.Context, transactionID, transactionCode string) (*models.TransactionStatus, error) {
	if transactionID == "" {
		return nil, &ValidationError{Field: "transaction id", Reason: "transaction id is required"}
	}
	if transactionCode == "" {
		return nil, &ValidationError{Field: "transaction code", Reason: "transaction code is required"}
	}

	resp, err := c.do(ctx, commandStatus, map[string]string{
		"TransactionID":   transactionID,
		"TransactionCode": transactionCode,
	})
	if err != nil {
		return nil, err
	}
	if resp.TransactionStatus == nil {
		return nil, &RemoteError{Message: "response carries no transaction"}
	}

	return resp.TransactionStatus, nil
}

// ValidateTransactionChecksum verifies the checksum the provider appends to
// the return URL after a payment.
func ValidateTransactionChecksum(sum, transactionID, transactionCode, status, salt string) bool {
	return checksum.Verify(sum, checksum.Transaction(transactionID, transactionCode, status, salt))
}

func validateReturnURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return fmt.Errorf("return url must be an absolute URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("return url must use http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("return url must have a host")
	}
	return nil
}
