package models

import "time"

// Bank is an iDeal bank the sandbox advertises.
type Bank struct {
	Name string
	ID   string
}

// Transaction is a payment held by the sandbox.
type Transaction struct {
	ID          string
	Code        string
	AmountCents int64
	Currency    string
	BankID      string
	Description string
	ReturnURL   string

	Paid       bool
	Definitive bool
	// Consumer details are filled in once the transaction is paid.
	ConsumerName string
	ConsumerIBAN string

	CreatedAt time.Time
}
