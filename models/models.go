package models

// Bank is one entry of the iDeal bank list. XML tags follow the provider's
// field names exactly.
type Bank struct {
	Name string `xml:"Name"`
	ID   string `xml:"Id"`
}

// Transaction is the result of initiating an iDeal payment. The consumer
// finishes the payment at BankURL; Code is needed for later status checks.
type Transaction struct {
	Status        string `xml:"Status"`
	BankURL       string `xml:"BankURL"`
	Code          string `xml:"Code"`
	TransactionID string `xml:"TransactionID"`
	Acquirer      string `xml:"Acquirer"`
}

// Consumer holds the payer details reported once a transaction is paid.
type Consumer struct {
	Name string `xml:"Name"`
	IBAN string `xml:"IBAN"`
	Bank string `xml:"Bank"`
}

// TransactionStatus is the provider's view of a transaction. Paid and
// Definitive are "Y" or "N"; dates are "YYYY-MM-DD HH:MM" strings.
type TransactionStatus struct {
	Date        string   `xml:"Date"`
	ID          string   `xml:"ID"`
	Paid        string   `xml:"Paid"`
	Definitive  string   `xml:"Definitive"`
	Consumer    Consumer `xml:"Consumer"`
	MerchantID  string   `xml:"MerchantID"`
	CurrentDate string   `xml:"CurrentDate"`
}
