package sandbox

import (
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/qantani/qantani-go/internal/amount"
	"github.com/qantani/qantani-go/internal/checksum"
	"github.com/qantani/qantani-go/sandbox/models"
)

// API speaks the provider's protocol: a form-encoded POST whose "data" field
// carries an XML envelope, answered with an XML document.
type API struct {
	service *Service
	cfg     *Config
}

func NewAPI(service *Service, cfg *Config) *API {
	return &API{
		service: service,
		cfg:     cfg,
	}
}

func (a *API) AppendRoutes(r chi.Router) {
	r.Post("/", a.handleCommand)
	r.Get("/gotobank.php", a.gotoBank)
}

// commandEnvelope mirrors the client's request document.
type commandEnvelope struct {
	XMLName    xml.Name        `xml:"Transaction"`
	Action     commandAction   `xml:"Action"`
	Parameters commandParams   `xml:"Parameters"`
	Merchant   commandMerchant `xml:"Merchant"`
}

type commandAction struct {
	Name    string `xml:"Name"`
	Version string `xml:"Version"`
}

type commandParams struct {
	Items []commandParam `xml:",any"`
}

type commandParam struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type commandMerchant struct {
	ID       string `xml:"ID"`
	Key      string `xml:"Key"`
	Checksum string `xml:"Checksum"`
}

// response is the XML document written back for every command.
type response struct {
	XMLName     xml.Name         `xml:"Response"`
	Status      string           `xml:"Status"`
	Error       *respError       `xml:"Error,omitempty"`
	Banks       *respBanks       `xml:"Banks,omitempty"`
	Result      *respTransaction `xml:"Response,omitempty"`
	Transaction *respStatus      `xml:"Transaction,omitempty"`
}

type respError struct {
	ID          string `xml:"ID"`
	Description string `xml:"Description"`
}

type respBanks struct {
	Banks []respBank `xml:"Bank"`
}

type respBank struct {
	Name string `xml:"Name"`
	Id   string `xml:"Id"`
}

type respTransaction struct {
	Status        string `xml:"Status"`
	BankURL       string `xml:"BankURL"`
	Code          string `xml:"Code"`
	TransactionID string `xml:"TransactionID"`
	Acquirer      string `xml:"Acquirer"`
}

type respStatus struct {
	Date        string       `xml:"Date"`
	ID          string       `xml:"ID"`
	Paid        string       `xml:"Paid"`
	Definitive  string       `xml:"Definitive"`
	Consumer    respConsumer `xml:"Consumer"`
	MerchantID  string       `xml:"MerchantID"`
	CurrentDate string       `xml:"CurrentDate"`
}

type respConsumer struct {
	Name string `xml:"Name"`
	IBAN string `xml:"IBAN"`
	Bank string `xml:"Bank"`
}

const dateLayout = "2006-01-02 15:04"

func (a *API) handleCommand(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.writeError(w, "10", "malformed form body")
		return
	}
	data := r.PostFormValue("data")
	if data == "" {
		a.writeError(w, "10", "missing data field")
		return
	}

	env := commandEnvelope{}
	if err := xml.Unmarshal([]byte(data), &env); err != nil {
		a.writeError(w, "10", "malformed XML")
		return
	}

	params := make(map[string]string, len(env.Parameters.Items))
	for _, p := range env.Parameters.Items {
		params[p.XMLName.Local] = p.Value
	}

	if env.Merchant.ID != a.cfg.MerchantID || env.Merchant.Key != a.cfg.MerchantKey {
		a.writeError(w, "20", "unknown merchant")
		return
	}
	if !checksum.Verify(env.Merchant.Checksum, checksum.Sign(params, a.cfg.MerchantSecret)) {
		a.writeError(w, "21", "invalid checksum")
		return
	}

	switch env.Action.Name {
	case "IDEAL.GETBANKS":
		a.getBanks(w)
	case "IDEAL.EXECUTE":
		a.executeTransaction(w, r, params)
	case "TRANSACTIONSTATUS":
		a.transactionStatus(w, r, params)
	default:
		a.writeError(w, "11", "unknown action "+env.Action.Name)
	}
}

func (a *API) getBanks(w http.ResponseWriter) {
	banks := a.service.Banks()

	out := make([]respBank, 0, len(banks))
	for _, b := range banks {
		out = append(out, respBank{Name: b.Name, Id: b.ID})
	}

	a.writeResponse(w, &response{
		Status: "OK",
		Banks:  &respBanks{Banks: out},
	})
}

func (a *API) executeTransaction(w http.ResponseWriter, r *http.Request, params map[string]string) {
	cents, err := amount.Parse(params["Amount"])
	if err != nil {
		a.writeError(w, "12", "invalid amount")
		return
	}
	if params["Currency"] != "EUR" {
		a.writeError(w, "13", "unsupported currency")
		return
	}
	if params["Return"] == "" {
		a.writeError(w, "12", "missing return url")
		return
	}

	tx, err := a.service.CreateTransaction(r.Context(), cents, params["Bank"], params["Description"], params["Return"])
	if err != nil {
		if errors.Is(err, ErrUnknownBank) {
			a.writeError(w, "14", "unknown bank")
			return
		}
		a.writeError(w, "50", "internal error")
		return
	}

	a.writeResponse(w, &response{
		Status: "OK",
		Result: &respTransaction{
			Status:        "OK",
			BankURL:       a.bankURL(r, tx),
			Code:          tx.Code,
			TransactionID: tx.ID,
			Acquirer:      "A",
		},
	})
}

func (a *API) transactionStatus(w http.ResponseWriter, r *http.Request, params map[string]string) {
	tx, err := a.service.TransactionStatus(r.Context(), params["TransactionID"], params["TransactionCode"])
	if err != nil {
		a.writeError(w, "30", "unknown transaction")
		return
	}

	status := &respStatus{
		Date:        tx.CreatedAt.Format(dateLayout),
		ID:          tx.ID,
		Paid:        yesNo(tx.Paid),
		Definitive:  yesNo(tx.Definitive),
		MerchantID:  a.cfg.MerchantID,
		CurrentDate: time.Now().Format(dateLayout),
	}
	if tx.Paid {
		status.Consumer = respConsumer{
			Name: tx.ConsumerName,
			IBAN: tx.ConsumerIBAN,
			Bank: tx.BankID,
		}
	}

	a.writeResponse(w, &response{
		Status:      "OK",
		Transaction: status,
	})
}

// gotoBank is where BankURL points; a stand-in for the consumer's bank page.
func (a *API) gotoBank(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	token := r.URL.Query().Get("token")

	tx, err := a.service.TransactionStatus(r.Context(), id, token)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<html><body>Sandbox bank page for transaction %s (%s EUR). POST /dev/transactions/%s/pay to settle it.</body></html>",
		tx.ID, amount.Format(tx.AmountCents), tx.ID)
}

func (a *API) bankURL(r *http.Request, tx *models.Transaction) string {
	base := a.cfg.BaseURL
	if base == "" {
		base = "http://" + r.Host
	}

	q := url.Values{}
	q.Set("id", tx.ID)
	q.Set("token", tx.Code)
	return base + "/gotobank.php?" + q.Encode()
}

func (a *API) writeError(w http.ResponseWriter, id, description string) {
	a.writeResponse(w, &response{
		Status: "NOK",
		Error:  &respError{ID: id, Description: description},
	})
}

func (a *API) writeResponse(w http.ResponseWriter, resp *response) {
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(xml.Header))
	xml.NewEncoder(w).Encode(resp)
}

func yesNo(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}
