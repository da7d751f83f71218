package sandbox_test

import (
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/qantani/qantani-go/internal/checksum"
	"github.com/qantani/qantani-go/sandbox"
)

// receivedResponse decodes the XML documents the sandbox writes back.
type receivedResponse struct {
	Status string `xml:"Status"`
	Error  struct {
		ID          string `xml:"ID"`
		Description string `xml:"Description"`
	} `xml:"Error"`
	Banks []struct {
		Name string `xml:"Name"`
		Id   string `xml:"Id"`
	} `xml:"Banks>Bank"`
	Result struct {
		Status        string `xml:"Status"`
		BankURL       string `xml:"BankURL"`
		Code          string `xml:"Code"`
		TransactionID string `xml:"TransactionID"`
		Acquirer      string `xml:"Acquirer"`
	} `xml:"Response"`
	Transaction struct {
		ID         string `xml:"ID"`
		Paid       string `xml:"Paid"`
		Definitive string `xml:"Definitive"`
	} `xml:"Transaction"`
}

func newTestRouter(t *testing.T) (chi.Router, *sandbox.Config) {
	t.Helper()

	cfg := sandbox.DefaultConfig()
	api := sandbox.NewAPI(sandbox.NewService(sandbox.NewRepository(), cfg), cfg)

	router := chi.NewRouter()
	api.AppendRoutes(router)

	return router, cfg
}

// postCommand builds the provider envelope for the given action, signs it
// with secret, and posts it the way the client library does.
func postCommand(t *testing.T, router chi.Router, cfg *sandbox.Config, action, secret string, params map[string]string) receivedResponse {
	t.Helper()

	doc := strings.Builder{}
	doc.WriteString(xml.Header)
	doc.WriteString("<Transaction><Action><Name>" + action + "</Name><Version>1</Version></Action>")
	if len(params) > 0 {
		doc.WriteString("<Parameters>")
		for k, v := range params {
			doc.WriteString("<" + k + ">")
			xml.EscapeText(&doc, []byte(v))
			doc.WriteString("</" + k + ">")
		}
		doc.WriteString("</Parameters>")
	}
	doc.WriteString("<Merchant><ID>" + cfg.MerchantID + "</ID><Key>" + cfg.MerchantKey + "</Key><Checksum>")
	doc.WriteString(checksum.Sign(params, secret))
	doc.WriteString("</Checksum></Merchant></Transaction>")

	form := url.Values{}
	form.Set("data", doc.String())

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	resp := receivedResponse{}
	require.NoError(t, xml.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetBanks(t *testing.T) {
	router, cfg := newTestRouter(t)

	resp := postCommand(t, router, cfg, "IDEAL.GETBANKS", cfg.MerchantSecret, nil)
	require.Equal(t, "OK", resp.Status)
	require.NotEmpty(t, resp.Banks)
	require.Equal(t, "ABN AMRO", resp.Banks[0].Name)
	require.Equal(t, "ABN_AMRO", resp.Banks[0].Id)
}

func TestExecuteTransaction(t *testing.T) {
	router, cfg := newTestRouter(t)

	resp := postCommand(t, router, cfg, "IDEAL.EXECUTE", cfg.MerchantSecret, map[string]string{
		"Amount":      "42.42",
		"Currency":    "EUR",
		"Bank":        "ASN_BANK",
		"Description": "Test payment",
		"Return":      "http://myreturnurl",
	})
	require.Equal(t, "OK", resp.Status)
	require.Equal(t, "OK", resp.Result.Status)
	require.NotEmpty(t, resp.Result.TransactionID)
	require.NotEmpty(t, resp.Result.Code)
	require.Contains(t, resp.Result.BankURL, "/gotobank.php?")
	require.Equal(t, "A", resp.Result.Acquirer)
}

func TestExecuteTransaction_Rejections(t *testing.T) {
	router, cfg := newTestRouter(t)

	base := map[string]string{
		"Amount":      "42.42",
		"Currency":    "EUR",
		"Bank":        "ASN_BANK",
		"Description": "Test payment",
		"Return":      "http://myreturnurl",
	}

	tests := []struct {
		name     string
		override map[string]string
		wantID   string
	}{
		{name: "bad amount", override: map[string]string{"Amount": "abc"}, wantID: "12"},
		{name: "bad currency", override: map[string]string{"Currency": "USD"}, wantID: "13"},
		{name: "unknown bank", override: map[string]string{"Bank": "NO_SUCH_BANK"}, wantID: "14"},
		{name: "missing return", override: map[string]string{"Return": ""}, wantID: "12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := make(map[string]string, len(base))
			for k, v := range base {
				params[k] = v
			}
			for k, v := range tt.override {
				params[k] = v
			}

			resp := postCommand(t, router, cfg, "IDEAL.EXECUTE", cfg.MerchantSecret, params)
			require.Equal(t, "NOK", resp.Status)
			require.Equal(t, tt.wantID, resp.Error.ID)
		})
	}
}

func TestAuthentication(t *testing.T) {
	router, cfg := newTestRouter(t)

	t.Run("wrong secret", func(t *testing.T) {
		resp := postCommand(t, router, cfg, "IDEAL.GETBANKS", "wrong-secret", nil)
		require.Equal(t, "NOK", resp.Status)
		require.Equal(t, "invalid checksum", resp.Error.Description)
	})

	t.Run("unknown merchant", func(t *testing.T) {
		other := *cfg
		other.MerchantID = "999"
		resp := postCommand(t, router, &other, "IDEAL.GETBANKS", cfg.MerchantSecret, nil)
		require.Equal(t, "NOK", resp.Status)
		require.Equal(t, "unknown merchant", resp.Error.Description)
	})

	t.Run("unknown action", func(t *testing.T) {
		resp := postCommand(t, router, cfg, "IDEAL.REFUND", cfg.MerchantSecret, nil)
		require.Equal(t, "NOK", resp.Status)
		require.Equal(t, "11", resp.Error.ID)
	})
}

func TestTransactionStatusFlow(t *testing.T) {
	router, cfg := newTestRouter(t)

	created := postCommand(t, router, cfg, "IDEAL.EXECUTE", cfg.MerchantSecret, map[string]string{
		"Amount":      "10.00",
		"Currency":    "EUR",
		"Bank":        "ING",
		"Description": "Test payment",
		"Return":      "http://myreturnurl",
	})
	require.Equal(t, "OK", created.Status)

	status := postCommand(t, router, cfg, "TRANSACTIONSTATUS", cfg.MerchantSecret, map[string]string{
		"TransactionID":   created.Result.TransactionID,
		"TransactionCode": created.Result.Code,
	})
	require.Equal(t, "OK", status.Status)
	require.Equal(t, created.Result.TransactionID, status.Transaction.ID)
	require.Equal(t, "N", status.Transaction.Paid)

	t.Run("wrong code looks like unknown transaction", func(t *testing.T) {
		resp := postCommand(t, router, cfg, "TRANSACTIONSTATUS", cfg.MerchantSecret, map[string]string{
			"TransactionID":   created.Result.TransactionID,
			"TransactionCode": "000000",
		})
		require.Equal(t, "NOK", resp.Status)
		require.Equal(t, "30", resp.Error.ID)
	})
}
