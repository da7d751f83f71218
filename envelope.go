package qantani

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/qantani/qantani-go/internal/checksum"
	"github.com/qantani/qantani-go/models"
	"golang.org/x/exp/slog"
)

const (
	actionVersion = "1"
	statusOK      = "OK"
)

// requestEnvelope is the XML document posted to the provider in the "data"
// form field.
type requestEnvelope struct {
	XMLName    xml.Name        `xml:"Transaction"`
	Action     requestAction   `xml:"Action"`
	Parameters *requestParams  `xml:"Parameters,omitempty"`
	Merchant   requestMerchant `xml:"Merchant"`
}

type requestAction struct {
	Name    string `xml:"Name"`
	Version string `xml:"Version"`
}

type requestParams struct {
	Items []paramElement `xml:",any"`
}

// paramElement renders one parameter as an element named after its key.
type paramElement struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type requestMerchant struct {
	ID       string `xml:"ID"`
	Key      string `xml:"Key"`
	Checksum string `xml:"Checksum"`
}

// apiResponse covers every payload the provider returns; only the fields for
// the issued command are populated.
type apiResponse struct {
	Status            string                    `xml:"Status"`
	Error             responseError             `xml:"Error"`
	Banks             []models.Bank             `xml:"Banks>Bank"`
	Transaction       *models.Transaction       `xml:"Response"`
	TransactionStatus *models.TransactionStatus `xml:"Transaction"`
}

type responseError struct {
	ID          string `xml:"ID"`
	Description string `xml:"Description"`
}

func (c *Client) newEnvelope(command string, params map[string]string) requestEnvelope {
	env := requestEnvelope{
		Action: requestAction{Name: command, Version: actionVersion},
		Merchant: requestMerchant{
			ID:       c.merchantID,
			Key:      c.merchantKey,
			Checksum: checksum.Sign(params, c.merchantSecret),
		},
	}

	if len(params) > 0 {
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		items := make([]paramElement, 0, len(params))
		for _, k := range keys {
			items = append(items, paramElement{XMLName: xml.Name{Local: k}, Value: params[k]})
		}
		env.Parameters = &requestParams{Items: items}
	}

	return env
}

// do sends a signed command to the provider and returns the decoded response
// after the top-level Status check.
func (c *Client) do(ctx context.Context, command string, params map[string]string) (*apiResponse, error) {
	payload, err := xml.Marshal(c.newEnvelope(command, params))
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	form := url.Values{}
	form.Set("data", xml.Header+string(payload))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	c.logger.Debug("sending command", slog.String("command", command))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RemoteError{Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Message: "reading response: " + err.Error()}
	}

	if resp.StatusCode/100 != 2 {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	apiResp := &apiResponse{}
	if err := xml.Unmarshal(body, apiResp); err != nil {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Message: "broken XML in response: " + err.Error()}
	}

	if apiResp.Status == "" {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Message: "response carries no Status"}
	}
	if apiResp.Status != statusOK {
		message := apiResp.Error.Description
		if message == "" {
			message = "provider reported status " + apiResp.Status
		}
		return nil, &RemoteError{StatusCode: resp.StatusCode, Message: message}
	}

	return apiResp, nil
}
