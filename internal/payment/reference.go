package payment

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/skylight-sports/storefront/internal/handoff"
	pkgerrors "github.com/skylight-sports/storefront/pkg/errors"
)

// TerminalSource keeps the original behavior: show the transaction id
// and amount, then ask the user to type the external payment reference.
type TerminalSource struct {
	In  io.Reader
	Out io.Writer
}

func (t *TerminalSource) PaymentReference(_ context.Context, info handoff.PaymentInfo) (string, error) {
	out := t.Out
	if out == nil {
		return "", errors.New("terminal output is required")
	}
	fmt.Fprintln(out, "--- Payment Gateway (simulated) ---")
	fmt.Fprintf(out, "Transaction ID: %s\n", info.TransactionID)
	fmt.Fprintf(out, "Amount to pay:  %s\n", info.Amount.StringFixed(2))
	fmt.Fprint(out, "Enter payment reference/receipt number: ")

	scanner := bufio.NewScanner(t.In)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read payment reference")
		}
		return "", pkgerrors.New(pkgerrors.CodeValidation, "payment reference is required")
	}
	return strings.TrimSpace(scanner.Text()), nil
}

// GatewaySource asks the simulated processor service for a reference,
// the stand-in for redirecting the user to a real gateway.
type GatewaySource struct {
	httpClient *http.Client
	baseURL    string
}

func NewGatewaySource(baseURL string, httpClient *http.Client) (*GatewaySource, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("gateway base url is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &GatewaySource{httpClient: httpClient, baseURL: trimmed}, nil
}

func (g *GatewaySource) PaymentReference(ctx context.Context, info handoff.PaymentInfo) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"transaction_id": info.TransactionID,
		"amount":         info.Amount.InexactFloat64(),
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode gateway request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/references", bytes.NewReader(payload))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build gateway request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reach payment gateway")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("gateway rejected reference request: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))))
	}

	var body struct {
		Reference string `json:"reference"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode gateway response")
	}
	return body.Reference, nil
}
