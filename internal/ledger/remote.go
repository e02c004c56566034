package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xrpstat/gwstat/internal/domain"
)

// RemoteSource is a Source backed by the JSON-RPC API of a ledger node, with
// exponential-backoff retry on 429.
type RemoteSource struct {
	endpoint   string
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
	pageLimit  int
}

// NewRemoteSource creates a client for a node's HTTP JSON-RPC endpoint.
func NewRemoteSource(endpoint string, maxRetries int, baseDelay time.Duration) *RemoteSource {
	return &RemoteSource{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		pageLimit:  400,
	}
}

type rpcRequest struct {
	Method string `json:"method"`
	Params []any  `json:"params"`
}

type rpcResult struct {
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`

	LedgerIndex uint32          `json:"ledger_index"`
	Lines       []lineRecord    `json:"lines"`
	Marker      json.RawMessage `json:"marker,omitempty"`
}

type rpcResponse struct {
	Result rpcResult `json:"result"`
}

type lineRecord struct {
	Account  string `json:"account"`
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

// call performs one JSON-RPC request with retry on 429.
func (s *RemoteSource) call(ctx context.Context, method string, params map[string]any) (rpcResult, error) {
	body, err := json.Marshal(rpcRequest{Method: method, Params: []any{params}})
	if err != nil {
		return rpcResult{}, fmt.Errorf("encoding %s request: %w", method, err)
	}

	var lastErr error
	for attempt := range s.maxRetries + 1 {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
		if err != nil {
			return rpcResult{}, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return rpcResult{}, fmt.Errorf("executing %s: %w", method, err)
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return rpcResult{}, fmt.Errorf("reading %s response: %w", method, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("HTTP 429 from %s (attempt %d/%d)", s.endpoint, attempt+1, s.maxRetries+1)
			if attempt < s.maxRetries {
				delay := s.baseDelay * time.Duration(1<<uint(attempt))
				select {
				case <-ctx.Done():
					return rpcResult{}, ctx.Err()
				case <-time.After(delay):
				}
				continue
			}
			return rpcResult{}, lastErr
		}

		if resp.StatusCode != http.StatusOK {
			return rpcResult{}, fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, s.endpoint, respBody)
		}

		var parsed rpcResponse
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return rpcResult{}, fmt.Errorf("parsing %s response: %w", method, err)
		}
		if parsed.Result.Status == "error" {
			return rpcResult{}, nodeError(parsed.Result)
		}
		return parsed.Result, nil
	}

	return rpcResult{}, lastErr
}

// nodeError maps node error codes onto this package's sentinel errors.
func nodeError(res rpcResult) error {
	switch res.Error {
	case "lgrNotFound":
		return fmt.Errorf("%w: %s", ErrLedgerNotFound, res.ErrorMessage)
	case "actNotFound":
		return fmt.Errorf("%w: %s", ErrAccountNotFound, res.ErrorMessage)
	case "actMalformed":
		return fmt.Errorf("%w: %s", ErrAccountMalformed, res.ErrorMessage)
	default:
		return fmt.Errorf("node error %s: %s", res.Error, res.ErrorMessage)
	}
}

// Lookup pins the selected ledger by asking the node for its sequence number,
// so that paginated traversal stays on one consistent snapshot.
func (s *RemoteSource) Lookup(ctx context.Context, sel Selector) (Snapshot, error) {
	params := map[string]any{}
	switch sel.Kind {
	case SelectHash:
		params["ledger_hash"] = sel.Hash
	case SelectIndex:
		params["ledger_index"] = sel.Index
	case SelectValidated:
		params["ledger_index"] = "validated"
	case SelectClosed:
		params["ledger_index"] = "closed"
	case SelectCurrent:
		params["ledger_index"] = "current"
	}

	res, err := s.call(ctx, "ledger", params)
	if err != nil {
		return nil, err
	}
	return &remoteSnapshot{source: s, index: res.LedgerIndex}, nil
}

type remoteSnapshot struct {
	source *RemoteSource
	index  uint32
}

func (s *remoteSnapshot) Index() uint32 {
	return s.index
}

// ResolveAccount decodes locally. Non-strict directory resolution needs
// wallet state the remote API does not expose, so both modes require a
// well-formed address or public key here.
func (s *remoteSnapshot) ResolveAccount(_ context.Context, ident string, _ int, _ bool) (domain.AccountID, error) {
	id, err := domain.ParseAccount(ident)
	if err != nil {
		return domain.AccountID{}, fmt.Errorf("%w: %q", ErrAccountMalformed, ident)
	}
	return id, nil
}

func (s *remoteSnapshot) VisitTrustLines(ctx context.Context, account domain.AccountID, fn func(domain.TrustLine) error) error {
	var marker json.RawMessage
	for {
		params := map[string]any{
			"account":      account.String(),
			"ledger_index": s.index,
			"limit":        s.source.pageLimit,
		}
		if marker != nil {
			params["marker"] = marker
		}

		res, err := s.source.call(ctx, "account_lines", params)
		if err != nil {
			return err
		}

		for _, rec := range res.Lines {
			line, err := decodeLine(rec)
			if err != nil {
				return err
			}
			if err := fn(line); err != nil {
				return err
			}
		}

		if len(res.Marker) == 0 {
			return nil
		}
		marker = res.Marker
	}
}

func decodeLine(rec lineRecord) (domain.TrustLine, error) {
	peer, err := domain.ParseAddress(rec.Account)
	if err != nil {
		return domain.TrustLine{}, fmt.Errorf("line peer %q: %w", rec.Account, err)
	}
	currency, err := domain.ParseCurrency(rec.Currency)
	if err != nil {
		return domain.TrustLine{}, fmt.Errorf("line with peer %s: %w", rec.Account, err)
	}
	balance, err := domain.ParseAmount(currency, rec.Balance)
	if err != nil {
		return domain.TrustLine{}, fmt.Errorf("line with peer %s: %w", rec.Account, err)
	}
	return domain.TrustLine{Peer: peer, Balance: balance}, nil
}
