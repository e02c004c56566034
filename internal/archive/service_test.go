package archive

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/xrpstat/gwstat/internal/report"
)

type mockRepo struct {
	saved map[string]json.RawMessage
}

func newMockRepo() *mockRepo {
	return &mockRepo{saved: make(map[string]json.RawMessage)}
}

func (m *mockRepo) Save(_ context.Context, account string, _ uint32, data json.RawMessage) error {
	m.saved[account] = data
	return nil
}

func (m *mockRepo) GetLatest(_ context.Context, account string) (*Report, error) {
	data, ok := m.saved[account]
	if !ok {
		return nil, ErrNotFound
	}
	return &Report{Account: account, Data: data}, nil
}

func (m *mockRepo) GetByLedger(_ context.Context, account string, _ uint32) (*Report, error) {
	return m.GetLatest(context.Background(), account)
}

func (m *mockRepo) List(_ context.Context, account string, _ int) ([]Report, error) {
	rep, err := m.GetLatest(context.Background(), account)
	if err != nil {
		return nil, nil
	}
	return []Report{*rep}, nil
}

type mockQueries struct {
	lastParams map[string]any
	resp       report.Response
	err        error
}

func (m *mockQueries) GatewayBalances(_ context.Context, params map[string]any) (report.Response, error) {
	m.lastParams = params
	return m.resp, m.err
}

func TestGenerateSavesReport(t *testing.T) {
	queries := &mockQueries{resp: report.Response{
		Account:     "rGateway",
		LedgerIndex: 700,
		Obligations: map[string]string{"USD": "50"},
	}}
	repo := newMockRepo()
	svc := NewService(queries, repo)

	resp, err := svc.Generate(context.Background(), "rGateway", []string{"rHot"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Obligations["USD"] != "50" {
		t.Errorf("response = %+v", resp)
	}

	// The query targets the validated ledger and forwards hot wallets.
	if queries.lastParams["ledger_index"] != "validated" {
		t.Errorf("ledger_index = %v, want validated", queries.lastParams["ledger_index"])
	}
	if hw, ok := queries.lastParams["hotwallet"].([]any); !ok || len(hw) != 1 || hw[0] != "rHot" {
		t.Errorf("hotwallet param = %v", queries.lastParams["hotwallet"])
	}

	stored, err := svc.GetLatest(context.Background(), "rGateway")
	if err != nil {
		t.Fatalf("GetLatest: %v", err)
	}
	var decoded report.Response
	if err := json.Unmarshal(stored.Data, &decoded); err != nil {
		t.Fatalf("stored payload: %v", err)
	}
	if decoded.Obligations["USD"] != "50" {
		t.Errorf("stored obligations = %v", decoded.Obligations)
	}
}

func TestGenerateOmitsHotwalletParamWhenEmpty(t *testing.T) {
	queries := &mockQueries{resp: report.Response{Account: "rGateway"}}
	svc := NewService(queries, newMockRepo())

	if _, err := svc.Generate(context.Background(), "rGateway", nil); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, present := queries.lastParams["hotwallet"]; present {
		t.Error("hotwallet param should be omitted when no hot wallets are configured")
	}
}

func TestGeneratePropagatesQueryError(t *testing.T) {
	queryErr := errors.New("node unavailable")
	queries := &mockQueries{err: queryErr}
	svc := NewService(queries, newMockRepo())

	if _, err := svc.Generate(context.Background(), "rGateway", nil); !errors.Is(err, queryErr) {
		t.Errorf("err = %v, want wrapped query error", err)
	}
}
