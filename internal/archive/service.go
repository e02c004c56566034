package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xrpstat/gwstat/internal/report"
)

// QueryRunner runs gateway_balances queries. Implemented by report.Service.
type QueryRunner interface {
	GatewayBalances(ctx context.Context, params map[string]any) (report.Response, error)
}

// Service generates reports and stores them.
type Service struct {
	queries QueryRunner
	repo    Repository
}

// NewService creates an archive service.
func NewService(queries QueryRunner, repo Repository) *Service {
	return &Service{queries: queries, repo: repo}
}

// Generate runs the query for one gateway against the validated ledger and
// persists the rendered response.
func (s *Service) Generate(ctx context.Context, gateway string, hotWallets []string) (report.Response, error) {
	params := map[string]any{
		"account":      gateway,
		"ledger_index": "validated",
	}
	if len(hotWallets) > 0 {
		list := make([]any, len(hotWallets))
		for i, w := range hotWallets {
			list[i] = w
		}
		params["hotwallet"] = list
	}

	resp, err := s.queries.GatewayBalances(ctx, params)
	if err != nil {
		return report.Response{}, fmt.Errorf("generating report for %s: %w", gateway, err)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return report.Response{}, fmt.Errorf("encoding report for %s: %w", gateway, err)
	}
	if err := s.repo.Save(ctx, resp.Account, resp.LedgerIndex, data); err != nil {
		return report.Response{}, err
	}
	return resp, nil
}

// GetLatest returns the most recent stored report for a gateway.
func (s *Service) GetLatest(ctx context.Context, account string) (*Report, error) {
	return s.repo.GetLatest(ctx, account)
}

// List returns up to limit stored reports for a gateway, newest first.
func (s *Service) List(ctx context.Context, account string, limit int) ([]Report, error) {
	return s.repo.List(ctx, account, limit)
}
