// Package export renders generated gateway reports to external destinations:
// Excel workbooks and Google Sheets.
package export

import (
	"context"
	"fmt"

	"github.com/xrpstat/gwstat/internal/report"
)

// ReportWriter writes one rendered report to a destination.
type ReportWriter interface {
	Write(ctx context.Context, gateway string, resp report.Response) error
}

// Service fans a report out to its writers. Implements worker.AfterReportHook.
type Service struct {
	writers []ReportWriter
}

// NewService creates an export service over zero or more writers.
func NewService(writers ...ReportWriter) *Service {
	return &Service{writers: writers}
}

// Export writes the report with every configured writer, stopping at the
// first failure.
func (s *Service) Export(ctx context.Context, gateway string, resp report.Response) error {
	for _, w := range s.writers {
		if err := w.Write(ctx, gateway, resp); err != nil {
			return fmt.Errorf("exporting report for %s: %w", gateway, err)
		}
	}
	return nil
}
