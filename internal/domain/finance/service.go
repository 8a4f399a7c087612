package finance

import (
	"context"
	"io"
)

type FinanceService interface {
	Summary(ctx context.Context, filter TransactionFilter) (SummaryResponse, error)
	CreateManual(ctx context.Context, req CreateTransactionRequest) (TransactionResponse, error)
	Delete(ctx context.Context, id string) error
	// Export writes the ledger window to w and returns the content type and file name.
	Export(ctx context.Context, filter TransactionFilter, format ExportFormat, w io.Writer) (ExportInfo, error)
}
