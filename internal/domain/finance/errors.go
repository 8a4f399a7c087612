package finance

import "errors"

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrLinkedTransaction   = errors.New("transaction is linked to a sale or salary calculation and cannot be deleted")
	ErrInvalidExportFormat = errors.New("export format must be xlsx or csv")
)
