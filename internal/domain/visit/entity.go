package visit

import "time"

// Visit is one recorded check-in against a sale.
type Visit struct {
	ID         string
	SaleID     string
	VisitDate  time.Time
	CreatedAt  time.Time
	ModifiedAt *time.Time
}
