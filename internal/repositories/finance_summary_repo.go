package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// FinanceTotals are the headline numbers on the finance dashboard for one
// date range.
type FinanceTotals struct {
	SalesTotal       decimal.Decimal `json:"sales_total"`
	PurchasesTotal   decimal.Decimal `json:"purchases_total"`
	ReceivedTotal    decimal.Decimal `json:"received_total"`
	PaidTotal        decimal.Decimal `json:"paid_total"`
	TDSDeductedTotal decimal.Decimal `json:"tds_deducted_total"`
	OutstandingIn    decimal.Decimal `json:"outstanding_receivable"`
	OutstandingOut   decimal.Decimal `json:"outstanding_payable"`
}

// MonthlyTotal is one month of sales and purchases for the trend chart.
type MonthlyTotal struct {
	Month     string          `json:"month"`
	Sales     decimal.Decimal `json:"sales"`
	Purchases decimal.Decimal `json:"purchases"`
}

type FinanceSummaryRepository interface {
	Totals(ctx context.Context, from, to time.Time) (*FinanceTotals, error)
	MonthlyTotals(ctx context.Context, year int) ([]MonthlyTotal, error)
}

type financeSummaryRepo struct {
	db Database
}

func NewFinanceSummaryRepo(db Database) FinanceSummaryRepository {
	return &financeSummaryRepo{db: db}
}

func (r *financeSummaryRepo) Totals(ctx context.Context, from, to time.Time) (*FinanceTotals, error) {
	t := &FinanceTotals{}
	query := `
		SELECT
			(SELECT COALESCE(SUM(total_amount), 0) FROM sales WHERE date >= $1 AND date <= $2),
			(SELECT COALESCE(SUM(total_amount), 0) FROM purchases WHERE date >= $1 AND date <= $2),
			(SELECT COALESCE(SUM(amount), 0) FROM payments_received WHERE date >= $1 AND date <= $2),
			(SELECT COALESCE(SUM(amount), 0) FROM payments_made WHERE date >= $1 AND date <= $2),
			(SELECT COALESCE(SUM(tds_amount), 0) FROM payments_received WHERE date >= $1 AND date <= $2),
			(SELECT COALESCE(SUM(total_amount), 0) FROM sales WHERE payment_status IN ('Pending', 'Partial')),
			(SELECT COALESCE(SUM(total_amount), 0) FROM purchases WHERE payment_status IN ('Pending', 'Partial'))
	`
	err := r.db.QueryRow(ctx, query, from, to).Scan(&t.SalesTotal, &t.PurchasesTotal,
		&t.ReceivedTotal, &t.PaidTotal, &t.TDSDeductedTotal, &t.OutstandingIn, &t.OutstandingOut)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *financeSummaryRepo) MonthlyTotals(ctx context.Context, year int) ([]MonthlyTotal, error) {
	query := `
		SELECT m.month,
			COALESCE(s.total, 0) AS sales,
			COALESCE(p.total, 0) AS purchases
		FROM (SELECT to_char(make_date($1, gs, 1), 'YYYY-MM') AS month FROM generate_series(1, 12) gs) m
		LEFT JOIN (
			SELECT to_char(date, 'YYYY-MM') AS month, SUM(total_amount) AS total
			FROM sales WHERE EXTRACT(YEAR FROM date) = $1 GROUP BY 1
		) s ON s.month = m.month
		LEFT JOIN (
			SELECT to_char(date, 'YYYY-MM') AS month, SUM(total_amount) AS total
			FROM purchases WHERE EXTRACT(YEAR FROM date) = $1 GROUP BY 1
		) p ON p.month = m.month
		ORDER BY m.month
	`
	rows, err := r.db.Query(ctx, query, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []MonthlyTotal
	for rows.Next() {
		var mt MonthlyTotal
		if err := rows.Scan(&mt.Month, &mt.Sales, &mt.Purchases); err != nil {
			return nil, err
		}
		totals = append(totals, mt)
	}
	return totals, rows.Err()
}
