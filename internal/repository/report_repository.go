package repository

import (
	"context"
	"database/sql"
	"time"
)

// ReportRepo runs the aggregation queries behind the dashboard reports and
// the change notifier's activity counts.
type ReportRepo struct{ DB *sql.DB }

func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{DB: db} }

// UserTotals summarizes the member base: everyone, users with a paid and
// unexpired payment, and users holding any payment past its due date.
func (r *ReportRepo) UserTotals(ctx context.Context) (total, active, overdue int, err error) {
	if err = r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM usuarios").Scan(&total); err != nil {
		return
	}
	if err = r.DB.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT usuario_id) FROM pagamentos WHERE status='pago' AND data_vencimento >= NOW()").
		Scan(&active); err != nil {
		return
	}
	err = r.DB.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT usuario_id) FROM pagamentos WHERE data_vencimento < NOW()").
		Scan(&overdue)
	return
}

// PlanTotal counts the registered plans.
func (r *ReportRepo) PlanTotal(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM planos").Scan(&n)
	return n, err
}

// CheckinTotal counts visits in the given period (YYYY-MM-DD bounds).
func (r *ReportRepo) CheckinTotal(ctx context.Context, start, end string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM checkins WHERE data_checkin BETWEEN ? AND ?",
		start, end).Scan(&n)
	return n, err
}

// Revenue sums the plan price of every paid payment in the period.
func (r *ReportRepo) Revenue(ctx context.Context, start, end string) (float64, error) {
	var total float64
	err := r.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(pl.preco), 0)
         FROM pagamentos p
         JOIN planos pl ON pl.id = p.plano_id
         WHERE p.status = 'pago' AND p.data_pagamento BETWEEN ? AND ?`,
		start, end).Scan(&total)
	return total, err
}

// MonthRevenue is one point of the financial chart.
type MonthRevenue struct {
	Month string  `json:"mes"`
	Total float64 `json:"total"`
}

// MonthlyRevenue returns paid revenue totals grouped by calendar month for
// the last `months` months, oldest first.
func (r *ReportRepo) MonthlyRevenue(ctx context.Context, months int) ([]MonthRevenue, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT DATE_FORMAT(p.data_pagamento, '%Y-%m') AS mes, COALESCE(SUM(pl.preco), 0)
         FROM pagamentos p
         JOIN planos pl ON pl.id = p.plano_id
         WHERE p.status = 'pago'
           AND p.data_pagamento >= DATE_SUB(CURDATE(), INTERVAL ? MONTH)
         GROUP BY mes
         ORDER BY mes ASC`,
		months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]MonthRevenue, 0)
	for rows.Next() {
		var m MonthRevenue
		if err := rows.Scan(&m.Month, &m.Total); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// RecentActivity counts rows inserted inside the lookback window: visits,
// paid payments and new accounts.  The change notifier calls this on every
// tick.
func (r *ReportRepo) RecentActivity(ctx context.Context, lookback time.Duration) (checkins, payments, users int, err error) {
	secs := int(lookback.Seconds())
	if secs < 1 {
		secs = 1
	}
	if err = r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM checkins WHERE data_checkin > DATE_SUB(NOW(), INTERVAL ? SECOND)",
		secs).Scan(&checkins); err != nil {
		return
	}
	if err = r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM pagamentos WHERE data_pagamento > DATE_SUB(NOW(), INTERVAL ? SECOND) AND status='pago'",
		secs).Scan(&payments); err != nil {
		return
	}
	err = r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM usuarios WHERE created_at > DATE_SUB(NOW(), INTERVAL ? SECOND)",
		secs).Scan(&users)
	return
}
