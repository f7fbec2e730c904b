package repository

import (
	"context"
	"database/sql"

	"github.com/vittahq/vitta-api/internal/model"
)

// CheckinRepo persists gym visits in the append-only 'checkins' table.
type CheckinRepo struct{ DB *sql.DB }

func NewCheckinRepo(db *sql.DB) *CheckinRepo { return &CheckinRepo{DB: db} }

// Create logs a visit for the user now and returns the stored row.
func (r *CheckinRepo) Create(ctx context.Context, userID uint64) (model.Checkin, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO checkins (usuario_id) VALUES (?)", userID)
	if err != nil {
		return model.Checkin{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Checkin{}, err
	}
	var c model.Checkin
	err = r.DB.QueryRowContext(ctx,
		"SELECT id, usuario_id, data_checkin FROM checkins WHERE id=?", uint64(id)).
		Scan(&c.ID, &c.UserID, &c.CheckinAt)
	return c, err
}

// Stats returns the user's visit counts for today, the last 7 days and
// the last 30 days.
func (r *CheckinRepo) Stats(ctx context.Context, userID uint64) (daily, weekly, monthly int, err error) {
	if err = r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM checkins WHERE usuario_id=? AND DATE(data_checkin)=CURDATE()",
		userID).Scan(&daily); err != nil {
		return
	}
	if err = r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM checkins WHERE usuario_id=? AND data_checkin >= DATE_SUB(CURDATE(), INTERVAL 7 DAY)",
		userID).Scan(&weekly); err != nil {
		return
	}
	err = r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM checkins WHERE usuario_id=? AND data_checkin >= DATE_SUB(CURDATE(), INTERVAL 30 DAY)",
		userID).Scan(&monthly)
	return
}

// DailyTotals returns the number of check-ins per calendar day between the
// two YYYY-MM-DD dates (inclusive).  Days without visits are absent from
// the map; handlers fill them in.
func (r *CheckinRepo) DailyTotals(ctx context.Context, start, end string) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT DATE_FORMAT(data_checkin, '%Y-%m-%d') AS dia, COUNT(*)
         FROM checkins
         WHERE data_checkin BETWEEN ? AND ?
         GROUP BY dia
         ORDER BY dia ASC`,
		start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	totals := make(map[string]int)
	for rows.Next() {
		var (
			day   string
			total int
		)
		if err := rows.Scan(&day, &total); err != nil {
			return nil, err
		}
		totals[day] = total
	}
	return totals, rows.Err()
}
