package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/tactic-hr/insights-backend-go/internal/domain/attendance"
	"github.com/tactic-hr/insights-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

// ListSince implements attendance.Repository. Clock times come back as raw
// text so malformed values reach the feature pipeline instead of failing
// the scan.
func (r *attendanceRepository) ListSince(ctx context.Context, since time.Time, employeeID *int64) ([]attendance.Record, error) {
	query := `
		SELECT id, employee_id, date, clock_in::text, clock_out::text,
			   work_hours, justified_absence
		FROM attendance_records
		WHERE date >= $1
		  AND ($2::bigint IS NULL OR employee_id = $2)
		ORDER BY employee_id, date
	`

	rows, err := r.db.Query(ctx, query, since, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.Date, &rec.ClockIn,
			&rec.ClockOut, &rec.WorkHours, &rec.JustifiedAbsence); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, nil
}
