package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/tactic-hr/insights-backend-go/internal/domain/leave"
	"github.com/tactic-hr/insights-backend-go/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.Repository {
	return &leaveRepository{db: db}
}

// ListSince implements leave.Repository.
func (r *leaveRepository) ListSince(ctx context.Context, since time.Time, employeeID *int64) ([]leave.Request, error) {
	query := `
		SELECT id, employee_id, leave_type, start_date, end_date, status
		FROM leave_requests
		WHERE start_date >= $1
		  AND ($2::bigint IS NULL OR employee_id = $2)
		ORDER BY employee_id, start_date
	`

	rows, err := r.db.Query(ctx, query, since, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		var req leave.Request
		if err := rows.Scan(&req.ID, &req.EmployeeID, &req.Type,
			&req.StartDate, &req.EndDate, &req.Status); err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}

	return requests, nil
}
