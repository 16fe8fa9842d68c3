package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tactic-hr/insights-backend-go/internal/domain/employee"
	"github.com/tactic-hr/insights-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.Repository {
	return &employeeRepository{db: db}
}

// ListActive implements employee.Repository.
func (r *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	query := `
		SELECT id, employee_code, first_name, last_name, email,
			   hire_date, status, team_id
		FROM employees
		WHERE is_active = true AND deleted_at IS NULL AND role = 'EMPLOYEE'
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var e employee.Employee
		if err := rows.Scan(&e.ID, &e.Code, &e.FirstName, &e.LastName, &e.Email,
			&e.HireDate, &e.Status, &e.TeamID); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// GetByID implements employee.Repository.
func (r *employeeRepository) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	query := `
		SELECT id, employee_code, first_name, last_name, email,
			   hire_date, status, team_id
		FROM employees
		WHERE id = $1 AND deleted_at IS NULL
	`

	var e employee.Employee
	err := r.db.QueryRow(ctx, query, id).Scan(&e.ID, &e.Code, &e.FirstName, &e.LastName,
		&e.Email, &e.HireDate, &e.Status, &e.TeamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}

	return e, nil
}

// ListSkills implements employee.Repository.
func (r *employeeRepository) ListSkills(ctx context.Context, employeeID *int64) ([]employee.Skill, error) {
	query := `
		SELECT es.employee_id, es.skill_id, s.name, es.level
		FROM employee_skills es
		JOIN skills s ON es.skill_id = s.id
		WHERE ($1::bigint IS NULL OR es.employee_id = $1)
		ORDER BY es.employee_id
	`

	rows, err := r.db.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee skills: %w", err)
	}
	defer rows.Close()

	var skills []employee.Skill
	for rows.Next() {
		var s employee.Skill
		if err := rows.Scan(&s.EmployeeID, &s.SkillID, &s.Name, &s.Level); err != nil {
			return nil, fmt.Errorf("failed to scan employee skill: %w", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employee skills: %w", err)
	}

	return skills, nil
}

// CountTeamMembers implements employee.Repository.
func (r *employeeRepository) CountTeamMembers(ctx context.Context, teamID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM employees
		WHERE team_id = $1 AND is_active = true AND deleted_at IS NULL
	`

	var count int
	if err := r.db.QueryRow(ctx, query, teamID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count team members: %w", err)
	}

	return count, nil
}
