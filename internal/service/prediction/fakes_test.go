package prediction

import (
	"context"
	"time"

	"github.com/tactic-hr/insights-backend-go/internal/domain/attendance"
	"github.com/tactic-hr/insights-backend-go/internal/domain/employee"
	"github.com/tactic-hr/insights-backend-go/internal/domain/job"
	"github.com/tactic-hr/insights-backend-go/internal/domain/leave"
)

type fakeEmployeeRepo struct {
	employees []employee.Employee
	skills    []employee.Skill
}

func (f *fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	return f.employees, nil
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) ListSkills(ctx context.Context, employeeID *int64) ([]employee.Skill, error) {
	if employeeID == nil {
		return f.skills, nil
	}
	var out []employee.Skill
	for _, s := range f.skills {
		if s.EmployeeID == *employeeID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) CountTeamMembers(ctx context.Context, teamID int64) (int, error) {
	return 0, nil
}

type fakeAttendanceRepo struct {
	records []attendance.Record
}

func (f *fakeAttendanceRepo) ListSince(ctx context.Context, since time.Time, employeeID *int64) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, r := range f.records {
		if r.Date.Before(since) {
			continue
		}
		if employeeID != nil && r.EmployeeID != *employeeID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

type fakeLeaveRepo struct{}

func (f *fakeLeaveRepo) ListSince(ctx context.Context, since time.Time, employeeID *int64) ([]leave.Request, error) {
	return nil, nil
}

type fakeJobRepo struct{}

func (f *fakeJobRepo) GetByID(ctx context.Context, id int64) (job.Post, error) {
	return job.Post{}, job.ErrJobPostNotFound
}

func (f *fakeJobRepo) ListPublished(ctx context.Context, limit int) ([]job.Post, error) {
	return nil, nil
}

func (f *fakeJobRepo) ListRequiredSkills(ctx context.Context, jobPostID int64) ([]job.RequiredSkill, error) {
	return nil, nil
}
