package matching

import (
	"context"
	"time"

	"github.com/tactic-hr/insights-backend-go/internal/domain/attendance"
	"github.com/tactic-hr/insights-backend-go/internal/domain/employee"
	"github.com/tactic-hr/insights-backend-go/internal/domain/job"
	"github.com/tactic-hr/insights-backend-go/internal/domain/leave"
)

type fakeEmployeeRepo struct {
	employees  []employee.Employee
	skills     []employee.Skill
	teamCounts map[int64]int
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
	return f.teamCounts[teamID], nil
}

type fakeJobRepo struct {
	posts    []job.Post
	required map[int64][]job.RequiredSkill
}

func (f *fakeJobRepo) GetByID(ctx context.Context, id int64) (job.Post, error) {
	for _, p := range f.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return job.Post{}, job.ErrJobPostNotFound
}

func (f *fakeJobRepo) ListPublished(ctx context.Context, limit int) ([]job.Post, error) {
	var out []job.Post
	for _, p := range f.posts {
		if p.Status != job.StatusPublished {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeJobRepo) ListRequiredSkills(ctx context.Context, jobPostID int64) ([]job.RequiredSkill, error) {
	return f.required[jobPostID], nil
}

type fakeAttendanceRepo struct{}

func (f *fakeAttendanceRepo) ListSince(ctx context.Context, since time.Time, employeeID *int64) ([]attendance.Record, error) {
	return nil, nil
}

type fakeLeaveRepo struct{}

func (f *fakeLeaveRepo) ListSince(ctx context.Context, since time.Time, employeeID *int64) ([]leave.Request, error) {
	return nil, nil
}

func timePtr(t time.Time) *time.Time { return &t }
func i64Ptr(v int64) *int64          { return &v }
