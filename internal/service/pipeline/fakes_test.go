package pipeline

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

type fakeLeaveRepo struct {
	requests []leave.Request
}

func (f *fakeLeaveRepo) ListSince(ctx context.Context, since time.Time, employeeID *int64) ([]leave.Request, error) {
	var out []leave.Request
	for _, r := range f.requests {
		if r.StartDate.Before(since) {
			continue
		}
		if employeeID != nil && r.EmployeeID != *employeeID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
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

func strPtr(s string) *string        { return &s }
func f64Ptr(v float64) *float64      { return &v }
func timePtr(t time.Time) *time.Time { return &t }

// testPipeline wires fake repositories and pins the clock so window cutoffs
// are deterministic.
func testPipeline(emp *fakeEmployeeRepo, att *fakeAttendanceRepo, lv *fakeLeaveRepo, jobs *fakeJobRepo, now time.Time) *Pipeline {
	if emp == nil {
		emp = &fakeEmployeeRepo{}
	}
	if att == nil {
		att = &fakeAttendanceRepo{}
	}
	if lv == nil {
		lv = &fakeLeaveRepo{}
	}
	if jobs == nil {
		jobs = &fakeJobRepo{}
	}
	p := New(emp, att, lv, jobs, 6)
	p.now = func() time.Time { return now }
	return p
}
