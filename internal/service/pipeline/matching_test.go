package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tactic-hr/insights-backend-go/internal/domain/employee"
	"github.com/tactic-hr/insights-backend-go/internal/domain/job"
	"github.com/tactic-hr/insights-backend-go/internal/domain/leave"
)

func TestMatchingFeatures_SkillSignals(t *testing.T) {
	ctx := context.Background()
	emp := &fakeEmployeeRepo{
		employees: []employee.Employee{
			{ID: 1, HireDate: timePtr(testNow.AddDate(-2, 0, 0)), Status: employee.StatusAssigned},
		},
		skills: []employee.Skill{
			{EmployeeID: 1, SkillID: 10, Level: 2},
			{EmployeeID: 1, SkillID: 11, Level: 3},
		},
	}
	jobs := &fakeJobRepo{required: map[int64][]job.RequiredSkill{
		100: {
			{SkillID: 10, RequiredLevel: 4},
			{SkillID: 11, RequiredLevel: 2},
			{SkillID: 12, RequiredLevel: 5},
		},
	}}
	p := testPipeline(emp, nil, nil, jobs, testNow)

	vectors, err := p.MatchingFeatures(ctx, 100)
	require.NoError(t, err)
	require.Len(t, vectors, 1)

	v := vectors[0]
	// Two of three required skills are held.
	assert.InDelta(t, 2.0/3.0, v.Get("skill_overlap_ratio"), 1e-9)
	// Gaps average only over held skills; exceeding a requirement is no
	// negative gap.
	assert.InDelta(t, 0.2, v.Get("avg_skill_gap"), 1e-9)
	// Per-skill match is capped at 1 before averaging over all requirements.
	assert.InDelta(t, 0.5, v.Get("weighted_skill_match"), 1e-9)
	assert.InDelta(t, 2.0, v.Get("tenure_years"), 0.05)
	assert.Equal(t, 0.5, v.Get("availability"))
	assert.Equal(t, 0.0, v.Get("attendance_score"))
}

func TestMatchingFeatures_NoRequiredSkills(t *testing.T) {
	ctx := context.Background()
	emp := &fakeEmployeeRepo{
		employees: []employee.Employee{{ID: 1, Status: employee.StatusAvailable}},
		skills:    []employee.Skill{{EmployeeID: 1, SkillID: 10, Level: 3}},
	}
	p := testPipeline(emp, nil, nil, &fakeJobRepo{}, testNow)

	vectors, err := p.MatchingFeatures(ctx, 100)
	require.NoError(t, err)
	require.Len(t, vectors, 1)

	v := vectors[0]
	assert.Equal(t, 0.0, v.Get("skill_overlap_ratio"))
	assert.Equal(t, 1.0, v.Get("avg_skill_gap"))
	assert.Equal(t, 0.0, v.Get("weighted_skill_match"))
	assert.Equal(t, 1.0, v.Get("availability"))
}

func TestMatchingFeatures_LeaveLoadCapped(t *testing.T) {
	ctx := context.Background()
	emp := &fakeEmployeeRepo{employees: []employee.Employee{{ID: 1, Status: employee.StatusAvailable}}}
	lv := &fakeLeaveRepo{requests: []leave.Request{
		{EmployeeID: 1, StartDate: day(0), EndDate: day(44), Status: leave.StatusApproved},
	}}
	p := testPipeline(emp, nil, lv, &fakeJobRepo{}, testNow)

	vectors, err := p.MatchingFeatures(ctx, 100)
	require.NoError(t, err)
	require.Len(t, vectors, 1)
	assert.Equal(t, 1.0, vectors[0].Get("leave_load"))
}

func TestMatchingFeatures_NoEmployees(t *testing.T) {
	p := testPipeline(&fakeEmployeeRepo{}, nil, nil, &fakeJobRepo{}, testNow)
	vectors, err := p.MatchingFeatures(context.Background(), 100)
	require.NoError(t, err)
	assert.Nil(t, vectors)
}
