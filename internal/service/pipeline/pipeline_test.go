package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tactic-hr/insights-backend-go/internal/domain/attendance"
	"github.com/tactic-hr/insights-backend-go/internal/domain/employee"
	"github.com/tactic-hr/insights-backend-go/internal/domain/leave"
)

var testNow = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

// day returns the nth calendar day counted from Monday 2025-06-02.
func day(n int) time.Time {
	return time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestAttendanceFeatures_Aggregates(t *testing.T) {
	ctx := context.Background()
	emp := &fakeEmployeeRepo{employees: []employee.Employee{{ID: 1, Status: employee.StatusAvailable}}}
	att := &fakeAttendanceRepo{records: []attendance.Record{
		{EmployeeID: 1, Date: day(0), ClockIn: strPtr("08:00"), ClockOut: strPtr("17:30"), WorkHours: f64Ptr(8.5)},
		{EmployeeID: 1, Date: day(1), ClockIn: strPtr("09:15"), ClockOut: strPtr("17:00"), WorkHours: f64Ptr(7.0)},
		{EmployeeID: 1, Date: day(2), JustifiedAbsence: true},
		{EmployeeID: 1, Date: day(3), ClockIn: strPtr("08:30"), ClockOut: strPtr("16:30"), WorkHours: f64Ptr(7.5)},
		{EmployeeID: 1, Date: day(4), ClockIn: strPtr("bogus"), WorkHours: f64Ptr(8.0)},
	}}
	p := testPipeline(emp, att, nil, nil, testNow)

	vectors, err := p.AttendanceFeatures(ctx, nil)
	require.NoError(t, err)
	require.Len(t, vectors, 1)

	v := vectors[0]
	assert.Equal(t, int64(1), v.EmployeeID)
	assert.Equal(t, 5.0, v.Get("total_days"))
	assert.Equal(t, 4.0, v.Get("present_days"))
	assert.Equal(t, 1.0, v.Get("absent_days"))
	assert.InDelta(t, 0.8, v.Get("presence_rate"), 1e-9)
	assert.InDelta(t, 7.75, v.Get("avg_hours_worked"), 1e-9)
	// One late day over four present, clock-in at exactly 08:30 is on time
	// and a malformed clock-in counts as not late.
	assert.InDelta(t, 0.25, v.Get("late_rate"), 1e-9)
	assert.InDelta(t, 0.25, v.Get("early_departure_rate"), 1e-9)
	assert.InDelta(t, 0.25, v.Get("overtime_ratio"), 1e-9)
	assert.InDelta(t, 1.0, v.Get("justified_absence_ratio"), 1e-9)
	assert.Equal(t, 2.0, v.Get("max_attendance_streak"))
	// The only Wednesday in the window is absent.
	assert.Equal(t, 1.0, v.Get("dow_2_absence_rate"))
	assert.Equal(t, 0.0, v.Get("dow_0_absence_rate"))
}

func TestAttendanceFeatures_AllAbsent(t *testing.T) {
	ctx := context.Background()
	emp := &fakeEmployeeRepo{employees: []employee.Employee{{ID: 7}}}
	records := make([]attendance.Record, 0, 10)
	for i := 0; i < 10; i++ {
		records = append(records, attendance.Record{EmployeeID: 7, Date: day(i)})
	}
	p := testPipeline(emp, &fakeAttendanceRepo{records: records}, nil, nil, testNow)

	vectors, err := p.AttendanceFeatures(ctx, nil)
	require.NoError(t, err)
	require.Len(t, vectors, 1)

	v := vectors[0]
	assert.Equal(t, 0.0, v.Get("presence_rate"))
	assert.Equal(t, 10.0, v.Get("absent_days"))
	// Rates over zero present days stay zero instead of dividing by zero.
	assert.Equal(t, 0.0, v.Get("late_rate"))
	assert.Equal(t, 0.0, v.Get("overtime_ratio"))
	assert.Equal(t, 0.0, v.Get("avg_hours_worked"))
	assert.Equal(t, 0.0, v.Get("max_attendance_streak"))
}

func TestAttendanceFeatures_NoRecords(t *testing.T) {
	ctx := context.Background()
	emp := &fakeEmployeeRepo{employees: []employee.Employee{{ID: 1}}}
	p := testPipeline(emp, &fakeAttendanceRepo{}, nil, nil, testNow)

	vectors, err := p.AttendanceFeatures(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestLeaveFeatures_Aggregates(t *testing.T) {
	ctx := context.Background()
	emp := &fakeEmployeeRepo{employees: []employee.Employee{{ID: 1}, {ID: 2}}}
	lv := &fakeLeaveRepo{requests: []leave.Request{
		{EmployeeID: 1, Type: leave.TypeSick, StartDate: day(0), EndDate: day(2), Status: leave.StatusApproved},
		{EmployeeID: 1, Type: "ANNUAL", StartDate: day(7), EndDate: day(8), Status: leave.StatusRejected},
		{EmployeeID: 1, Type: "ANNUAL", StartDate: day(14), EndDate: day(14), Status: leave.StatusPending},
	}}
	p := testPipeline(emp, nil, lv, nil, testNow)

	vectors, err := p.LeaveFeatures(ctx, nil)
	require.NoError(t, err)
	require.Len(t, vectors, 2)

	v := vectors[0]
	assert.Equal(t, 3.0, v.Get("total_leave_requests"))
	assert.Equal(t, 3.0, v.Get("total_leave_days"))
	assert.InDelta(t, 1.0/3.0, v.Get("sick_leave_ratio"), 1e-9)
	assert.InDelta(t, 1.0/3.0, v.Get("approved_ratio"), 1e-9)
	assert.InDelta(t, 1.0/3.0, v.Get("rejected_ratio"), 1e-9)
	assert.InDelta(t, 2.0, v.Get("avg_leave_duration"), 1e-9)
	assert.Equal(t, 3.0, v.Get("leave_frequency"))

	// Employees without requests get an all-zero row, not an omission.
	zero := vectors[1]
	assert.Equal(t, int64(2), zero.EmployeeID)
	assert.Equal(t, 0.0, zero.Get("total_leave_requests"))
	assert.Equal(t, 0.0, zero.Get("sick_leave_ratio"))
}

func TestEmployeeFeatures_MergesAggregates(t *testing.T) {
	ctx := context.Background()
	hire := testNow.AddDate(-1, 0, 0)
	emp := &fakeEmployeeRepo{
		employees: []employee.Employee{
			{ID: 1, HireDate: timePtr(hire), Status: employee.StatusAvailable},
			{ID: 2, Status: employee.StatusAvailable},
		},
		skills: []employee.Skill{
			{EmployeeID: 1, SkillID: 10, Level: 3},
			{EmployeeID: 1, SkillID: 11, Level: 5},
		},
	}
	att := &fakeAttendanceRepo{records: []attendance.Record{
		{EmployeeID: 1, Date: day(0), ClockIn: strPtr("08:00"), WorkHours: f64Ptr(8)},
		{EmployeeID: 1, Date: day(1)},
	}}
	p := testPipeline(emp, att, nil, nil, testNow)

	vectors, err := p.EmployeeFeatures(ctx)
	require.NoError(t, err)
	require.Len(t, vectors, 2)

	v := vectors[0]
	assert.InDelta(t, 0.5, v.Get("presence_rate"), 1e-9)
	assert.Equal(t, 2.0, v.Get("skill_count"))
	assert.Equal(t, 4.0, v.Get("avg_skill_level"))
	assert.Equal(t, 5.0, v.Get("max_skill_level"))
	assert.InDelta(t, 12.17, v.Get("tenure_months"), 0.1)

	// No attendance rows and no skills fill to zero, never null.
	bare := vectors[1]
	assert.Equal(t, int64(2), bare.EmployeeID)
	assert.Equal(t, 0.0, bare.Get("presence_rate"))
	assert.Equal(t, 0.0, bare.Get("skill_count"))
	assert.Equal(t, 0.0, bare.Get("tenure_months"))
}

func TestPerformanceLabels_Composite(t *testing.T) {
	ctx := context.Background()
	emp := &fakeEmployeeRepo{
		employees: []employee.Employee{
			{ID: 1, HireDate: timePtr(testNow.AddDate(-5, 0, 0))},
			{ID: 2},
		},
		skills: []employee.Skill{{EmployeeID: 1, SkillID: 10, Level: 5}},
	}
	att := &fakeAttendanceRepo{records: []attendance.Record{
		{EmployeeID: 1, Date: day(0), ClockIn: strPtr("08:00"), WorkHours: f64Ptr(9)},
		{EmployeeID: 1, Date: day(1), ClockIn: strPtr("08:00"), WorkHours: f64Ptr(9)},
		{EmployeeID: 2, Date: day(0)},
		{EmployeeID: 2, Date: day(1)},
	}}
	p := testPipeline(emp, att, nil, nil, testNow)

	labels, err := p.PerformanceLabels(ctx)
	require.NoError(t, err)
	require.Len(t, labels, 2)

	byID := map[int64]float64{}
	for _, l := range labels {
		byID[l.EmployeeID] = l.Value
	}
	assert.Greater(t, byID[1], byID[2])
	for _, l := range labels {
		assert.GreaterOrEqual(t, l.Value, 0.0)
		assert.LessOrEqual(t, l.Value, 100.0)
	}
}

func TestMatrix_PreservesColumnOrder(t *testing.T) {
	vectors := []Vector{
		{EmployeeID: 1, Values: map[string]float64{"a": 1, "b": 2}},
		{EmployeeID: 2, Values: map[string]float64{"a": 3}},
	}
	rows := Matrix(vectors, []string{"b", "a", "missing"})
	assert.Equal(t, [][]float64{{2, 1, 0}, {0, 3, 0}}, rows)
}

func TestParseClock(t *testing.T) {
	h, m, ok := parseClock("09:45")
	assert.True(t, ok)
	assert.Equal(t, 9, h)
	assert.Equal(t, 45, m)

	h, m, ok = parseClock(" 08:15:30 ")
	assert.True(t, ok)
	assert.Equal(t, 8, h)
	assert.Equal(t, 15, m)

	_, _, ok = parseClock("not-a-time")
	assert.False(t, ok)
}
