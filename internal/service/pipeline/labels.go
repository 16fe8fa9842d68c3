package pipeline

import "context"

// Label is a weak-supervision performance target for one employee, 0-100.
type Label struct {
	EmployeeID int64
	Value      float64
}

// PerformanceLabels derives weak-supervision targets from composite employee
// features: attendance 40%, skills 30%, tenure 20%, overtime 10%.
func (p *Pipeline) PerformanceLabels(ctx context.Context) ([]Label, error) {
	features, err := p.EmployeeFeatures(ctx)
	if err != nil {
		return nil, err
	}
	if len(features) == 0 {
		return nil, nil
	}

	labels := make([]Label, 0, len(features))
	for _, f := range features {
		attScore := f.Get("presence_rate") * 100
		skillScore := clip100(f.Get("avg_skill_level") * 20)
		tenureScore := clip100(f.Get("tenure_months") / 60 * 100)
		overtimeScore := clip100(f.Get("overtime_ratio") * 200)

		composite := attScore*0.4 + skillScore*0.3 + tenureScore*0.2 + overtimeScore*0.1
		labels = append(labels, Label{EmployeeID: f.EmployeeID, Value: clip100(composite)})
	}

	return labels, nil
}

func clip100(v float64) float64 {
	if v > 100 {
		return 100
	}
	return v
}
