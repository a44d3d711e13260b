package core

// monthlyWidth is the column count of the monthly report section.
const monthlyWidth = 5

// BuildMonthlyReport assembles per-user aggregates, in user-list order, into
// the monthly report: title row, fixed header, then one or more rows per
// user. A user with no aggregate is reported with zero hours and empty task
// cells.
func BuildMonthlyReport(users []User, aggregates map[string]UserAggregate, period Period) *Report {
	r := &Report{}
	r.Append(padRow(Row{Text(period.Title())}, monthlyWidth))
	r.Append(Row{Plain("Name"), Plain("Email"), Plain("Total Hours"), Plain("Task"), Plain("Hours")})

	for _, u := range users {
		agg, ok := aggregates[u.ID]
		if !ok {
			agg = UserAggregate{User: u, Tasks: NewTaskTotals()}
		}
		identity := Row{Text(u.Name), Text(u.Email), Num(agg.Total)}
		var trailing []Row
		for _, th := range agg.Tasks.Items() {
			trailing = append(trailing, Row{Text(th.Label), Num(th.Hours)})
		}
		r.AppendGroup(identity, trailing, monthlyWidth)
	}
	return r
}
