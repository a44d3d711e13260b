package core

// TaskHours is one task label with its summed hours.
type TaskHours struct {
	Label string
	Hours float64
}

// TaskTotals accumulates hours per task label while preserving first-seen
// label order, so serialization stays deterministic for a given entry list.
type TaskTotals struct {
	order []string
	hours map[string]float64
}

// NewTaskTotals returns an empty accumulator.
func NewTaskTotals() *TaskTotals {
	return &TaskTotals{hours: make(map[string]float64)}
}

// Add folds hours into the label's running sum. Label equality is exact
// string equality post-normalization.
func (t *TaskTotals) Add(label string, hours float64) {
	if _, ok := t.hours[label]; !ok {
		t.order = append(t.order, label)
	}
	t.hours[label] += hours
}

// Len returns the number of distinct labels seen.
func (t *TaskTotals) Len() int {
	return len(t.order)
}

// Items returns the label/hours pairs in first-seen order.
func (t *TaskTotals) Items() []TaskHours {
	items := make([]TaskHours, 0, len(t.order))
	for _, label := range t.order {
		items = append(items, TaskHours{Label: label, Hours: t.hours[label]})
	}
	return items
}

// UserAggregate is one user's folded report data: the exact running total
// plus per-task sums keyed by normalized label.
type UserAggregate struct {
	User  User
	Total float64
	Tasks *TaskTotals
}

// AggregateEntries folds a user's entries in the order supplied. An empty
// entry list yields a valid zero-hours aggregate with no tasks; the user
// still gets a report row.
func AggregateEntries(user User, entries []TimeEntry) UserAggregate {
	agg := UserAggregate{User: user, Tasks: NewTaskTotals()}
	for _, e := range entries {
		h := e.Hours()
		agg.Total += h
		agg.Tasks.Add(NormalizeDescription(e.Description), h)
	}
	return agg
}
