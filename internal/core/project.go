package core

import (
	"context"
	"fmt"
	"log/slog"
)

// projectWidth is the column count of the project report sections.
const projectWidth = 4

// ProjectNameFunc resolves a project's display name. It is called once per
// project id per report run; a failure degrades to UnknownProject and never
// aborts the run.
type ProjectNameFunc func(ctx context.Context, projectID string) (string, error)

type userBucket struct {
	user  User
	total float64
	tasks *TaskTotals
}

type projectBucket struct {
	id    string
	name  string
	total float64
	order []string // user ids, first-encounter order
	users map[string]*userBucket
}

// BuildProjectReport regroups the raw entries by project, then by user
// within each project, both in first-encounter order when iterating users
// then entries, and renders the nested totals. Project names are looked up
// on first encounter and cached for the rest of the run.
func BuildProjectReport(ctx context.Context, users []User, entries map[string][]TimeEntry, resolve ProjectNameFunc, period Period) *Report {
	var order []string
	projects := make(map[string]*projectBucket)

	for _, u := range users {
		for _, e := range entries[u.ID] {
			p, ok := projects[e.ProjectID]
			if !ok {
				p = &projectBucket{
					id:    e.ProjectID,
					name:  resolveProjectName(ctx, resolve, e.ProjectID),
					users: make(map[string]*userBucket),
				}
				projects[e.ProjectID] = p
				order = append(order, e.ProjectID)
			}
			ub, ok := p.users[u.ID]
			if !ok {
				ub = &userBucket{user: u, tasks: NewTaskTotals()}
				p.users[u.ID] = ub
				p.order = append(p.order, u.ID)
			}
			h := e.Hours()
			ub.tasks.Add(NormalizeDescription(e.Description), h)
			ub.total += h
			p.total += h
		}
	}

	r := &Report{}
	r.Append(padRow(Row{Text(period.ProjectTitle())}, projectWidth))
	for _, pid := range order {
		p := projects[pid]
		r.Append(padRow(Row{Text("Project name"), Text(fmt.Sprintf("%s (%s)", p.name, p.id))}, projectWidth))
		r.Append(Row{Plain("ID"), Plain("Emp Name"), Plain("Hours"), Plain("Task")})
		for _, uid := range p.order {
			ub := p.users[uid]
			identity := Row{Text(ub.user.ID), Text(ub.user.Name)}
			var trailing []Row
			for _, th := range ub.tasks.Items() {
				trailing = append(trailing, Row{Num(th.Hours), Text(th.Label)})
			}
			r.AppendGroup(identity, trailing, projectWidth)
			r.Append(padRow(Row{Plain(""), Text(fmt.Sprintf("%s's total Hours", ub.user.Name)), Num(ub.total)}, projectWidth))
		}
		r.Append(padRow(Row{}, projectWidth))
		r.Append(padRow(Row{Plain(""), Text(fmt.Sprintf("%s total Hours", p.name)), Num(p.total)}, projectWidth))
		r.Append(padRow(Row{}, projectWidth))
	}
	return r
}

func resolveProjectName(ctx context.Context, resolve ProjectNameFunc, projectID string) string {
	if resolve == nil {
		return UnknownProject
	}
	name, err := resolve(ctx, projectID)
	if err != nil {
		slog.WarnContext(ctx, "Project lookup failed, using fallback name",
			"project_id", projectID,
			"error", err)
		return UnknownProject
	}
	return name
}
