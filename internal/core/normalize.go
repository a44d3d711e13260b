package core

import "strings"

// NormalizeDescription turns a free-text entry description into a task label.
// Commas conflict with the row delimiter and are dropped; newlines collapse
// to a single pipe so multi-line descriptions stay on one row. An empty
// description falls back to UnnamedTask.
func NormalizeDescription(desc string) string {
	if desc == "" {
		return UnnamedTask
	}
	label := strings.ReplaceAll(desc, ",", "")
	return strings.ReplaceAll(label, "\n", "|")
}
