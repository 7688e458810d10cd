package tasks

import "sort"

// RankStrategy orders a batch of tasks before allocation so that scarce time
// goes to the most urgent work first. The strategy is injected; the rest of
// the pipeline makes no assumption about the ordering's semantics.
type RankStrategy interface {
	Rank(tasks []Task) []Task
}

// DueDateFirstStrategy is the default ranking: ascending due date with
// tasks that have none sorted after all tasks that do, ties broken by
// descending priority. The sort is stable.
type DueDateFirstStrategy struct {
}

// Rank orders the tasks without modifying the input slice
func (s DueDateFirstStrategy) Rank(tasks []Task) []Task {
	ranked := make([]Task, len(tasks))
	copy(ranked, tasks)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := &ranked[i], &ranked[j]

		if a.HasDueDate() != b.HasDueDate() {
			return a.HasDueDate()
		}

		if a.HasDueDate() && !a.DueAt.Equal(b.DueAt) {
			return a.DueAt.Before(b.DueAt)
		}

		return a.Priority.Weight() > b.Priority.Weight()
	})

	return ranked
}

// RankFunc adapts a plain comparator-applied ordering function to a RankStrategy
type RankFunc func(tasks []Task) []Task

// Rank calls the wrapped function
func (f RankFunc) Rank(tasks []Task) []Task {
	return f(tasks)
}
