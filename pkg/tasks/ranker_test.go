package tasks

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDueDateFirstStrategy_Rank(t *testing.T) {
	noDue := Task{ID: primitive.NewObjectID(), Name: "no due date", Priority: PriorityHigh}
	dueLater := Task{ID: primitive.NewObjectID(), Name: "due later", Priority: PriorityLow, DueAt: timeDate(2021, 6, 15, 0, 0, 0)}
	dueSoon := Task{ID: primitive.NewObjectID(), Name: "due soon", Priority: PriorityLow, DueAt: timeDate(2021, 6, 9, 0, 0, 0)}
	dueSoonImportant := Task{ID: primitive.NewObjectID(), Name: "due soon and important", Priority: PriorityHigh, DueAt: timeDate(2021, 6, 9, 0, 0, 0)}

	input := []Task{noDue, dueLater, dueSoon, dueSoonImportant}

	ranked := DueDateFirstStrategy{}.Rank(input)

	wantOrder := []string{"due soon and important", "due soon", "due later", "no due date"}
	for i, want := range wantOrder {
		if ranked[i].Name != want {
			t.Errorf("rank %d = %q, want %q", i, ranked[i].Name, want)
		}
	}

	// The input slice must stay untouched
	if input[0].Name != "no due date" {
		t.Errorf("Rank() reordered its input slice")
	}
}

func TestDueDateFirstStrategy_RankIsStable(t *testing.T) {
	due := timeDate(2021, 6, 9, 0, 0, 0)

	first := Task{ID: primitive.NewObjectID(), Name: "first", Priority: PriorityMedium, DueAt: due}
	second := Task{ID: primitive.NewObjectID(), Name: "second", Priority: PriorityMedium, DueAt: due}

	ranked := DueDateFirstStrategy{}.Rank([]Task{first, second})

	if ranked[0].Name != "first" || ranked[1].Name != "second" {
		t.Errorf("equal tasks were reordered: %q before %q", ranked[0].Name, ranked[1].Name)
	}
}

func TestRankFunc(t *testing.T) {
	reversed := RankFunc(func(tasks []Task) []Task {
		ranked := make([]Task, len(tasks))
		for i := range tasks {
			ranked[len(tasks)-1-i] = tasks[i]
		}
		return ranked
	})

	input := []Task{{Name: "a"}, {Name: "b"}}
	ranked := reversed.Rank(input)

	if ranked[0].Name != "b" || ranked[1].Name != "a" {
		t.Errorf("RankFunc did not apply the wrapped ordering")
	}
}

func TestPriority_Weight(t *testing.T) {
	if PriorityHigh.Weight() <= PriorityMedium.Weight() || PriorityMedium.Weight() <= PriorityLow.Weight() {
		t.Errorf("priority weights are not strictly ordered")
	}

	if Priority("unknown").Weight() != 0 {
		t.Errorf("unknown priority should weigh 0")
	}
}

func TestTask_RemainingPlannedWork(t *testing.T) {
	task := Task{PlannedDuration: 2 * time.Hour, ActualDuration: 30 * time.Minute}
	if task.RemainingPlannedWork() != 90*time.Minute {
		t.Errorf("RemainingPlannedWork() = %v, want 90m", task.RemainingPlannedWork())
	}

	overlogged := Task{PlannedDuration: time.Hour, ActualDuration: 2 * time.Hour}
	if overlogged.RemainingPlannedWork() != 0 {
		t.Errorf("RemainingPlannedWork() = %v, want 0", overlogged.RemainingPlannedWork())
	}
}
