package tasks

import "fmt"

// TaskTextRenderer renders the calendar-facing texts for a task
type TaskTextRenderer struct {
}

// RenderBlockEventTitle renders the title of a scheduled work block
func (r *TaskTextRenderer) RenderBlockEventTitle(task *Task) string {
	return fmt.Sprintf("⚙️ Working on %s", task.Name)
}
