package tasks

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"trip_planner_app/internal/models"
)

// retryBackoff is the delay before the n-th retry of a failed task
func retryBackoff(attempt int) time.Duration {
	return time.Duration(attempt) * time.Minute
}

// Runner executes due scheduled tasks and records their history
type Runner struct {
	db       *gorm.DB
	registry *Registry
	now      func() time.Time
}

// NewRunner creates a Runner over the global registry
func NewRunner(db *gorm.DB) *Runner {
	return &Runner{db: db, registry: GlobalRegistry, now: time.Now}
}

// RunDue executes every active task whose due time has passed
func (r *Runner) RunDue(ctx context.Context) {
	log.Println("Checking for pending tasks...")

	var pending []models.ScheduledTask
	if err := r.db.WithContext(ctx).
		Where("status = ? AND due <= ?", models.ScheduledTaskStatusActive, r.now()).
		Order("due ASC").
		Find(&pending).Error; err != nil {
		log.Printf("Error fetching pending tasks: %v", err)
		return
	}
	if len(pending) == 0 {
		log.Println("No pending tasks found.")
		return
	}

	log.Printf("Found %d pending tasks.", len(pending))
	for _, task := range pending {
		if ctx.Err() != nil {
			return
		}
		r.execute(ctx, task)
	}
}

func (r *Runner) execute(ctx context.Context, task models.ScheduledTask) {
	log.Printf("Processing task: %s (ID: %d)", task.TaskName, task.ID)

	startedAt := r.now()
	var result map[string]interface{}
	var runErr error
	status := "success"

	handler, found := r.registry.Get(task.TaskName)
	if !found {
		status = "handler_not_found"
		result = map[string]interface{}{"error": "handler not found"}
		log.Printf("Task handler not found for: %s. Marking as failure.", task.TaskName)
	} else {
		result, runErr = handler(ctx, r.db, task)
		if runErr != nil {
			status = "failure"
			result = map[string]interface{}{"error": runErr.Error()}
			log.Printf("Task %s failed: %v", task.TaskName, runErr)
		} else {
			log.Printf("Task %s completed successfully.", task.TaskName)
		}
	}

	history := models.ScheduledTaskHistory{
		ScheduledTaskID: task.ID,
		TaskName:        task.TaskName,
		RunAt:           startedAt,
		RuntimeMs:       int(r.now().Sub(startedAt).Milliseconds()),
		Status:          status,
		AttemptNumber:   task.Attempts + 1,
		Arguments:       task.Arguments,
		Result:          result,
	}
	if err := r.db.WithContext(ctx).Create(&history).Error; err != nil {
		log.Printf("Failed to record history of task %d: %v", task.ID, err)
	}

	updates := nextState(task, found, runErr, startedAt)
	if err := r.db.WithContext(ctx).Model(&models.ScheduledTask{}).Where("id = ?", task.ID).Updates(updates).Error; err != nil {
		log.Printf("Failed to update task %d: %v", task.ID, err)
	}
}

// nextState returns the column updates for a task after one run
func nextState(task models.ScheduledTask, found bool, runErr error, startedAt time.Time) map[string]interface{} {
	updates := map[string]interface{}{"last_run": startedAt}

	if !found {
		updates["status"] = models.ScheduledTaskStatusFailure
		return updates
	}

	if runErr != nil {
		task.Attempts++
		updates["attempts"] = task.Attempts
		if task.CanRetry() {
			updates["status"] = models.ScheduledTaskStatusActive
			updates["due"] = startedAt.Add(retryBackoff(task.Attempts))
		} else {
			updates["status"] = models.ScheduledTaskStatusFailure
		}
		return updates
	}

	updates["attempts"] = 0
	if task.TaskType == models.ScheduledTaskTypeRecurring {
		if next := task.NextDue(startedAt); !next.IsZero() {
			updates["status"] = models.ScheduledTaskStatusActive
			updates["due"] = next
			return updates
		}
	}
	updates["status"] = models.ScheduledTaskStatusDone
	return updates
}
