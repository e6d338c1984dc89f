package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/azan1ud/landlordshield/internal/model"
	"github.com/azan1ud/landlordshield/internal/service"
)

var taskColumns = []string{
	"id", "owner_id", "property_id", "domain", "task_key", "title", "description",
	"priority", "is_completed", "completed_at", "due_date", "created_at",
}

// CreateTask saves a task, assigning an ID when none is set.
// A second task with the same owner, scope and key returns ErrDuplicateTask.
func (s *SQLiteStorage) CreateTask(ctx context.Context, task *model.Task) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTask(task); err != nil {
		return err
	}
	return createTask(ctx, s.db, task)
}

func createTask(ctx context.Context, q querier, task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO tasks (id, owner_id, property_id, domain, task_key, title, description,
			priority, is_completed, completed_at, due_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.OwnerID, task.PropertyID, string(task.Domain), task.Key, task.Title,
		task.Description, string(task.Priority), task.IsCompleted, task.CompletedAt,
		utcDate(task.DueDate), task.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %s", ErrDuplicateTask, task.Key)
		}
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// GetTask retrieves a task by ID.
func (s *SQLiteStorage) GetTask(ctx context.Context, id string) (*model.Task, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return getTask(ctx, s.db, id)
}

func getTask(ctx context.Context, q querier, id string) (*model.Task, error) {
	query, args, err := sq.Select(taskColumns...).From("tasks").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build task query: %w", err)
	}

	task, err := scanTask(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// ListTasks returns the tasks matching filter, earliest due date first.
// Tasks without a due date sort last.
func (s *SQLiteStorage) ListTasks(ctx context.Context, filter service.TaskFilter) ([]model.Task, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return listTasks(ctx, s.db, filter)
}

func listTasks(ctx context.Context, q querier, filter service.TaskFilter) ([]model.Task, error) {
	builder := sq.Select(taskColumns...).From("tasks")

	if filter.OwnerID != "" {
		builder = builder.Where(sq.Eq{"owner_id": filter.OwnerID})
	}
	if filter.PropertyID != nil {
		if filter.IncludeAccountWide {
			builder = builder.Where(sq.Or{
				sq.Eq{"property_id": *filter.PropertyID},
				sq.Eq{"property_id": nil},
			})
		} else {
			builder = builder.Where(sq.Eq{"property_id": *filter.PropertyID})
		}
	}
	if filter.Domain != "" {
		builder = builder.Where(sq.Eq{"domain": string(filter.Domain)})
	}
	if filter.OutstandingOnly {
		builder = builder.Where(sq.Eq{"is_completed": false})
	}

	query, args, err := builder.
		OrderBy("due_date IS NULL", "due_date", "created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build task query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []model.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// TaskExists reports whether the owner already has a task with key in the given scope.
func (s *SQLiteStorage) TaskExists(ctx context.Context, ownerID string, propertyID *string, key string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	return taskExists(ctx, s.db, ownerID, propertyID, key)
}

func taskExists(ctx context.Context, q querier, ownerID string, propertyID *string, key string) (bool, error) {
	scope := sq.Eq{"owner_id": ownerID, "task_key": key, "property_id": nil}
	if propertyID != nil {
		scope["property_id"] = *propertyID
	}

	query, args, err := sq.Select("COUNT(*)").From("tasks").Where(scope).ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build task query: %w", err)
	}

	var count int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check task: %w", err)
	}
	return count > 0, nil
}

// SetTaskCompletion marks a task completed at the given time, or reopens it.
func (s *SQLiteStorage) SetTaskCompletion(ctx context.Context, id string, completed bool, at time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return setTaskCompletion(ctx, s.db, id, completed, at)
}

func setTaskCompletion(ctx context.Context, q querier, id string, completed bool, at time.Time) error {
	if err := validateString(id, "id"); err != nil {
		return err
	}

	var completedAt *time.Time
	if completed {
		t := at.UTC()
		completedAt = &t
	}

	result, err := q.ExecContext(ctx,
		`UPDATE tasks SET is_completed = ?, completed_at = ? WHERE id = ?`,
		completed, completedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*model.Task, error) {
	var (
		task        model.Task
		propertyID  sql.NullString
		domain      string
		priority    string
		completedAt sql.NullTime
		dueDate     sql.NullTime
	)

	err := row.Scan(&task.ID, &task.OwnerID, &propertyID, &domain, &task.Key, &task.Title,
		&task.Description, &priority, &task.IsCompleted, &completedAt, &dueDate, &task.CreatedAt)
	if err != nil {
		return nil, err
	}

	task.Domain = model.ParseDomain(domain)
	task.Priority = model.ParsePriority(priority)
	if propertyID.Valid {
		task.PropertyID = &propertyID.String
	}
	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}
	if dueDate.Valid {
		task.DueDate = &dueDate.Time
	}
	return &task, nil
}

// utcDate stores dates in UTC so they compare consistently across readers.
func utcDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
