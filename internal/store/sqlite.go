package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"todoapp/internal/models"
)

const dateLayout = "2006-01-02"

// overdueCondition mirrors models.TaskFilter's overdue predicate. Due dates are
// stored as YYYY-MM-DD strings, so the comparison against datetime('now') treats
// the due day's midnight UTC as the deadline.
const overdueCondition = `due_date IS NOT NULL AND due_date < datetime('now') AND is_completed = 0`

const taskColumns = `
	t.id, t.title, t.description, t.priority, t.is_completed, t.due_date,
	t.tags, t.category_id, t.order_index, t.created_at, t.updated_at,
	c.name, c.color`

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given database path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Each pooled connection would otherwise get its own in-memory database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &SQLiteStore{db: db}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(scanner rowScanner) (*models.Task, error) {
	var (
		task          models.Task
		dueDate       sql.NullTime
		tagsJSON      string
		categoryID    sql.NullInt64
		categoryName  sql.NullString
		categoryColor sql.NullString
	)

	err := scanner.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Priority,
		&task.IsCompleted,
		&dueDate,
		&tagsJSON,
		&categoryID,
		&task.OrderIndex,
		&task.CreatedAt,
		&task.UpdatedAt,
		&categoryName,
		&categoryColor,
	)
	if err != nil {
		return nil, err
	}

	if dueDate.Valid {
		// The driver parses DATE columns, so the value is already midnight
		// UTC of the due day.
		t := dueDate.Time
		task.DueDate = &t
	}

	task.Tags = []string{}
	if tagsJSON != "" {
		if err := json.Unmarshal([]byte(tagsJSON), &task.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags for task %d: %w", task.ID, err)
		}
		if task.Tags == nil {
			task.Tags = []string{}
		}
	}

	if categoryID.Valid {
		id := categoryID.Int64
		task.CategoryID = &id
		if categoryName.Valid {
			task.Category = &models.CategorySummary{
				ID:    id,
				Name:  categoryName.String,
				Color: categoryColor.String,
			}
		}
	}

	return &task, nil
}

// ListTasks retrieves tasks matching the filter, ordered by order_index
// ascending with created_at descending breaking ties. The category, priority,
// completed, and overdue predicates run in SQL; the search predicate runs
// through the same evaluator the presentation layer uses, so matching within
// the tag list never depends on the serialized tag representation.
func (s *SQLiteStore) ListTasks(ctx context.Context, filter *models.TaskFilter) ([]models.Task, error) {
	if filter == nil {
		filter = &models.TaskFilter{}
	}

	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE 1=1`
	var args []interface{}

	if filter.CategoryID != nil {
		query += ` AND t.category_id = ?`
		args = append(args, *filter.CategoryID)
	}
	if filter.Priority != "" {
		query += ` AND t.priority = ?`
		args = append(args, filter.Priority)
	}
	if filter.Completed != nil {
		query += ` AND t.is_completed = ?`
		args = append(args, *filter.Completed)
	}
	if filter.Overdue {
		// Column names are unambiguous: categories carries neither due_date
		// nor is_completed.
		query += ` AND ` + overdueCondition
	}

	query += ` ORDER BY t.order_index ASC, t.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		if !filter.MatchSearch(task) {
			continue
		}
		tasks = append(tasks, *task)
	}

	return tasks, rows.Err()
}

// GetTask retrieves a task by ID.
func (s *SQLiteStore) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.id = ?
	`, id)

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// CreateTask creates a new task. The order index is assigned inside the
// insert as one greater than the current maximum, or 0 for the first task.
func (s *SQLiteStore) CreateTask(ctx context.Context, task *models.Task) error {
	now := time.Now()
	task.Title = strings.TrimSpace(task.Title)
	task.Tags = models.NormalizeTags(task.Tags)

	tagsJSON, err := json.Marshal(task.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	var dueDate interface{}
	if task.DueDate != nil {
		dueDate = task.DueDate.Format(dateLayout)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (title, description, priority, is_completed, due_date, tags, category_id, order_index, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(order_index) + 1, 0) FROM tasks), ?, ?)
	`, task.Title, task.Description, task.Priority, task.IsCompleted, dueDate, string(tagsJSON), task.CategoryID, now, now)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("category does not exist: %w", ErrInvalidRef)
		}
		return fmt.Errorf("failed to create task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	created, err := s.GetTask(ctx, id)
	if err != nil {
		return err
	}
	*task = *created

	return nil
}

// UpdateTask writes the full task row. The caller is responsible for merging
// partial updates into the current record first.
func (s *SQLiteStore) UpdateTask(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now()
	task.Title = strings.TrimSpace(task.Title)
	task.Tags = models.NormalizeTags(task.Tags)

	tagsJSON, err := json.Marshal(task.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	var dueDate interface{}
	if task.DueDate != nil {
		dueDate = task.DueDate.Format(dateLayout)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, priority = ?, is_completed = ?, due_date = ?, tags = ?, category_id = ?, order_index = ?, updated_at = ?
		WHERE id = ?
	`, task.Title, task.Description, task.Priority, task.IsCompleted, dueDate, string(tagsJSON), task.CategoryID, task.OrderIndex, task.UpdatedAt, task.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("category does not exist: %w", ErrInvalidRef)
		}
		return fmt.Errorf("failed to update task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("task %d: %w", task.ID, ErrNotFound)
	}

	return nil
}

// DeleteTask deletes a task by ID.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}

	return nil
}

// SetTaskCompletion sets the completion state to the given value and
// refreshes updated_at.
func (s *SQLiteStore) SetTaskCompletion(ctx context.Context, id int64, completed bool) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET is_completed = ?, updated_at = ? WHERE id = ?
	`, completed, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set task completion: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}

	return nil
}

// ReorderTasks applies a batch of (id, order_index) updates in a single
// transaction and returns the affected tasks sorted by their new order.
func (s *SQLiteStore) ReorderTasks(ctx context.Context, moves []models.TaskPosition) ([]models.Task, error) {
	if len(moves) == 0 {
		return []models.Task{}, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE tasks SET order_index = ?, updated_at = ? WHERE id = ?`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, move := range moves {
		result, err := stmt.ExecContext(ctx, move.OrderIndex, now, move.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to update order index: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return nil, fmt.Errorf("task %d: %w", move.ID, ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reorder: %w", err)
	}

	placeholders := make([]string, len(moves))
	args := make([]interface{}, len(moves))
	for i, move := range moves {
		placeholders[i] = "?"
		args[i] = move.ID
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.id IN (`+strings.Join(placeholders, ", ")+`)
		ORDER BY t.order_index ASC, t.created_at DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reordered tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}

	return tasks, rows.Err()
}

// ListCategories retrieves all categories ordered by name.
func (s *SQLiteStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, color, created_at FROM categories ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Color, &category.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

// GetCategory retrieves a category by ID.
func (s *SQLiteStore) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	category := &models.Category{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, color, created_at FROM categories WHERE id = ?
	`, id).Scan(&category.ID, &category.Name, &category.Color, &category.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return category, nil
}

// CreateCategory creates a new category. Duplicate names surface as conflicts.
func (s *SQLiteStore) CreateCategory(ctx context.Context, category *models.Category) error {
	category.Name = strings.TrimSpace(category.Name)
	if category.Color == "" {
		category.Color = models.DefaultCategoryColor
	}
	category.CreatedAt = time.Now()

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (name, color, created_at) VALUES (?, ?, ?)
	`, category.Name, category.Color, category.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category name %q already exists: %w", category.Name, ErrConflict)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	category.ID = id

	return nil
}

// UpdateCategory updates an existing category.
func (s *SQLiteStore) UpdateCategory(ctx context.Context, category *models.Category) error {
	category.Name = strings.TrimSpace(category.Name)

	result, err := s.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, color = ? WHERE id = ?
	`, category.Name, category.Color, category.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category name %q already exists: %w", category.Name, ErrConflict)
		}
		return fmt.Errorf("failed to update category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("category %d: %w", category.ID, ErrNotFound)
	}

	return nil
}

// DeleteCategory nulls out category_id on referencing tasks and deletes the
// category, in one transaction so no intermediate state is visible.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE tasks SET category_id = NULL WHERE category_id = ?`, id); err != nil {
		return fmt.Errorf("failed to detach tasks from category: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("category %d: %w", id, ErrNotFound)
	}

	return tx.Commit()
}

// Stats aggregates task counts using the same completed and overdue rules as
// the listing filter.
func (s *SQLiteStore) Stats(ctx context.Context) (*models.Stats, error) {
	stats := &models.Stats{
		ByPriority: []models.PriorityCount{},
		ByCategory: []models.CategoryCount{},
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN is_completed THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN NOT is_completed THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN priority = 'high' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN `+overdueCondition+` THEN 1 ELSE 0 END), 0)
		FROM tasks
	`).Scan(&stats.Total, &stats.Completed, &stats.Pending, &stats.HighPriority, &stats.Overdue)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate task counts: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT priority, COUNT(*) FROM tasks
		GROUP BY priority
		ORDER BY CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by priority: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pc models.PriorityCount
		if err := rows.Scan(&pc.Priority, &pc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan priority count: %w", err)
		}
		stats.ByPriority = append(stats.ByPriority, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	categoryRows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.color, COUNT(t.id)
		FROM categories c
		LEFT JOIN tasks t ON c.id = t.category_id
		GROUP BY c.id, c.name, c.color
		ORDER BY COUNT(t.id) DESC, c.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by category: %w", err)
	}
	defer categoryRows.Close()

	for categoryRows.Next() {
		var cc models.CategoryCount
		if err := categoryRows.Scan(&cc.ID, &cc.Name, &cc.Color, &cc.TaskCount); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		stats.ByCategory = append(stats.ByCategory, cc)
	}

	return stats, categoryRows.Err()
}
