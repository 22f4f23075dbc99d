package store

import (
	"database/sql"
	"time"

	"github.com/Jericoz-JC/flux-notes/internal/models"
)

// StartSession records a new running focus session with the requested
// target duration in seconds. Keeping at most one session running is the
// caller's convention, not a database constraint.
func (db *DB) StartSession(durationSeconds int, todoID *string) (*models.FocusSession, error) {
	id := NewID()
	now := time.Now()

	_, err := db.conn.Exec(`
		INSERT INTO focus_sessions (id, start_time, duration, actual_duration, status, todo_id, created_at)
		VALUES (?, ?, ?, 0, 'running', ?, ?)
	`, id, now.UnixMilli(), durationSeconds, todoID, now.UnixMilli())
	if err != nil {
		return nil, wrapErr("start session", err)
	}

	return &models.FocusSession{
		ID:        id,
		StartTime: now,
		Duration:  durationSeconds,
		Status:    models.FocusRunning,
		TodoID:    todoID,
		CreatedAt: now,
	}, nil
}

// RunningSession returns the running session if any, nil otherwise.
func (db *DB) RunningSession() (*models.FocusSession, error) {
	row := db.conn.QueryRow(`
		SELECT id, start_time, end_time, duration, actual_duration, status, todo_id, created_at
		FROM focus_sessions WHERE status = 'running' LIMIT 1
	`)
	s, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("running session", err)
	}
	return s, nil
}

// UpdateSessionDuration sets the tracked focused time for a session;
// typically called on timer ticks or pause/resume while running. Returns
// nil when the session does not exist.
func (db *DB) UpdateSessionDuration(id string, actualSeconds int) (*models.FocusSession, error) {
	res, err := db.conn.Exec(`UPDATE focus_sessions SET actual_duration = ? WHERE id = ?`, actualSeconds, id)
	if err != nil {
		return nil, wrapErr("update session duration", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return db.Session(id)
}

// CompleteSession marks a session completed, recomputing actual_duration
// from wall-clock elapsed time and overwriting any tracked value.
func (db *DB) CompleteSession(id string) (*models.FocusSession, error) {
	return db.finishSession(id, models.FocusCompleted)
}

// CancelSession marks a session cancelled; same bookkeeping as completion.
func (db *DB) CancelSession(id string) (*models.FocusSession, error) {
	return db.finishSession(id, models.FocusCancelled)
}

func (db *DB) finishSession(id string, status models.FocusStatus) (*models.FocusSession, error) {
	s, err := db.Session(id)
	if err != nil || s == nil {
		return nil, err
	}

	now := time.Now()
	elapsed := int(now.UnixMilli()-s.StartTime.UnixMilli()) / 1000

	_, err = db.conn.Exec(`
		UPDATE focus_sessions SET status = ?, end_time = ?, actual_duration = ? WHERE id = ?
	`, status, now.UnixMilli(), elapsed, id)
	if err != nil {
		return nil, wrapErr("finish session", err)
	}
	return db.Session(id)
}

// Session returns the session with the given id, or nil if absent.
func (db *DB) Session(id string) (*models.FocusSession, error) {
	row := db.conn.QueryRow(`
		SELECT id, start_time, end_time, duration, actual_duration, status, todo_id, created_at
		FROM focus_sessions WHERE id = ?
	`, id)
	s, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("get session", err)
	}
	return s, nil
}

// ListSessions returns the most recent sessions, newest first. A non-positive
// limit defaults to 100.
func (db *DB) ListSessions(limit int) ([]models.FocusSession, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.conn.Query(`
		SELECT id, start_time, end_time, duration, actual_duration, status, todo_id, created_at
		FROM focus_sessions ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, wrapErr("list sessions", err)
	}
	return collectSessions(rows)
}

// SessionsForTodo returns the sessions attached to a todo, newest first.
func (db *DB) SessionsForTodo(todoID string) ([]models.FocusSession, error) {
	rows, err := db.conn.Query(`
		SELECT id, start_time, end_time, duration, actual_duration, status, todo_id, created_at
		FROM focus_sessions WHERE todo_id = ? ORDER BY created_at DESC
	`, todoID)
	if err != nil {
		return nil, wrapErr("sessions for todo", err)
	}
	return collectSessions(rows)
}

// FocusStats aggregates all sessions: totals over completed sessions, the
// local-day and Sunday-based-week focus-time windows, and the day streaks.
func (db *DB) FocusStats() (*models.FocusStats, error) {
	var s models.FocusStats
	err := db.conn.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN actual_duration ELSE 0 END), 0)
		FROM focus_sessions
	`).Scan(&s.TotalSessions, &s.CompletedSessions, &s.TotalFocusTime)
	if err != nil {
		return nil, wrapErr("focus stats", err)
	}
	if s.CompletedSessions > 0 {
		s.AverageSessionLength = float64(s.TotalFocusTime) / float64(s.CompletedSessions)
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := dayStart.AddDate(0, 0, -int(dayStart.Weekday()))

	if err := db.completedTimeSince(dayStart, &s.TodayFocusTime); err != nil {
		return nil, err
	}
	if err := db.completedTimeSince(weekStart, &s.ThisWeekFocusTime); err != nil {
		return nil, err
	}

	current, longest, err := db.streaks(dayStart)
	if err != nil {
		return nil, err
	}
	s.CurrentStreak = current
	s.LongestStreak = longest

	return &s, nil
}

func (db *DB) completedTimeSince(since time.Time, out *int) error {
	err := db.conn.QueryRow(`
		SELECT COALESCE(SUM(actual_duration), 0)
		FROM focus_sessions
		WHERE status = 'completed' AND start_time >= ?
	`, since.UnixMilli()).Scan(out)
	if err != nil {
		return wrapErr("focus stats: window", err)
	}
	return nil
}

// streaks walks the distinct local calendar days that have at least one
// completed session, newest first. The current streak only counts if the
// most recent such day is today or yesterday, and is zeroed again if a gap
// appears later in the walk. Day adjacency is a calendar comparison, not an
// hour delta, so DST transitions do not split a streak.
func (db *DB) streaks(today time.Time) (current, longest int, err error) {
	rows, err := db.conn.Query(`
		SELECT DISTINCT date(start_time / 1000, 'unixepoch', 'localtime') AS session_date
		FROM focus_sessions
		WHERE status = 'completed'
		ORDER BY session_date DESC
	`)
	if err != nil {
		return 0, 0, wrapErr("focus stats: streak days", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return 0, 0, err
		}
		day, err := time.ParseInLocation("2006-01-02", d, today.Location())
		if err != nil {
			return 0, 0, err
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return 0, 0, err
	}
	if len(days) == 0 {
		return 0, 0, nil
	}

	streak := 0
	var prev time.Time

	for i, day := range days {
		if i == 0 {
			streak = 1
			if day.Equal(today) || day.Equal(today.AddDate(0, 0, -1)) {
				current = 1
			}
		} else if day.Equal(prev.AddDate(0, 0, -1)) {
			streak++
			if current > 0 {
				current = streak
			}
		} else {
			if streak > longest {
				longest = streak
			}
			streak = 1
			current = 0
		}
		if streak > longest {
			longest = streak
		}
		prev = day
	}

	return current, longest, nil
}

func scanSession(r rowScanner) (*models.FocusSession, error) {
	var s models.FocusSession
	var start, created int64
	var end sql.NullInt64
	var todoID sql.NullString
	if err := r.Scan(&s.ID, &start, &end, &s.Duration, &s.ActualDuration, &s.Status, &todoID, &created); err != nil {
		return nil, err
	}
	s.StartTime = time.UnixMilli(start)
	if end.Valid {
		e := time.UnixMilli(end.Int64)
		s.EndTime = &e
	}
	if todoID.Valid {
		s.TodoID = &todoID.String
	}
	s.CreatedAt = time.UnixMilli(created)
	return &s, nil
}

func collectSessions(rows *sql.Rows) ([]models.FocusSession, error) {
	defer rows.Close()
	var out []models.FocusSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}
