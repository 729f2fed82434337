// Package repository persists therapy sessions in SQLite.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/xiaot623/gogo/sfh/internal/domain"
)

// ErrSessionNotFound is returned when a session id is unknown.
var ErrSessionNotFound = errors.New("session not found")

// SQLiteStore stores sessions and their messages.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens dsn and applies migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			topic_tags TEXT NOT NULL DEFAULT '[]',
			risk_level TEXT NOT NULL DEFAULT 'low',
			coherence_history TEXT NOT NULL DEFAULT '[]',
			encrypted INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at)`,
		`CREATE TABLE IF NOT EXISTS messages (
			message_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			coherence_score REAL,
			providers TEXT,
			created_at INTEGER NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, seq)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetSession loads a session with its messages in order.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var (
		session                  domain.Session
		tags, history            string
		risk                     string
		encrypted                int
		createdAtMs, updatedAtMs int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, user_id, topic_tags, risk_level, coherence_history, encrypted, created_at, updated_at
		 FROM sessions WHERE session_id = ?`,
		sessionID).Scan(&session.SessionID, &session.UserID, &tags, &risk, &history, &encrypted, &createdAtMs, &updatedAtMs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, err
	}

	session.RiskLevel = domain.RiskLevel(risk)
	session.Encrypted = encrypted != 0
	session.CreatedAt = time.UnixMilli(createdAtMs)
	session.UpdatedAt = time.UnixMilli(updatedAtMs)
	if err := json.Unmarshal([]byte(tags), &session.TopicTags); err != nil {
		return nil, fmt.Errorf("decode topic tags: %w", err)
	}
	if err := json.Unmarshal([]byte(history), &session.CoherenceHistory); err != nil {
		return nil, fmt.Errorf("decode coherence history: %w", err)
	}

	messages, err := s.getMessages(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.Messages = messages
	return &session, nil
}

// GetOrCreateSession returns the session, creating an empty one on first reference.
func (s *SQLiteStore) GetOrCreateSession(ctx context.Context, sessionID, userID string) (*domain.Session, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, ErrSessionNotFound) {
		return nil, err
	}

	session = domain.NewSession(sessionID, userID)
	if err := s.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SaveSession upserts the session row and inserts any messages not yet stored
// for this session. Messages without an id are assigned one. A message id
// already used by another session is an error.
func (s *SQLiteStore) SaveSession(ctx context.Context, session *domain.Session) error {
	session.UpdatedAt = time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = session.UpdatedAt
	}
	tags, err := json.Marshal(nonNilTags(session.TopicTags))
	if err != nil {
		return err
	}
	history, err := json.Marshal(nonNilScores(session.CoherenceHistory))
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (session_id, user_id, topic_tags, risk_level, coherence_history, encrypted, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
			user_id = excluded.user_id,
			topic_tags = excluded.topic_tags,
			risk_level = excluded.risk_level,
			coherence_history = excluded.coherence_history,
			encrypted = excluded.encrypted,
			updated_at = excluded.updated_at`,
		session.SessionID, session.UserID, string(tags), string(session.RiskLevel), string(history),
		boolToInt(session.Encrypted), session.CreatedAt.UnixMilli(), session.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	stored, err := storedMessageIDs(ctx, tx, session.SessionID)
	if err != nil {
		return err
	}
	for i := range session.Messages {
		msg := &session.Messages[i]
		if msg.MessageID == "" {
			msg.MessageID = uuid.New().String()
		}
		if stored[msg.MessageID] {
			continue
		}
		if err := insertMessage(ctx, tx, session.SessionID, i, msg); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func storedMessageIDs(ctx context.Context, tx *sql.Tx, sessionID string) (map[string]bool, error) {
	rows, err := tx.QueryContext(ctx, `SELECT message_id FROM messages WHERE session_id = ?`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

// AppendMessage stores msg after the session's existing messages and touches the session.
func (s *SQLiteStore) AppendMessage(ctx context.Context, sessionID string, msg *domain.Message) error {
	if msg.MessageID == "" {
		msg.MessageID = uuid.New().String()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE sessions SET updated_at = ? WHERE session_id = ?`,
		time.Now().UnixMilli(), sessionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	var seq int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq) + 1, 0) FROM messages WHERE session_id = ?`, sessionID).Scan(&seq); err != nil {
		return err
	}
	if err := insertMessage(ctx, tx, sessionID, seq, msg); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteExpiredSessions removes sessions last updated before cutoff and returns how many were removed.
func (s *SQLiteStore) DeleteExpiredSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM messages WHERE session_id IN (SELECT session_id FROM sessions WHERE updated_at < ?)`,
		cutoff.UnixMilli()); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

func (s *SQLiteStore) getMessages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT message_id, role, content, coherence_score, providers, created_at
		 FROM messages WHERE session_id = ? ORDER BY seq ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var (
			msg       domain.Message
			role      string
			score     sql.NullFloat64
			providers sql.NullString
			createdMs int64
		)
		if err := rows.Scan(&msg.MessageID, &role, &msg.Content, &score, &providers, &createdMs); err != nil {
			return nil, err
		}
		msg.Role = domain.Role(role)
		msg.Timestamp = time.UnixMilli(createdMs)
		if score.Valid {
			v := score.Float64
			msg.CoherenceScore = &v
		}
		if providers.Valid && providers.String != "" {
			if err := json.Unmarshal([]byte(providers.String), &msg.Providers); err != nil {
				return nil, fmt.Errorf("decode providers: %w", err)
			}
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func insertMessage(ctx context.Context, tx *sql.Tx, sessionID string, seq int, msg *domain.Message) error {
	var providers sql.NullString
	if len(msg.Providers) > 0 {
		raw, err := json.Marshal(msg.Providers)
		if err != nil {
			return err
		}
		providers = sql.NullString{String: string(raw), Valid: true}
	}
	var score sql.NullFloat64
	if msg.CoherenceScore != nil {
		score = sql.NullFloat64{Float64: *msg.CoherenceScore, Valid: true}
	}
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO messages (message_id, session_id, seq, role, content, coherence_score, providers, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.MessageID, sessionID, seq, string(msg.Role), msg.Content, score, providers, ts.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func nonNilTags(tags []domain.TopicTag) []domain.TopicTag {
	if tags == nil {
		return []domain.TopicTag{}
	}
	return tags
}

func nonNilScores(scores []float64) []float64 {
	if scores == nil {
		return []float64{}
	}
	return scores
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
