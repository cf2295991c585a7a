// Package sqlite provides the durable core.Store backend on a local SQLite
// database. The schema mirrors the domain model one table per record type;
// JSON columns hold the open-ended maps (agent configuration, questionnaire
// answers). The database is opened in WAL mode for concurrent readers and
// migrated on open.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hupe1980/agenthub/core"
)

// Store implements core.Store on SQLite.
type Store struct {
	db *sql.DB
}

var _ core.Store = (*Store)(nil)

// Open opens (or creates) the database at dbPath and runs the schema
// migration. Use ":memory:" for an ephemeral database.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store db: %w", err)
	}
	// WAL mode for better concurrent reads.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate store db: %w", err)
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS agents (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL UNIQUE,
			keywords      TEXT NOT NULL,
			configuration TEXT NOT NULL DEFAULT '{}',
			display_name  TEXT NOT NULL DEFAULT '{}'
		);
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			configuration TEXT NOT NULL DEFAULT '{}'
		);
		CREATE TABLE IF NOT EXISTS agent_items (
			user_id   TEXT NOT NULL,
			agent_id  TEXT NOT NULL,
			answers   TEXT NOT NULL DEFAULT '{}',
			completed INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, agent_id)
		);
		CREATE TABLE IF NOT EXISTS conversation_history (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL,
			agent_id    TEXT NOT NULL,
			session_key TEXT NOT NULL,
			role        TEXT NOT NULL,
			content     TEXT NOT NULL,
			timestamp   TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_history_pair
			ON conversation_history (user_id, agent_id);
		CREATE TABLE IF NOT EXISTS scheduler (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			agent_id   TEXT NOT NULL,
			at_seconds INTEGER NOT NULL,
			prompt     TEXT NOT NULL
		);
	`)
	return err
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

// SaveAgentDescriptor inserts or replaces one catalog row. Used by seeding
// and administrative tooling; the running system treats the catalog as
// read-only.
func (s *Store) SaveAgentDescriptor(ctx context.Context, d core.AgentDescriptor) error {
	cfgJSON, err := json.Marshal(orEmptyMap(d.Configuration))
	if err != nil {
		return fmt.Errorf("marshal agent configuration: %w", err)
	}
	displayJSON, err := json.Marshal(d.DisplayName)
	if err != nil {
		return fmt.Errorf("marshal agent display names: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO agents (id, name, keywords, configuration, display_name) VALUES (?, ?, ?, ?, ?)",
		d.ID, d.Name, strings.Join(d.Keywords, ","), string(cfgJSON), string(displayJSON),
	)
	return err
}

// ListAgentDescriptors implements core.DescriptorLister.
func (s *Store) ListAgentDescriptors(ctx context.Context) ([]core.AgentDescriptor, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, keywords, configuration, display_name FROM agents ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	var out []core.AgentDescriptor
	for rows.Next() {
		var d core.AgentDescriptor
		var keywords, cfgJSON, displayJSON string
		if err := rows.Scan(&d.ID, &d.Name, &keywords, &cfgJSON, &displayJSON); err != nil {
			return nil, fmt.Errorf("scan agent row: %w", err)
		}
		for _, kw := range strings.Split(keywords, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				d.Keywords = append(d.Keywords, kw)
			}
		}
		if err := json.Unmarshal([]byte(cfgJSON), &d.Configuration); err != nil {
			return nil, fmt.Errorf("unmarshal agent configuration: %w", err)
		}
		if err := json.Unmarshal([]byte(displayJSON), &d.DisplayName); err != nil {
			return nil, fmt.Errorf("unmarshal agent display names: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetUserConfiguration implements core.UserConfigurationStore.
func (s *Store) GetUserConfiguration(ctx context.Context, userID string) (core.UserConfiguration, error) {
	var cfgJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT configuration FROM users WHERE id = ?", userID).Scan(&cfgJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return core.UserConfiguration{}, core.ErrNotFound
	}
	if err != nil {
		return core.UserConfiguration{}, fmt.Errorf("get user configuration: %w", err)
	}
	var cfg core.UserConfiguration
	if err := json.Unmarshal([]byte(cfgJSON), &cfg); err != nil {
		return core.UserConfiguration{}, fmt.Errorf("unmarshal user configuration: %w", err)
	}
	return cfg, nil
}

// UpdateUserConfiguration implements core.UserConfigurationStore.
func (s *Store) UpdateUserConfiguration(ctx context.Context, userID string, cfg core.UserConfiguration) error {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal user configuration: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (id, configuration) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET configuration = excluded.configuration",
		userID, string(cfgJSON),
	)
	return err
}

// GetQuestionnaireAnswers implements core.QuestionnaireStore.
func (s *Store) GetQuestionnaireAnswers(ctx context.Context, userID, agentID string) (core.QuestionnaireAnswers, error) {
	var answersJSON string
	var completed bool
	err := s.db.QueryRowContext(ctx,
		"SELECT answers, completed FROM agent_items WHERE user_id = ? AND agent_id = ?",
		userID, agentID).Scan(&answersJSON, &completed)
	if errors.Is(err, sql.ErrNoRows) {
		return core.QuestionnaireAnswers{Answers: map[string]any{}}, nil
	}
	if err != nil {
		return core.QuestionnaireAnswers{}, fmt.Errorf("get questionnaire answers: %w", err)
	}
	qa := core.QuestionnaireAnswers{Completed: completed}
	if err := json.Unmarshal([]byte(answersJSON), &qa.Answers); err != nil {
		return core.QuestionnaireAnswers{}, fmt.Errorf("unmarshal questionnaire answers: %w", err)
	}
	if qa.Answers == nil {
		qa.Answers = map[string]any{}
	}
	return qa, nil
}

// SaveQuestionnaireAnswers implements core.QuestionnaireStore.
func (s *Store) SaveQuestionnaireAnswers(ctx context.Context, userID, agentID string, a core.QuestionnaireAnswers) error {
	answersJSON, err := json.Marshal(orEmptyMap(a.Answers))
	if err != nil {
		return fmt.Errorf("marshal questionnaire answers: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO agent_items (user_id, agent_id, answers, completed) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, agent_id) DO UPDATE SET answers = excluded.answers, completed = excluded.completed`,
		userID, agentID, string(answersJSON), a.Completed,
	)
	return err
}

// Append implements core.SessionStore.
func (s *Store) Append(ctx context.Context, rec core.SessionRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = core.NewID()
	}
	if rec.SessionKey == "" {
		rec.SessionKey = core.DefaultSessionKey(rec.UserID, rec.AgentID)
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO conversation_history (id, user_id, agent_id, session_key, role, content, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)",
		rec.ID, rec.UserID, rec.AgentID, rec.SessionKey, string(rec.Role), rec.Content,
		rec.Timestamp.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("append session record: %w", err)
	}
	return rec.ID, nil
}

// Read implements core.SessionStore: most-recent-first by insertion order.
func (s *Store) Read(ctx context.Context, q core.SessionQuery) ([]core.SessionRecord, error) {
	query := "SELECT id, user_id, agent_id, session_key, role, content, timestamp FROM conversation_history WHERE user_id = ? AND agent_id = ?"
	args := []any{q.UserID, q.AgentID}
	if q.SessionKey != "" {
		query += " AND session_key = ?"
		args = append(args, q.SessionKey)
	}
	if !q.IncludeTool {
		query += " AND role != ?"
		args = append(args, string(core.RoleTool))
	}
	query += " ORDER BY rowid DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read session records: %w", err)
	}
	defer rows.Close()

	var out []core.SessionRecord
	for rows.Next() {
		var rec core.SessionRecord
		var role, ts string
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.AgentID, &rec.SessionKey, &role, &rec.Content, &ts); err != nil {
			return nil, fmt.Errorf("scan session record: %w", err)
		}
		rec.Role = core.Role(role)
		if rec.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parse record timestamp: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// LastSessionKey implements core.SessionStore.
func (s *Store) LastSessionKey(ctx context.Context, userID, agentID string) (string, error) {
	var key string
	err := s.db.QueryRowContext(ctx,
		"SELECT session_key FROM conversation_history WHERE user_id = ? AND agent_id = ? ORDER BY rowid DESC LIMIT 1",
		userID, agentID).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", core.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("last session key: %w", err)
	}
	return key, nil
}

// SaveSchedule inserts or replaces one scheduled prompt.
func (s *Store) SaveSchedule(ctx context.Context, sched core.Schedule) error {
	if sched.ID == "" {
		sched.ID = core.NewID()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO scheduler (id, user_id, agent_id, at_seconds, prompt) VALUES (?, ?, ?, ?, ?)",
		sched.ID, sched.UserID, sched.AgentID, int64(sched.At/time.Second), sched.Prompt,
	)
	return err
}

// ListSchedules implements core.ScheduleLister.
func (s *Store) ListSchedules(ctx context.Context) ([]core.Schedule, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, agent_id, at_seconds, prompt FROM scheduler ORDER BY at_seconds")
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	var out []core.Schedule
	for rows.Next() {
		var sched core.Schedule
		var atSeconds int64
		if err := rows.Scan(&sched.ID, &sched.UserID, &sched.AgentID, &atSeconds, &sched.Prompt); err != nil {
			return nil, fmt.Errorf("scan schedule row: %w", err)
		}
		sched.At = time.Duration(atSeconds) * time.Second
		out = append(out, sched)
	}
	return out, rows.Err()
}

func orEmptyMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
