// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package answers persists replies to question cards in SQLite. Rows are
// keyed by question ID, which is a pure function of the question text, so
// answers reattach to their cards every time a response is re-parsed.
package answers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pdiddy/canvas-engine/internal/parse"
	"github.com/pdiddy/canvas-engine/pkg/types"
)

const defaultDBPath = "canvas/answers.db"

// ErrNotFound is returned when no answer is stored for a question.
var ErrNotFound = errors.New("answer not found")

// Store manages the answers SQLite database.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewStore opens or creates the database at cfg.DBPath and creates the
// schema if it does not exist.
func NewStore(cfg types.AnswersConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, logger: logger, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS answers (
			question_id TEXT PRIMARY KEY,
			answer TEXT NOT NULL,
			title TEXT,
			skill TEXT,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_answers_skill ON answers(skill)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save stores or replaces the answer for a.QuestionID. Only question IDs
// are accepted; other card IDs change between parses.
func (s *Store) Save(ctx context.Context, a types.Answer) error {
	if !parse.IsQuestionID(a.QuestionID) {
		return fmt.Errorf("saving answer: %q is not a question id", a.QuestionID)
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO answers (question_id, answer, title, skill, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(question_id) DO UPDATE SET
			answer = excluded.answer,
			title = COALESCE(NULLIF(excluded.title, ''), answers.title),
			skill = COALESCE(NULLIF(excluded.skill, ''), answers.skill),
			updated_at = excluded.updated_at`,
		a.QuestionID, a.Answer, a.Title, string(a.Skill), a.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving answer %s: %w", a.QuestionID, err)
	}
	s.logger.Debug("answer saved", zap.String("question_id", a.QuestionID))
	return nil
}

// Get returns the answer for questionID, or ErrNotFound.
func (s *Store) Get(ctx context.Context, questionID string) (types.Answer, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT question_id, answer, title, skill, updated_at FROM answers WHERE question_id = ?`,
		questionID)
	a, err := scanAnswer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Answer{}, ErrNotFound
	}
	if err != nil {
		return types.Answer{}, fmt.Errorf("reading answer %s: %w", questionID, err)
	}
	return a, nil
}

// Delete removes the answer for questionID. Deleting a missing answer is
// not an error.
func (s *Store) Delete(ctx context.Context, questionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM answers WHERE question_id = ?`, questionID); err != nil {
		return fmt.Errorf("deleting answer %s: %w", questionID, err)
	}
	return nil
}

// List returns every stored answer ordered by question ID. A non-empty
// skill filters by skill kind.
func (s *Store) List(ctx context.Context, skill types.SkillKind) ([]types.Answer, error) {
	query := `SELECT question_id, answer, title, skill, updated_at FROM answers`
	var args []any
	if skill != "" {
		query += ` WHERE skill = ?`
		args = append(args, string(skill))
	}
	query += ` ORDER BY question_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing answers: %w", err)
	}
	defer rows.Close()

	var out []types.Answer
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning answer: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ForResponse returns the stored answers for the question cards in resp,
// keyed by question ID. Questions without answers are absent.
func (s *Store) ForResponse(ctx context.Context, resp *types.ParsedResponse) (map[string]types.Answer, error) {
	ids := resp.QuestionIDs()
	out := make(map[string]types.Answer, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT question_id, answer, title, skill, updated_at FROM answers WHERE question_id IN (`+placeholders+`)`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("reading answers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning answer: %w", err)
		}
		out[a.QuestionID] = a
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnswer(sc scanner) (types.Answer, error) {
	var (
		a            types.Answer
		title, skill sql.NullString
		updated      string
	)
	if err := sc.Scan(&a.QuestionID, &a.Answer, &title, &skill, &updated); err != nil {
		return types.Answer{}, err
	}
	a.Title = title.String
	a.Skill = types.SkillKind(skill.String)
	t, err := time.Parse(time.RFC3339Nano, updated)
	if err != nil {
		return types.Answer{}, fmt.Errorf("parsing updated_at %q: %w", updated, err)
	}
	a.UpdatedAt = t
	return a, nil
}
