// Package rtobserve persists the §6 observer-stream events — SyntaxError,
// AmbiguityEvent, AttemptingFullContextEvent, ContextSensitivityEvent — to a
// SQLite file so a host can review grammar quality across many parses
// offline, the way server/dao/sqlite persists tunaq's game entities. A Sink
// is the listener itself: subscribe it with Base.AddErrorListener /
// Base.AddAmbiguityListener and every event it sees lands in a row.
package rtobserve

import (
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"

	"github.com/dekarrin/allstarrt/rtrecognizer"
)

// Sink records decision-quality and syntax-error events for one parse
// session, tagged by SessionID so rows from concurrent recognizers (e.g.
// rtserver handling concurrent /parse requests) don't get mixed up on
// review.
type Sink struct {
	db        *sql.DB
	sessionID string
}

// Open creates or appends to a SQLite database at file and ensures the
// schema exists. SessionID should be the recognizer's Base.SessionID string
// form, so rows can be correlated back to the parse that produced them.
func Open(file, sessionID string) (*Sink, error) {
	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	s := &Sink{db: db, sessionID: sessionID}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Sink) init() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS syntax_errors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			line INTEGER NOT NULL,
			column INTEGER NOT NULL,
			message TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ambiguity_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			decision_index INTEGER NOT NULL,
			start_index INTEGER NOT NULL,
			stop_index INTEGER NOT NULL,
			detail TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return wrapDBError(err)
		}
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Sink) Close() error {
	return s.db.Close()
}

// SyntaxError implements rtrecognizer.SyntaxErrorListener.
func (s *Sink) SyntaxError(e rtrecognizer.SyntaxError) {
	s.insert(`INSERT INTO syntax_errors (session_id, line, column, message) VALUES (?, ?, ?, ?)`,
		s.sessionID, e.Line, e.Column, e.Message)
}

// Ambiguity implements rtrecognizer.AmbiguityListener.
func (s *Sink) Ambiguity(e rtrecognizer.AmbiguityEvent) {
	detail := "exact"
	if !e.Exact {
		detail = "inexact"
	}
	if e.AmbigAlts != nil {
		detail = fmt.Sprintf("%s alts=%s", detail, e.AmbigAlts.String())
	}
	s.insertEvent("ambiguity", e.DecisionIndex, e.StartIndex, e.StopIndex, detail)
}

// AttemptingFullContext implements rtrecognizer.AmbiguityListener.
func (s *Sink) AttemptingFullContext(e rtrecognizer.AttemptingFullContextEvent) {
	s.insertEvent("attempting_full_context", e.DecisionIndex, e.StartIndex, e.StopIndex, "")
}

// ContextSensitivity implements rtrecognizer.AmbiguityListener.
func (s *Sink) ContextSensitivity(e rtrecognizer.ContextSensitivityEvent) {
	s.insertEvent("context_sensitivity", e.DecisionIndex, e.StartIndex, e.StopIndex,
		fmt.Sprintf("predicted=%d", e.PredictedAlt))
}

func (s *Sink) insertEvent(kind string, decision, start, stop int, detail string) {
	s.insert(`INSERT INTO ambiguity_events (session_id, kind, decision_index, start_index, stop_index, detail) VALUES (?, ?, ?, ?, ?, ?)`,
		s.sessionID, kind, decision, start, stop, detail)
}

// insert swallows its own errors rather than propagating them: a failing
// observer must never take down the parse it's watching (§9 "isolates one
// failing subscriber from the others" applies just as much to a sink as to
// a panicking in-process listener).
func (s *Sink) insert(query string, args ...interface{}) {
	_, _ = s.db.Exec(query, args...)
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		return fmt.Errorf("rtobserve: %s", sqlite.ErrorCodeString[sqliteErr.Code()])
	}
	return fmt.Errorf("rtobserve: %w", err)
}
