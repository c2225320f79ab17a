// Copyright Axiom Biosystems Inc., 2026. All rights reserved.

// Package store persists scored lead runs in a SQLite database and supports
// querying them with structured filters and full-text search.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/axiombio/lead-engine/pkg/types"
)

const dbFile = "leads.db"

// Store manages the lead database.
type Store struct {
	db         *sql.DB
	dataDir    string
	maxResults int
}

// NewStore opens or creates the lead database at dataDir/leads.db,
// creating the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	s := &Store{
		db:         db,
		dataDir:    cfg.DataDir,
		maxResults: maxResults,
	}

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
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			search_terms TEXT,
			records_in INTEGER,
			dups_merged INTEGER,
			leads INTEGER,
			emails_found INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS leads (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			rank INTEGER NOT NULL,
			key TEXT NOT NULL,
			name TEXT NOT NULL,
			affiliation TEXT,
			email TEXT,
			location TEXT,
			role TEXT,
			score INTEGER NOT NULL,
			keyword_match INTEGER NOT NULL,
			hub_match INTEGER NOT NULL,
			similar_tech_match INTEGER NOT NULL,
			has_recent_paper INTEGER NOT NULL,
			was_corresponding INTEGER NOT NULL,
			source_ids TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_run_id ON leads(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_score ON leads(score)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table over name and affiliation, with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='leads_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE leads_fts USING fts5(name, affiliation, content=leads, content_rowid=rowid)`,
			`CREATE TRIGGER leads_ai AFTER INSERT ON leads BEGIN
				INSERT INTO leads_fts(rowid, name, affiliation) VALUES (new.rowid, new.name, new.affiliation);
			END`,
			`CREATE TRIGGER leads_ad AFTER DELETE ON leads BEGIN
				INSERT INTO leads_fts(leads_fts, rowid, name, affiliation) VALUES('delete', old.rowid, old.name, old.affiliation);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// SaveRun records one pipeline run and its ranked leads in a single
// transaction, returning the new run ID.
func (s *Store) SaveRun(ctx context.Context, startedAt time.Time, searchTerms []string, summary RunSummary, leads []types.ScoredLead) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	termsJSON, _ := json.Marshal(searchTerms)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, search_terms, records_in, dups_merged, leads, emails_found)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		startedAt.UTC().Format(time.RFC3339), string(termsJSON),
		summary.RecordsIn, summary.DupsMerged, summary.Leads, summary.EmailsFound,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO leads (run_id, rank, key, name, affiliation, email, location, role, score,
			keyword_match, hub_match, similar_tech_match, has_recent_paper, was_corresponding, source_ids)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, lead := range leads {
		idsJSON, _ := json.Marshal(lead.SourceIDs)
		_, err := stmt.ExecContext(ctx,
			runID, lead.Rank, lead.Key, lead.Name, lead.Affiliation,
			lead.Email, lead.Location, string(lead.Role), lead.Score,
			boolToInt(lead.KeywordMatch), boolToInt(lead.HubMatch),
			boolToInt(lead.SimilarTechMatch),
			boolToInt(lead.HasRecentPaper), boolToInt(lead.WasEverCorresponding),
			string(idsJSON),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting lead %s: %w", lead.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// RunSummary holds the per-run counters persisted alongside the leads.
type RunSummary struct {
	RecordsIn   int
	DupsMerged  int
	Leads       int
	EmailsFound int
}

// RunInfo describes one stored run.
type RunInfo struct {
	ID          int64
	StartedAt   time.Time
	SearchTerms []string
	RecordsIn   int
	Leads       int
	EmailsFound int
}

// Runs lists stored runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, search_terms, records_in, leads, emails_found
		 FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var (
			info      RunInfo
			startedAt string
			termsJSON sql.NullString
		)
		if err := rows.Scan(&info.ID, &startedAt, &termsJSON,
			&info.RecordsIn, &info.Leads, &info.EmailsFound); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, startedAt); parseErr == nil {
			info.StartedAt = t
		}
		if termsJSON.Valid {
			json.Unmarshal([]byte(termsJSON.String), &info.SearchTerms)
		}
		runs = append(runs, info)
	}
	return runs, rows.Err()
}

// LatestRunID returns the most recent run's ID, or 0 when the store is empty.
func (s *Store) LatestRunID(ctx context.Context) (int64, error) {
	var id sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(id) FROM runs`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("querying latest run: %w", err)
	}
	return id.Int64, nil
}

// QueryOptions holds filters for lead queries.
type QueryOptions struct {
	// Text is an FTS5 full-text search over name and affiliation.
	Text string

	// RunID restricts results to one run. Zero means the latest run.
	RunID int64

	// MinScore keeps only leads scoring at or above the threshold.
	MinScore int

	// Location filters by substring match on the lead location.
	Location string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// Leads queries stored leads, ranked as the pipeline ranked them, or by
// full-text relevance when a text query is given.
func (s *Store) Leads(ctx context.Context, opts QueryOptions) ([]types.ScoredLead, error) {
	runID := opts.RunID
	if runID == 0 {
		latest, err := s.LatestRunID(ctx)
		if err != nil {
			return nil, err
		}
		if latest == 0 {
			return nil, nil
		}
		runID = latest
	}

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Text != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT l.rank, l.key, l.name, l.affiliation, l.email, l.location, l.role,
				l.score, l.keyword_match, l.hub_match, l.similar_tech_match,
				l.has_recent_paper, l.was_corresponding, l.source_ids
			FROM leads_fts
			JOIN leads l ON l.rowid = leads_fts.rowid
			WHERE leads_fts MATCH ? AND l.run_id = ?`)
		args = append(args, opts.Text, runID)
	} else {
		qb.WriteString(
			`SELECT l.rank, l.key, l.name, l.affiliation, l.email, l.location, l.role,
				l.score, l.keyword_match, l.hub_match, l.similar_tech_match,
				l.has_recent_paper, l.was_corresponding, l.source_ids
			FROM leads l
			WHERE l.run_id = ?`)
		args = append(args, runID)
	}

	if opts.MinScore > 0 {
		qb.WriteString(` AND l.score >= ?`)
		args = append(args, opts.MinScore)
	}
	if opts.Location != "" {
		qb.WriteString(` AND l.location LIKE ?`)
		args = append(args, "%"+strings.ToLower(opts.Location)+"%")
	}

	if useFTS {
		qb.WriteString(` ORDER BY leads_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY l.rank`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying leads: %w", err)
	}
	defer rows.Close()

	var leads []types.ScoredLead
	for rows.Next() {
		var (
			lead        types.ScoredLead
			role        string
			keyword     int
			hub         int
			similarTech int
			recent      int
			corr        int
			idsJSON     sql.NullString
			emailNull   sql.NullString
			locNull     sql.NullString
			affilNull   sql.NullString
		)
		if err := rows.Scan(&lead.Rank, &lead.Key, &lead.Name, &affilNull,
			&emailNull, &locNull, &role, &lead.Score, &keyword, &hub,
			&similarTech, &recent, &corr, &idsJSON); err != nil {
			return nil, fmt.Errorf("scanning lead: %w", err)
		}
		lead.Affiliation = affilNull.String
		lead.Email = emailNull.String
		lead.Location = locNull.String
		lead.Role = types.Role(role)
		lead.KeywordMatch = keyword != 0
		lead.HubMatch = hub != 0
		lead.SimilarTechMatch = similarTech != 0
		lead.HasRecentPaper = recent != 0
		lead.WasEverCorresponding = corr != 0
		if idsJSON.Valid {
			json.Unmarshal([]byte(idsJSON.String), &lead.SourceIDs)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
