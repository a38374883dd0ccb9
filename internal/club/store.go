package club

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pingpong-ladder/internal/cache"
	"github.com/mauv0809/pingpong-ladder/internal/ladder"
)

var _ Store = &store{}

// New creates a new Store. Player and match listings are served from c and
// invalidated on every write.
func New(db *sql.DB, c *cache.Store) Store {
	return &store{
		db:    db,
		cache: c,
	}
}

const playerColumns = `id, name, rating, wins, losses, avatar, created_at, updated_at`

const matchColumns = `id, created_at, match_type, team_a_json, team_b_json, sets_json, winner, status, best_of, submitted_by, commentary, reviewed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func upstream(err error) error {
	return fmt.Errorf("%w: %w", ladder.ErrUpstreamUnavailable, err)
}

func (s *store) invalidatePlayers(ctx context.Context) {
	s.cache.DeletePrefix(ctx, "players:")
}

func (s *store) invalidateMatches(ctx context.Context) {
	s.cache.DeletePrefix(ctx, "matches:")
}

// ReadPlayers returns all players sorted by rating, then name.
func (s *store) ReadPlayers(ctx context.Context) ([]ladder.Player, error) {
	players, err := cache.Load(ctx, s.cache, keyAllPlayers, s.readPlayers)
	if err != nil {
		return nil, err
	}
	return append([]ladder.Player(nil), players...), nil
}

func (s *store) readPlayers(ctx context.Context) ([]ladder.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+playerColumns+` FROM players ORDER BY rating DESC, lower(name) ASC`)
	if err != nil {
		return nil, upstream(err)
	}
	defer rows.Close()

	players := []ladder.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, upstream(err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, upstream(err)
	}
	log.Debug("Loaded players from database", "count", len(players))
	return players, nil
}

// ReadMatches returns all matches, newest first.
func (s *store) ReadMatches(ctx context.Context) ([]ladder.Match, error) {
	matches, err := cache.Load(ctx, s.cache, keyAllMatches, s.readMatches)
	if err != nil {
		return nil, err
	}
	return append([]ladder.Match(nil), matches...), nil
}

func (s *store) readMatches(ctx context.Context) ([]ladder.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+matchColumns+` FROM matches ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, upstream(err)
	}
	defer rows.Close()

	matches := []ladder.Match{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			return nil, upstream(err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, upstream(err)
	}
	log.Debug("Loaded matches from database", "count", len(matches))
	return matches, nil
}

// GetPlayer reads a single player straight from the database.
func (s *store) GetPlayer(ctx context.Context, id string) (ladder.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getPlayer(ctx, s.db, id)
}

func getPlayer(ctx context.Context, q queryRower, id string) (ladder.Player, error) {
	p, err := scanPlayer(q.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return ladder.Player{}, fmt.Errorf("%w: player %s", ladder.ErrNotFound, id)
	}
	if err != nil {
		return ladder.Player{}, upstream(err)
	}
	return p, nil
}

// GetPlayers reads the given players straight from the database.
func (s *store) GetPlayers(ctx context.Context, ids []string) (map[string]ladder.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getPlayers(ctx, s.db, ids)
}

func getPlayers(ctx context.Context, q querier, ids []string) (map[string]ladder.Player, error) {
	out := make(map[string]ladder.Player, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := q.QueryContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, upstream(err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, upstream(err)
		}
		out[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, upstream(err)
	}
	return out, nil
}

// GetMatch reads a single match straight from the database.
func (s *store) GetMatch(ctx context.Context, id string) (ladder.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getMatch(ctx, s.db, id)
}

func getMatch(ctx context.Context, q queryRower, id string) (ladder.Match, error) {
	m, err := scanMatch(q.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return ladder.Match{}, fmt.Errorf("%w: match %s", ladder.ErrNotFound, id)
	}
	if err != nil {
		return ladder.Match{}, upstream(err)
	}
	return m, nil
}

// AppendPlayer inserts a new player. Names are unique ignoring case.
func (s *store) AppendPlayer(ctx context.Context, p ladder.Player, cred ladder.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return upstream(err)
	}

	var taken int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM players WHERE lower(name) = lower(?)`, p.Name).Scan(&taken); err != nil {
		tx.Rollback()
		return upstream(err)
	}
	if taken > 0 {
		tx.Rollback()
		return fmt.Errorf("%w: %q", ladder.ErrNameTaken, p.Name)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO players (id, name, rating, wins, losses, avatar, pin_hash, pin_salt, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Rating, p.Wins, p.Losses, p.Avatar, cred.Hash, cred.Salt,
		p.CreatedAt.UnixMilli(), p.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		tx.Rollback()
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %q", ladder.ErrNameTaken, p.Name)
		}
		return upstream(err)
	}
	if err := tx.Commit(); err != nil {
		return upstream(err)
	}

	s.invalidatePlayers(ctx)
	log.Info("Added player", "playerID", p.ID, "name", p.Name)
	return nil
}

// AppendMatch inserts a new match.
func (s *store) AppendMatch(ctx context.Context, m ladder.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	teamA, teamB, sets, err := encodeMatch(m)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO matches (`+matchColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.CreatedAt.UnixMilli(), m.Type, teamA, teamB, sets, m.Winner, m.Status,
		int(m.BestOf), m.SubmittedBy, m.Commentary, nullMillis(m.ReviewedAt),
	)
	if err != nil {
		return upstream(err)
	}

	s.invalidateMatches(ctx)
	log.Info("Stored match", "matchID", m.ID, "status", m.Status, "submittedBy", m.SubmittedBy)
	return nil
}

// UpdatePlayers writes a batch of player snapshots atomically.
func (s *store) UpdatePlayers(ctx context.Context, updates []ladder.PlayerUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return upstream(err)
	}
	if err := updatePlayersTx(ctx, tx, updates, time.Now()); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return upstream(err)
	}

	s.invalidatePlayers(ctx)
	return nil
}

// UpdateMatchStatus moves a PENDING match to status.
func (s *store) UpdateMatchStatus(ctx context.Context, id string, status ladder.MatchStatus) (ladder.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ladder.Match{}, upstream(err)
	}
	m, err := transitionTx(ctx, tx, id, status, time.Now())
	if err != nil {
		tx.Rollback()
		return ladder.Match{}, err
	}
	if err := tx.Commit(); err != nil {
		return ladder.Match{}, upstream(err)
	}

	s.invalidateMatches(ctx)
	log.Info("Updated match status", "matchID", id, "status", status)
	return m, nil
}

// ApproveMatch marks a PENDING match APPROVED, reads its players and writes
// the snapshots settle computes from them, all in one transaction. Either
// everything is written or nothing is.
func (s *store) ApproveMatch(ctx context.Context, id string, settle ladder.Settlement) (ladder.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ladder.Match{}, upstream(err)
	}
	m, err := transitionTx(ctx, tx, id, ladder.StatusApproved, now)
	if err != nil {
		tx.Rollback()
		return ladder.Match{}, err
	}
	players, err := getPlayers(ctx, tx, append(append([]string{}, m.TeamA...), m.TeamB...))
	if err != nil {
		tx.Rollback()
		return ladder.Match{}, err
	}
	updates, err := settle(m, players)
	if err != nil {
		tx.Rollback()
		return ladder.Match{}, err
	}
	if err := updatePlayersTx(ctx, tx, updates, now); err != nil {
		tx.Rollback()
		return ladder.Match{}, err
	}
	if err := tx.Commit(); err != nil {
		return ladder.Match{}, upstream(err)
	}

	s.invalidateMatches(ctx)
	s.invalidatePlayers(ctx)
	log.Info("Approved match", "matchID", id, "players", len(updates))
	return m, nil
}

// GetCredential returns the stored PIN digest of a player.
func (s *store) GetCredential(ctx context.Context, playerID string) (ladder.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cred ladder.Credential
	err := s.db.QueryRowContext(ctx, `SELECT pin_hash, pin_salt FROM players WHERE id = ?`, playerID).Scan(&cred.Hash, &cred.Salt)
	if errors.Is(err, sql.ErrNoRows) {
		return ladder.Credential{}, fmt.Errorf("%w: player %s", ladder.ErrNotFound, playerID)
	}
	if err != nil {
		return ladder.Credential{}, upstream(err)
	}
	return cred, nil
}

// transitionTx moves a PENDING match to status. The conditional update makes
// the PENDING check and the write a single step, so only one caller can win.
func transitionTx(ctx context.Context, tx *sql.Tx, id string, status ladder.MatchStatus, at time.Time) (ladder.Match, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE matches SET status = ?, reviewed_at = ? WHERE id = ? AND status = ?`,
		status, at.UnixMilli(), id, ladder.StatusPending,
	)
	if err != nil {
		return ladder.Match{}, upstream(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return ladder.Match{}, upstream(err)
	}

	m, err := getMatch(ctx, tx, id)
	if err != nil {
		return ladder.Match{}, err
	}
	if n == 0 {
		return ladder.Match{}, fmt.Errorf("%w: match %s is %s", ladder.ErrInvalidState, id, m.Status)
	}
	return m, nil
}

func updatePlayersTx(ctx context.Context, tx *sql.Tx, updates []ladder.PlayerUpdate, at time.Time) error {
	stmt, err := tx.PrepareContext(ctx, `UPDATE players SET rating = ?, wins = ?, losses = ?, updated_at = ? WHERE id = ?`)
	if err != nil {
		return upstream(err)
	}
	defer stmt.Close()

	for _, u := range updates {
		res, err := stmt.ExecContext(ctx, u.Rating, u.Wins, u.Losses, at.UnixMilli(), u.ID)
		if err != nil {
			return upstream(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return upstream(err)
		}
		if n == 0 {
			return fmt.Errorf("%w: player %s", ladder.ErrNotFound, u.ID)
		}
	}
	return nil
}

func scanPlayer(row rowScanner) (ladder.Player, error) {
	var p ladder.Player
	var created, updated int64
	if err := row.Scan(&p.ID, &p.Name, &p.Rating, &p.Wins, &p.Losses, &p.Avatar, &created, &updated); err != nil {
		return ladder.Player{}, err
	}
	p.CreatedAt = time.UnixMilli(created).UTC()
	p.UpdatedAt = time.UnixMilli(updated).UTC()
	return p, nil
}

func scanMatch(row rowScanner) (ladder.Match, error) {
	var m ladder.Match
	var created int64
	var teamA, teamB, sets string
	var bestOf int
	var reviewed sql.NullInt64

	err := row.Scan(&m.ID, &created, &m.Type, &teamA, &teamB, &sets, &m.Winner, &m.Status,
		&bestOf, &m.SubmittedBy, &m.Commentary, &reviewed)
	if err != nil {
		return ladder.Match{}, err
	}
	m.CreatedAt = time.UnixMilli(created).UTC()
	m.BestOf = ladder.BestOf(bestOf)
	if reviewed.Valid {
		t := time.UnixMilli(reviewed.Int64).UTC()
		m.ReviewedAt = &t
	}
	if err := json.Unmarshal([]byte(teamA), &m.TeamA); err != nil {
		return ladder.Match{}, fmt.Errorf("decode team_a_json of %s: %w", m.ID, err)
	}
	if err := json.Unmarshal([]byte(teamB), &m.TeamB); err != nil {
		return ladder.Match{}, fmt.Errorf("decode team_b_json of %s: %w", m.ID, err)
	}
	if err := json.Unmarshal([]byte(sets), &m.Sets); err != nil {
		return ladder.Match{}, fmt.Errorf("decode sets_json of %s: %w", m.ID, err)
	}
	return m, nil
}

func encodeMatch(m ladder.Match) (teamA, teamB, sets string, err error) {
	a, err := json.Marshal(m.TeamA)
	if err != nil {
		return "", "", "", err
	}
	b, err := json.Marshal(m.TeamB)
	if err != nil {
		return "", "", "", err
	}
	if m.Sets == nil {
		m.Sets = []ladder.Set{}
	}
	s, err := json.Marshal(m.Sets)
	if err != nil {
		return "", "", "", err
	}
	return string(a), string(b), string(s), nil
}

func nullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}
