// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"inkpress/internal/ident"
	"inkpress/internal/models"
)

// VoteStore records like/dislike events. Casting a vote couples a counter
// increment, an audit-row insert, and optional metadata inserts inside one
// transaction; none of them survives a failure of any other.
type VoteStore struct {
	db *sql.DB
}

// NewVoteStore returns a VoteStore.
func NewVoteStore(db *sql.DB) *VoteStore {
	return &VoteStore{db: db}
}

const voteColumns = `vote_id, object_type, object_id, vote_result, user_ip, user_agent, user_id, vote_created`

func scanVote(scanner interface{ Scan(...any) error }) (*models.Vote, error) {
	var v models.Vote
	err := scanner.Scan(
		&v.ID, &v.ObjectType, &v.ObjectID, &v.Result,
		&v.UserIP, &v.UserAgent, &v.UserID, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// VoteParams carries the validated inputs for casting a vote.
type VoteParams struct {
	ObjectType models.VoteTarget
	ObjectID   string
	Result     int // +1 like, -1 dislike (comments only)
	UserIP     string
	UserAgent  string
	UserID     *string

	// Voter is the anonymous voter identity, persisted as vote metadata
	// when no authenticated user id is present.
	Voter *models.Voter
	// Location is the resolved IP geolocation, persisted as vote metadata
	// when present.
	Location *models.IPLocation
}

// Cast records a vote in a single transaction: the target's counter is
// incremented atomically, the audit row inserted, and voter-identity and
// location metadata written when supplied. Any failure rolls all of it
// back and surfaces as a TransactionError, logged with the full input
// payload. Repeated casts increment repeatedly; deduplication is the
// caller's concern.
func (s *VoteStore) Cast(p VoteParams) (*models.Vote, error) {
	if p.ObjectType == models.VoteTargetPost && p.Result < 0 {
		return nil, ErrDislikeUnsupported
	}

	var vote *models.Vote
	err := Transact(s.db, func(tx *sql.Tx) error {
		var err error
		vote, err = s.castTx(tx, p)
		return err
	})
	if err != nil {
		if IsUserError(err) {
			return nil, err
		}
		slog.Error("vote transaction failed",
			"error", err,
			"objectType", p.ObjectType,
			"objectId", p.ObjectID,
			"result", p.Result,
			"userIp", p.UserIP,
			"userAgent", p.UserAgent,
		)
		return nil, &TransactionError{Op: "cast vote", Err: err}
	}
	return vote, nil
}

func (s *VoteStore) castTx(tx *sql.Tx, p VoteParams) (*models.Vote, error) {
	// Atomic in-place increment; the row lock serializes concurrent casts
	// against the same target so no update is lost.
	var res sql.Result
	var err error
	switch {
	case p.ObjectType == models.VoteTargetComment && p.Result < 0:
		res, err = tx.Exec(`UPDATE comments SET comment_dislikes = comment_dislikes + 1 WHERE comment_id = $1`, p.ObjectID)
	case p.ObjectType == models.VoteTargetComment:
		res, err = tx.Exec(`UPDATE comments SET comment_likes = comment_likes + 1 WHERE comment_id = $1`, p.ObjectID)
	default:
		res, err = tx.Exec(`UPDATE posts SET post_likes = post_likes + 1 WHERE post_id = $1`, p.ObjectID)
	}
	if err != nil {
		return nil, fmt.Errorf("increment counter: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, &TargetNotFoundError{Type: p.ObjectType, ID: p.ObjectID}
	}

	row := tx.QueryRow(`
		INSERT INTO votes (vote_id, object_type, object_id, vote_result, user_ip, user_agent, user_id, vote_created)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+voteColumns,
		ident.New(), p.ObjectType, p.ObjectID, p.Result,
		p.UserIP, p.UserAgent, p.UserID, time.Now(),
	)
	vote, err := scanVote(row)
	if err != nil {
		return nil, fmt.Errorf("insert vote: %w", err)
	}

	meta := newMetaStore(tx, "votemeta")
	if p.Voter != nil && p.UserID == nil {
		info, err := json.Marshal(p.Voter)
		if err != nil {
			return nil, fmt.Errorf("marshal voter info: %w", err)
		}
		if err := meta.Set(vote.ID, models.MetaKeyUserInfo, string(info)); err != nil {
			return nil, err
		}
	}
	if p.Location != nil {
		loc, err := json.Marshal(p.Location)
		if err != nil {
			return nil, fmt.Errorf("marshal location: %w", err)
		}
		if err := meta.Set(vote.ID, models.MetaKeyUserLocation, string(loc)); err != nil {
			return nil, err
		}
	}
	return vote, nil
}

// VoteQueryParam filters and pages vote listings for the admin surface.
type VoteQueryParam struct {
	Type     models.VoteTarget
	IP       string
	Keyword  string
	Page     int
	PageSize int
}

// List returns one page of votes, newest first. The keyword matches
// against voter IP and user agent.
func (s *VoteStore) List(param VoteQueryParam) (*models.VoteList, error) {
	if param.PageSize <= 0 {
		param.PageSize = 10
	}

	where := `WHERE 1 = 1`
	var args []any
	if param.Type != "" {
		where += fmt.Sprintf(` AND object_type = $%d`, len(args)+1)
		args = append(args, param.Type)
	}
	if param.IP != "" {
		where += fmt.Sprintf(` AND user_ip = $%d`, len(args)+1)
		args = append(args, param.IP)
	}
	if param.Keyword != "" {
		where += fmt.Sprintf(` AND (user_ip ILIKE $%d OR user_agent ILIKE $%d)`, len(args)+1, len(args)+1)
		args = append(args, "%"+param.Keyword+"%")
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM votes `+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count votes: %w", err)
	}

	page := clampPage(param.Page, param.PageSize, total)
	args = append(args, param.PageSize, (page-1)*param.PageSize)
	rows, err := s.db.Query(
		`SELECT `+voteColumns+` FROM votes `+where+
			fmt.Sprintf(` ORDER BY vote_created DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	defer rows.Close()

	list := &models.VoteList{Page: page, Total: total}
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		list.Votes = append(list.Votes, *v)
	}
	return list, rows.Err()
}
