// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"inkpress/internal/ident"
	"inkpress/internal/markdown"
	"inkpress/internal/models"
)

// CommentStore owns threaded comments and their moderation workflow.
type CommentStore struct {
	db *sql.DB // nil inside a WithTx view
	q  DBTX
}

// NewCommentStore returns a CommentStore.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db, q: db}
}

// WithTx returns a view of the store that runs inside the given transaction.
func (s *CommentStore) WithTx(tx *sql.Tx) *CommentStore {
	return &CommentStore{q: tx}
}

const commentColumns = `comment_id, post_id, comment_parent, comment_top, author_name, author_email, author_email_hash, author_ip, author_ua, user_id, comment_content, comment_status, comment_likes, comment_dislikes, comment_created`

func scanComment(scanner interface{ Scan(...any) error }) (*models.Comment, error) {
	var c models.Comment
	err := scanner.Scan(
		&c.ID, &c.PostID, &c.ParentID, &c.TopID, &c.AuthorName,
		&c.AuthorEmail, &c.AuthorEmailHash, &c.AuthorIP, &c.AuthorUA,
		&c.UserID, &c.Content, &c.Status, &c.Likes, &c.Dislikes, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CommentParams carries the validated inputs for creating a comment.
type CommentParams struct {
	PostID      string
	ParentID    *string
	TopID       *string
	AuthorName  string
	AuthorEmail string
	AuthorIP    string
	AuthorUA    string
	UserID      *string
	Content     string
	Status      models.CommentStatus
}

// Create inserts a comment. The post must exist; parent and top
// references, when given, must be comments on the same post — ids that
// exist on a different post are rejected as cross-post references. The
// thread root is resolved once here: parent's top ancestor if it has one,
// else the parent itself, else the new comment's own id. The post's
// comment counter moves in the same transaction.
func (s *CommentStore) Create(p CommentParams) (*models.Comment, error) {
	if s.db != nil {
		var created *models.Comment
		err := Transact(s.db, func(tx *sql.Tx) error {
			var err error
			created, err = s.WithTx(tx).Create(p)
			return err
		})
		return created, err
	}

	var postExists bool
	err := s.q.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM posts WHERE post_id = $1 AND post_status <> $2)`,
		p.PostID, models.PostStatusTrash,
	).Scan(&postExists)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	if !postExists {
		return nil, &NotFoundError{Entity: "post", ID: p.PostID}
	}

	id := ident.New()
	topID := id // a top-level comment is its own thread root
	if p.ParentID != nil {
		parent, err := s.findOnPost(*p.ParentID, p.PostID)
		if err != nil {
			return nil, err
		}
		if parent.TopID != nil && *parent.TopID != parent.ID {
			topID = *parent.TopID
		} else {
			topID = parent.ID
		}
	}
	if p.TopID != nil {
		// Validated for existence and same-post only; the stored value is
		// always the resolved ancestor above.
		if _, err := s.findOnPost(*p.TopID, p.PostID); err != nil {
			return nil, err
		}
	}

	status := p.Status
	if !status.Valid() {
		status = models.CommentStatusPending
	}
	emailHash := ""
	if p.AuthorEmail != "" {
		sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(p.AuthorEmail))))
		emailHash = hex.EncodeToString(sum[:])
	}

	row := s.q.QueryRow(`
		INSERT INTO comments (comment_id, post_id, comment_parent, comment_top,
		                      author_name, author_email, author_email_hash, author_ip, author_ua,
		                      user_id, comment_content, comment_status, comment_created)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+commentColumns,
		id, p.PostID, p.ParentID, topID,
		p.AuthorName, p.AuthorEmail, emailHash, p.AuthorIP, p.AuthorUA,
		p.UserID, markdown.Sanitize(p.Content), status, time.Now(),
	)
	comment, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	if _, err := s.q.Exec(`UPDATE posts SET comment_count = comment_count + 1 WHERE post_id = $1`, p.PostID); err != nil {
		return nil, fmt.Errorf("bump comment count: %w", err)
	}
	return comment, nil
}

// findOnPost loads a comment and verifies it belongs to the given post.
func (s *CommentStore) findOnPost(id, postID string) (*models.Comment, error) {
	c, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, &NotFoundError{Entity: "comment", ID: id}
	}
	if c.PostID != postID {
		return nil, &CrossPostReferenceError{CommentID: id, PostID: postID}
	}
	return c, nil
}

// ChangeStatus moves a comment through the moderation workflow. Child
// comments keep their own status: hiding a thread root never silently
// hides its replies.
func (s *CommentStore) ChangeStatus(id string, status models.CommentStatus) error {
	res, err := s.q.Exec(`UPDATE comments SET comment_status = $1 WHERE comment_id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("change comment status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &NotFoundError{Entity: "comment", ID: id}
	}
	return nil
}

// FindByID retrieves a comment by id. Returns nil if not found.
func (s *CommentStore) FindByID(id string) (*models.Comment, error) {
	row := s.q.QueryRow(`SELECT `+commentColumns+` FROM comments WHERE comment_id = $1`, id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// CheckCommentExist reports whether a comment with the id exists. An
// empty id is vacuously true so optional references validate when
// omitted.
func (s *CommentStore) CheckCommentExist(id string) (bool, error) {
	if id == "" {
		return true, nil
	}
	var exists bool
	err := s.q.QueryRow(`SELECT EXISTS (SELECT 1 FROM comments WHERE comment_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check comment exist: %w", err)
	}
	return exists, nil
}

// CommentQueryParam filters and pages comment listings.
type CommentQueryParam struct {
	PostID   string
	Status   models.CommentStatus
	Keyword  string
	Page     int
	PageSize int
}

// List returns one page of comments, newest first.
func (s *CommentStore) List(param CommentQueryParam) (*models.CommentList, error) {
	if param.PageSize <= 0 {
		param.PageSize = 10
	}

	where := `WHERE 1 = 1`
	var args []any
	if param.PostID != "" {
		where += fmt.Sprintf(` AND post_id = $%d`, len(args)+1)
		args = append(args, param.PostID)
	}
	if param.Status != "" {
		where += fmt.Sprintf(` AND comment_status = $%d`, len(args)+1)
		args = append(args, param.Status)
	}
	if param.Keyword != "" {
		where += fmt.Sprintf(` AND (comment_content ILIKE $%d OR author_name ILIKE $%d)`, len(args)+1, len(args)+1)
		args = append(args, "%"+param.Keyword+"%")
	}

	var total int
	if err := s.q.QueryRow(`SELECT COUNT(*) FROM comments `+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	page := clampPage(param.Page, param.PageSize, total)
	args = append(args, param.PageSize, (page-1)*param.PageSize)
	rows, err := s.q.Query(
		`SELECT `+commentColumns+` FROM comments `+where+
			fmt.Sprintf(` ORDER BY comment_created DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	list := &models.CommentList{Page: page, Total: total}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		list.Comments = append(list.Comments, *c)
	}
	return list, rows.Err()
}
