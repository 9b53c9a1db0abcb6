// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"inkpress/internal/ident"
	"inkpress/internal/markdown"
	"inkpress/internal/models"
	"inkpress/internal/slug"
)

// excerptLength caps auto-generated excerpts, in runes.
const excerptLength = 140

// PostStore owns the post lifecycle and composes full post views from the
// metadata and taxonomy stores.
type PostStore struct {
	q    DBTX
	meta *MetaStore
	tax  *TaxonomyStore
}

// NewPostStore returns a PostStore composing reads through the given
// taxonomy store.
func NewPostStore(db *sql.DB, tax *TaxonomyStore) *PostStore {
	return &PostStore{q: db, meta: newMetaStore(db, "postmeta"), tax: tax}
}

// WithTx returns a view of the store that runs inside the given transaction.
func (s *PostStore) WithTx(tx *sql.Tx) *PostStore {
	return &PostStore{q: tx, meta: newMetaStore(tx, "postmeta"), tax: s.tax.WithTx(tx)}
}

const postColumns = `post_id, post_title, post_raw, post_content, post_excerpt, post_status, post_type, post_parent, post_password, post_guid, post_original, post_source, post_author, post_likes, comment_count, post_views, post_created, post_modified`

func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.RawContent, &p.Content, &p.Excerpt,
		&p.Status, &p.Type, &p.ParentID, &p.PasswordHash, &p.Guid,
		&p.Original, &p.Source, &p.Author, &p.Likes, &p.CommentCount,
		&p.ViewCount, &p.CreatedAt, &p.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PostParams carries the validated inputs for creating or updating a post.
type PostParams struct {
	Title      string
	RawContent string
	Excerpt    string
	Status     models.PostStatus
	Type       models.PostType
	ParentID   *string
	Password   string // plain; hashed at rest
	Guid       string
	Original   models.PostOriginal
	Source     string
	Author     string

	// UpdateModified controls whether an update bumps the modified
	// timestamp. Creation always sets both timestamps.
	UpdateModified bool
}

// Create inserts a new post. The raw content is rendered to sanitized
// HTML, a missing excerpt is derived from the rendered text, a missing
// guid defaults to /post/<id>, and a missing status lands as draft.
// Counters start at zero.
func (s *PostStore) Create(p PostParams) (*models.Post, error) {
	id := ident.New()

	content, err := markdown.ToHTML(p.RawContent)
	if err != nil {
		return nil, fmt.Errorf("render post content: %w", err)
	}
	excerpt := p.Excerpt
	if excerpt == "" {
		excerpt = markdown.Excerpt(content, excerptLength)
	}
	guid := p.Guid
	if guid == "" {
		if name := slug.Generate(p.Title); name != "" {
			guid = "/post/" + name
		} else {
			guid = "/post/" + id
		}
	}
	if p.Type == "" {
		p.Type = models.PostTypePost
	}
	if p.Status == "" {
		p.Status = models.PostStatusDraft
	}

	if taken, err := s.CheckGuidExist(guid, ""); err != nil {
		return nil, err
	} else if taken {
		return nil, &GuidConflictError{Guid: guid}
	}

	if p.ParentID != nil {
		parent, err := s.FindByID(*p.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, &NotFoundError{Entity: "post", ID: *p.ParentID}
		}
	}

	passwordHash := ""
	if p.Status == models.PostStatusPassword {
		hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash post password: %w", err)
		}
		passwordHash = string(hash)
	}

	now := time.Now()
	row := s.q.QueryRow(`
		INSERT INTO posts (post_id, post_title, post_raw, post_content, post_excerpt,
		                   post_status, post_type, post_parent, post_password, post_guid,
		                   post_original, post_source, post_author, post_created, post_modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
		RETURNING `+postColumns,
		id, p.Title, p.RawContent, content, excerpt,
		p.Status, p.Type, p.ParentID, passwordHash, guid,
		p.Original, p.Source, p.Author, now,
	)
	post, err := scanPost(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &GuidConflictError{Guid: guid}
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// Update applies a partial field update. When p.UpdateModified is false
// the modified timestamp is left untouched so edits can stay invisible to
// "last modified" readers.
func (s *PostStore) Update(id string, p PostParams) (*models.Post, error) {
	existing, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, &NotFoundError{Entity: "post", ID: id}
	}
	// Omitted status keeps the post where it is rather than moving it
	// into an out-of-enum state.
	if p.Status == "" {
		p.Status = existing.Status
	}

	content, err := markdown.ToHTML(p.RawContent)
	if err != nil {
		return nil, fmt.Errorf("render post content: %w", err)
	}
	excerpt := p.Excerpt
	if excerpt == "" {
		excerpt = markdown.Excerpt(content, excerptLength)
	}
	guid := p.Guid
	if guid == "" {
		guid = existing.Guid
	}
	if guid != existing.Guid {
		if taken, err := s.CheckGuidExist(guid, id); err != nil {
			return nil, err
		} else if taken {
			return nil, &GuidConflictError{Guid: guid}
		}
	}

	passwordHash := existing.PasswordHash
	switch {
	case p.Status != models.PostStatusPassword:
		passwordHash = ""
	case p.Password != "":
		hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash post password: %w", err)
		}
		passwordHash = string(hash)
	}

	modified := existing.ModifiedAt
	if p.UpdateModified {
		modified = time.Now()
	}

	row := s.q.QueryRow(`
		UPDATE posts SET
			post_title = $1, post_raw = $2, post_content = $3, post_excerpt = $4,
			post_status = $5, post_parent = $6, post_password = $7, post_guid = $8,
			post_original = $9, post_source = $10, post_author = $11, post_modified = $12
		WHERE post_id = $13
		RETURNING `+postColumns,
		p.Title, p.RawContent, content, excerpt,
		p.Status, p.ParentID, passwordHash, guid,
		p.Original, p.Source, p.Author, modified, id,
	)
	post, err := scanPost(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &GuidConflictError{Guid: guid}
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

// FindByID retrieves a post by id. Returns nil if not found.
func (s *PostStore) FindByID(id string) (*models.Post, error) {
	row := s.q.QueryRow(`SELECT `+postColumns+` FROM posts WHERE post_id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindByGuid retrieves a non-trashed post by guid. Returns nil if not found.
func (s *PostStore) FindByGuid(guid string) (*models.Post, error) {
	row := s.q.QueryRow(`SELECT `+postColumns+` FROM posts WHERE post_guid = $1 AND post_status <> $2`, guid, models.PostStatusTrash)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by guid: %w", err)
	}
	return p, nil
}

// ComposeView joins the post with its metadata and taxonomy terms. The
// composition is all-or-nothing: any failing sub-read fails the whole view.
func (s *PostStore) ComposeView(post *models.Post) (*models.PostView, error) {
	meta, err := s.meta.Get(post.ID)
	if err != nil {
		return nil, fmt.Errorf("compose post view: %w", err)
	}
	categories, tags, err := s.tax.TermsForPost(post.ID)
	if err != nil {
		return nil, fmt.Errorf("compose post view: %w", err)
	}
	return &models.PostView{
		Post:       post,
		Meta:       meta,
		Tags:       tags,
		Categories: categories,
	}, nil
}

// IncrementViewCount bumps the post's view counter. Views are a
// best-effort metric: failures are logged and swallowed rather than
// surfaced, unlike vote counters.
func (s *PostStore) IncrementViewCount(id string) {
	if _, err := s.q.Exec(`UPDATE posts SET post_views = post_views + 1 WHERE post_id = $1`, id); err != nil {
		slog.Warn("view count increment failed", "postId", id, "error", err)
	}
}

// Meta exposes the post metadata store.
func (s *PostStore) Meta() *MetaStore {
	return s.meta
}

// CheckPostExist reports whether a non-trashed post with the id exists.
// An empty id is vacuously true so optional references validate when
// omitted.
func (s *PostStore) CheckPostExist(id string) (bool, error) {
	if id == "" {
		return true, nil
	}
	var exists bool
	err := s.q.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM posts WHERE post_id = $1 AND post_status <> $2)`,
		id, models.PostStatusTrash,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check post exist: %w", err)
	}
	return exists, nil
}

// CheckGuidExist reports whether the guid is already used by a non-trashed
// post other than excludeID.
func (s *PostStore) CheckGuidExist(guid, excludeID string) (bool, error) {
	var exists bool
	err := s.q.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM posts
			WHERE post_guid = $1 AND post_status <> $2 AND post_id <> $3
		)`, guid, models.PostStatusTrash, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check guid exist: %w", err)
	}
	return exists, nil
}

// CheckPostPassword verifies the access password of a password-protected
// post.
func (s *PostStore) CheckPostPassword(id, password string) (bool, error) {
	post, err := s.FindByID(id)
	if err != nil {
		return false, err
	}
	if post == nil {
		return false, &NotFoundError{Entity: "post", ID: id}
	}
	if post.Status != models.PostStatusPassword {
		return false, nil
	}
	return bcrypt.CompareHashAndPassword([]byte(post.PasswordHash), []byte(password)) == nil, nil
}

// PostQueryParam filters and pages post listings.
type PostQueryParam struct {
	Type     models.PostType
	Status   models.PostStatus
	Keyword  string
	Page     int
	PageSize int
}

// List returns one page of composed post views, newest first.
func (s *PostStore) List(param PostQueryParam) (*models.PostList, error) {
	if param.PageSize <= 0 {
		param.PageSize = 10
	}
	if param.Type == "" {
		param.Type = models.PostTypePost
	}

	where := `WHERE post_type = $1 AND post_status <> $2`
	args := []any{param.Type, models.PostStatusTrash}
	if param.Status != "" {
		where += fmt.Sprintf(` AND post_status = $%d`, len(args)+1)
		args = append(args, param.Status)
	}
	if param.Keyword != "" {
		where += fmt.Sprintf(` AND (post_title ILIKE $%d OR post_content ILIKE $%d)`, len(args)+1, len(args)+1)
		args = append(args, "%"+param.Keyword+"%")
	}

	var total int
	if err := s.q.QueryRow(`SELECT COUNT(*) FROM posts `+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	page := clampPage(param.Page, param.PageSize, total)
	args = append(args, param.PageSize, (page-1)*param.PageSize)
	rows, err := s.q.Query(
		`SELECT `+postColumns+` FROM posts `+where+
			fmt.Sprintf(` ORDER BY post_created DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	var posts []*models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	list := &models.PostList{Page: page, Total: total}
	for _, p := range posts {
		view, err := s.ComposeView(p)
		if err != nil {
			return nil, err
		}
		list.Posts = append(list.Posts, *view)
	}
	return list, nil
}
