package store

import (
	"database/sql"
	"time"

	"github.com/Jericoz-JC/flux-notes/internal/models"
	"github.com/Jericoz-JC/flux-notes/internal/parser"
)

// LinkInput carries the fields for creating a link. LinkType defaults to
// "related".
type LinkInput struct {
	SourceType models.EntityType `json:"source_type"`
	SourceID   string            `json:"source_id"`
	TargetType models.EntityType `json:"target_type"`
	TargetID   string            `json:"target_id"`
	LinkType   models.LinkType   `json:"link_type"`
}

// CreateLink inserts a directed edge unless one already exists between the
// same endpoints in either direction, in which case the existing edge is
// returned untouched; its direction and link type are not updated.
func (db *DB) CreateLink(input LinkInput) (*models.Link, error) {
	if input.LinkType == "" {
		input.LinkType = models.LinkRelated
	}

	var existingID string
	err := db.conn.QueryRow(`
		SELECT id FROM links
		WHERE (source_type = ? AND source_id = ? AND target_type = ? AND target_id = ?)
		   OR (source_type = ? AND source_id = ? AND target_type = ? AND target_id = ?)
	`, input.SourceType, input.SourceID, input.TargetType, input.TargetID,
		input.TargetType, input.TargetID, input.SourceType, input.SourceID).Scan(&existingID)
	if err == nil {
		return db.Link(existingID)
	}
	if err != sql.ErrNoRows {
		return nil, wrapErr("create link: existence check", err)
	}

	id := NewID()
	now := time.Now()
	_, err = db.conn.Exec(`
		INSERT INTO links (id, source_type, source_id, target_type, target_id, link_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, input.SourceType, input.SourceID, input.TargetType, input.TargetID, input.LinkType, now.UnixMilli())
	if err != nil {
		return nil, wrapErr("create link", err)
	}

	return &models.Link{
		ID:         id,
		SourceType: input.SourceType,
		SourceID:   input.SourceID,
		TargetType: input.TargetType,
		TargetID:   input.TargetID,
		LinkType:   input.LinkType,
		CreatedAt:  now,
	}, nil
}

// Link returns the link with the given id, or nil if absent.
func (db *DB) Link(id string) (*models.Link, error) {
	row := db.conn.QueryRow(`
		SELECT id, source_type, source_id, target_type, target_id, link_type, created_at
		FROM links WHERE id = ?
	`, id)
	l, err := scanLink(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("get link", err)
	}
	return l, nil
}

// LinksFrom returns the outgoing edges of an entity, newest first.
func (db *DB) LinksFrom(entityType models.EntityType, entityID string) ([]models.Link, error) {
	rows, err := db.conn.Query(`
		SELECT id, source_type, source_id, target_type, target_id, link_type, created_at
		FROM links WHERE source_type = ? AND source_id = ?
		ORDER BY created_at DESC
	`, entityType, entityID)
	if err != nil {
		return nil, wrapErr("links from", err)
	}
	return collectLinks(rows)
}

// Backlinks returns the incoming edges of an entity, newest first.
func (db *DB) Backlinks(entityType models.EntityType, entityID string) ([]models.Link, error) {
	rows, err := db.conn.Query(`
		SELECT id, source_type, source_id, target_type, target_id, link_type, created_at
		FROM links WHERE target_type = ? AND target_id = ?
		ORDER BY created_at DESC
	`, entityType, entityID)
	if err != nil {
		return nil, wrapErr("backlinks", err)
	}
	return collectLinks(rows)
}

// AllLinks returns every edge touching an entity in either direction.
func (db *DB) AllLinks(entityType models.EntityType, entityID string) ([]models.Link, error) {
	rows, err := db.conn.Query(`
		SELECT id, source_type, source_id, target_type, target_id, link_type, created_at
		FROM links
		WHERE (source_type = ? AND source_id = ?)
		   OR (target_type = ? AND target_id = ?)
		ORDER BY created_at DESC
	`, entityType, entityID, entityType, entityID)
	if err != nil {
		return nil, wrapErr("all links", err)
	}
	return collectLinks(rows)
}

// DeleteLink removes a link by id. Reports whether a row was deleted.
func (db *DB) DeleteLink(id string) (bool, error) {
	res, err := db.conn.Exec(`DELETE FROM links WHERE id = ?`, id)
	if err != nil {
		return false, wrapErr("delete link", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// DeleteLinksForEntity removes every edge mentioning the entity as source
// or target and returns the number removed. The graph store enforces no
// foreign-key cascade, so entity deletion must call this explicitly.
func (db *DB) DeleteLinksForEntity(entityType models.EntityType, entityID string) (int, error) {
	res, err := db.conn.Exec(`
		DELETE FROM links
		WHERE (source_type = ? AND source_id = ?)
		   OR (target_type = ? AND target_id = ?)
	`, entityType, entityID, entityType, entityID)
	if err != nil {
		return 0, wrapErr("delete links for entity", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// GraphData snapshots the full graph: every note and todo as a node, every
// link as an edge. Dangling edges whose endpoint was deleted without link
// cleanup are kept as-is.
func (db *DB) GraphData() ([]models.GraphNode, []models.GraphEdge, error) {
	var nodes []models.GraphNode

	noteRows, err := db.conn.Query(`SELECT id, title FROM notes`)
	if err != nil {
		return nil, nil, wrapErr("graph: notes", err)
	}
	defer noteRows.Close()
	for noteRows.Next() {
		n := models.GraphNode{Type: models.EntityNote}
		if err := noteRows.Scan(&n.ID, &n.Label); err != nil {
			return nil, nil, err
		}
		nodes = append(nodes, n)
	}
	if err := noteRows.Err(); err != nil {
		return nil, nil, err
	}

	todoRows, err := db.conn.Query(`SELECT id, title FROM todos`)
	if err != nil {
		return nil, nil, wrapErr("graph: todos", err)
	}
	defer todoRows.Close()
	for todoRows.Next() {
		n := models.GraphNode{Type: models.EntityTodo}
		if err := todoRows.Scan(&n.ID, &n.Label); err != nil {
			return nil, nil, err
		}
		nodes = append(nodes, n)
	}
	if err := todoRows.Err(); err != nil {
		return nil, nil, err
	}

	linkRows, err := db.conn.Query(`SELECT source_id, target_id, link_type FROM links`)
	if err != nil {
		return nil, nil, wrapErr("graph: links", err)
	}
	defer linkRows.Close()
	var edges []models.GraphEdge
	for linkRows.Next() {
		var e models.GraphEdge
		if err := linkRows.Scan(&e.Source, &e.Target, &e.Type); err != nil {
			return nil, nil, err
		}
		edges = append(edges, e)
	}
	return nodes, edges, linkRows.Err()
}

// ResolveBodyLinks resolves every [[Title]] reference in text to a note by
// case-insensitive exact title match and creates a "references" edge from
// the source note to each match, skipping self-references. Edges created
// for references later removed from the text are never retracted.
func (db *DB) ResolveBodyLinks(sourceNoteID, text string) ([]models.Link, error) {
	var created []models.Link
	for _, title := range parser.WikiLinks(text) {
		var targetID string
		err := db.conn.QueryRow(`SELECT id FROM notes WHERE title = ? COLLATE NOCASE`, title).Scan(&targetID)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, wrapErr("resolve body links", err)
		}
		if targetID == sourceNoteID {
			continue
		}
		link, err := db.CreateLink(LinkInput{
			SourceType: models.EntityNote,
			SourceID:   sourceNoteID,
			TargetType: models.EntityNote,
			TargetID:   targetID,
			LinkType:   models.LinkReferences,
		})
		if err != nil {
			return nil, err
		}
		created = append(created, *link)
	}
	return created, nil
}

func scanLink(r rowScanner) (*models.Link, error) {
	var l models.Link
	var created int64
	if err := r.Scan(&l.ID, &l.SourceType, &l.SourceID, &l.TargetType, &l.TargetID, &l.LinkType, &created); err != nil {
		return nil, err
	}
	l.CreatedAt = time.UnixMilli(created)
	return &l, nil
}

func collectLinks(rows *sql.Rows) ([]models.Link, error) {
	defer rows.Close()
	var out []models.Link
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}
