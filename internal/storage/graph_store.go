package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"jxref/internal/lsif"
)

// GraphStore writes graph elements into the elements and edges tables
type GraphStore struct {
	db *DB
}

// NewGraphStore creates a store over an open database
func NewGraphStore(db *DB) *GraphStore {
	return &GraphStore{db: db}
}

// Insert persists one element. Edges are additionally written to the
// edges table with their endpoints broken out.
func (s *GraphStore) Insert(el lsif.Element) error {
	payload, err := json.Marshal(el)
	if err != nil {
		return fmt.Errorf("failed to marshal element %d: %w", el.ID(), err)
	}

	_, err = s.db.Exec(
		`INSERT INTO elements (id, type, label, payload_json) VALUES (?, ?, ?, ?)`,
		el.ID(), string(el.Type()), string(el.ElementLabel()), string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to insert element %d: %w", el.ID(), err)
	}

	if el.Type() != lsif.EdgeElement {
		return nil
	}

	var outV int64
	var inVs []int64
	var document sql.NullInt64
	var property sql.NullString

	switch e := el.(type) {
	case *lsif.Edge:
		outV = e.OutV
		inVs = []int64{e.InV}
	case *lsif.MultiEdge:
		outV = e.OutV
		inVs = e.InVs
	case *lsif.ItemEdge:
		outV = e.OutV
		inVs = e.InVs
		document = sql.NullInt64{Int64: e.Document, Valid: true}
		if e.Property != "" {
			property = sql.NullString{String: string(e.Property), Valid: true}
		}
	default:
		return nil
	}

	inVsJSON, err := json.Marshal(inVs)
	if err != nil {
		return fmt.Errorf("failed to marshal edge endpoints: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO edges (id, label, out_v, in_vs_json, document, property) VALUES (?, ?, ?, ?, ?, ?)`,
		el.ID(), string(el.ElementLabel()), outV, string(inVsJSON), document, property,
	)
	if err != nil {
		return fmt.Errorf("failed to insert edge %d: %w", el.ID(), err)
	}
	return nil
}

// CountByLabel returns how many stored elements carry the label
func (s *GraphStore) CountByLabel(label lsif.Label) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM elements WHERE label = ?`, string(label)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count elements: %w", err)
	}
	return n, nil
}

// OutEdges returns the ids of edges leaving the given vertex
func (s *GraphStore) OutEdges(vertexID int64) ([]int64, error) {
	rows, err := s.db.Query(`SELECT id FROM edges WHERE out_v = ? ORDER BY id`, vertexID)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan edge id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
