package storage

// The graph is stored as one row per element. Edges keep their endpoint
// ids in dedicated columns so reference queries need no JSON extraction.
const schema = `
CREATE TABLE IF NOT EXISTS elements (
	id INTEGER PRIMARY KEY,
	type TEXT NOT NULL,
	label TEXT NOT NULL,
	payload_json TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS edges (
	id INTEGER PRIMARY KEY,
	label TEXT NOT NULL,
	out_v INTEGER NOT NULL,
	in_vs_json TEXT NOT NULL,
	document INTEGER,
	property TEXT
);

CREATE INDEX IF NOT EXISTS idx_elements_label ON elements(label);
CREATE INDEX IF NOT EXISTS idx_edges_out_v ON edges(out_v);
CREATE INDEX IF NOT EXISTS idx_edges_label ON edges(label);
`

func (db *DB) initializeSchema() error {
	_, err := db.conn.Exec(schema)
	return err
}
