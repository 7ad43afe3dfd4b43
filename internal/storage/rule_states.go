package storage

import "time"

// RuleStates returns the persisted rule toggles.
func (db *DB) RuleStates() (map[string]bool, error) {
	rows, err := db.conn.Query(`SELECT name, enabled FROM rule_states`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]bool{}
	for rows.Next() {
		var name string
		var on int
		if err := rows.Scan(&name, &on); err != nil {
			return nil, err
		}
		out[name] = on != 0
	}
	return out, rows.Err()
}

// SaveRuleStates upserts each toggle.
func (db *DB) SaveRuleStates(states map[string]bool) error {
	if len(states) == 0 {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	stmt, err := tx.Prepare(`
		INSERT INTO rule_states (name, enabled, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET enabled=excluded.enabled, updated_at=excluded.updated_at`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for name, on := range states {
		v := 0
		if on {
			v = 1
		}
		if _, err := stmt.Exec(name, v, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}
