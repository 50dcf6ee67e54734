package store

import (
	"context"
	"fmt"
)

// Record archives a build and returns it with ID and Seq filled in.
// Recording the same id twice is a no-op that returns the existing row.
func (s *Store) Record(ctx context.Context, b Build) (Build, error) {
	if err := b.validate(); err != nil {
		return Build{}, err
	}
	if b.ID == "" {
		b.ID = s.newID()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO builds (id, recipe, params, params_hash, document, doc_hash, engine_version, document_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, b.ID, b.Recipe, string(b.Params), b.ParamsHash, string(b.Document), b.DocHash, b.EngineVersion, b.DocumentVersion)
	if err != nil {
		return Build{}, fmt.Errorf("insert build %s: %w", b.ID, err)
	}

	return s.GetByID(ctx, b.ID)
}
