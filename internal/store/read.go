package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const buildColumns = `seq, id, recipe, params, params_hash, document, doc_hash, engine_version, document_version`

// Get returns the most recent build with the given document hash.
func (s *Store) Get(ctx context.Context, hash string) (Build, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+buildColumns+`
		FROM builds
		WHERE doc_hash = ?
		ORDER BY seq DESC
		LIMIT 1
	`, hash)
	b, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Build{}, fmt.Errorf("hash %s: %w", hash, ErrNotFound)
	}
	if err != nil {
		return Build{}, fmt.Errorf("get build by hash %s: %w", hash, err)
	}
	return b, nil
}

// GetByID returns the build with the given record id.
func (s *Store) GetByID(ctx context.Context, id string) (Build, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+buildColumns+`
		FROM builds
		WHERE id = ?
	`, id)
	b, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Build{}, fmt.Errorf("id %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Build{}, fmt.Errorf("get build %s: %w", id, err)
	}
	return b, nil
}

// List returns builds newest first. An empty recipe matches every recipe.
// A limit of zero or less means no limit.
func (s *Store) List(ctx context.Context, recipe string, limit int) ([]Build, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+buildColumns+`
		FROM builds
		WHERE ? = '' OR recipe = ?
		ORDER BY seq DESC
		LIMIT ?
	`, recipe, recipe, limit)
	if err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}
	defer rows.Close()

	var builds []Build
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate builds: %w", err)
	}
	return builds, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBuild(row scanner) (Build, error) {
	var (
		b              Build
		params, docRaw string
	)
	err := row.Scan(&b.Seq, &b.ID, &b.Recipe, &params, &b.ParamsHash, &docRaw, &b.DocHash, &b.EngineVersion, &b.DocumentVersion)
	if err != nil {
		return Build{}, err
	}
	b.Params = []byte(params)
	b.Document = []byte(docRaw)
	return b, nil
}
