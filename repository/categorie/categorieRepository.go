package categorierepo

import (
	"context"

	"bibliotheque/model"
	"bibliotheque/util/database"
)

type Repo interface {
	Insert(ctx context.Context, c *model.Categorie) error
	Get(ctx context.Context, id int64) (*model.Categorie, error)
	List(ctx context.Context) ([]model.Categorie, error)
	Update(ctx context.Context, c *model.Categorie) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, c *model.Categorie) error {
	const q = `
		INSERT INTO categories (nom)
		VALUES ($1)
		RETURNING id`
	return r.db.Pool.QueryRow(ctx, q, c.Nom).Scan(&c.ID)
}

func (r *repo) Get(ctx context.Context, id int64) (*model.Categorie, error) {
	const q = `SELECT id, nom FROM categories WHERE id = $1`
	c := &model.Categorie{}
	if err := r.db.Pool.QueryRow(ctx, q, id).Scan(&c.ID, &c.Nom); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *repo) List(ctx context.Context) ([]model.Categorie, error) {
	const q = `SELECT id, nom FROM categories ORDER BY id ASC`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Categorie
	for rows.Next() {
		var c model.Categorie
		if err := rows.Scan(&c.ID, &c.Nom); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repo) Update(ctx context.Context, c *model.Categorie) (bool, error) {
	const q = `UPDATE categories SET nom = $2 WHERE id = $1`
	tag, err := r.db.Pool.Exec(ctx, q, c.ID, c.Nom)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repo) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM categories WHERE id = $1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
