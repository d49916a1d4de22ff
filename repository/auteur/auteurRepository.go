package auteurrepo

import (
	"context"

	"bibliotheque/model"
	"bibliotheque/util/database"
)

type Repo interface {
	Insert(ctx context.Context, a *model.Auteur) error
	Get(ctx context.Context, id int64) (*model.Auteur, error)
	List(ctx context.Context) ([]model.Auteur, error)
	Update(ctx context.Context, a *model.Auteur) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, a *model.Auteur) error {
	const q = `
		INSERT INTO auteurs (nom, prenom)
		VALUES ($1, $2)
		RETURNING id`
	return r.db.Pool.QueryRow(ctx, q, a.Nom, a.Prenom).Scan(&a.ID)
}

func (r *repo) Get(ctx context.Context, id int64) (*model.Auteur, error) {
	const q = `SELECT id, nom, prenom FROM auteurs WHERE id = $1`
	a := &model.Auteur{}
	if err := r.db.Pool.QueryRow(ctx, q, id).Scan(&a.ID, &a.Nom, &a.Prenom); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *repo) List(ctx context.Context) ([]model.Auteur, error) {
	const q = `SELECT id, nom, prenom FROM auteurs ORDER BY id ASC`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Auteur
	for rows.Next() {
		var a model.Auteur
		if err := rows.Scan(&a.ID, &a.Nom, &a.Prenom); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repo) Update(ctx context.Context, a *model.Auteur) (bool, error) {
	const q = `UPDATE auteurs SET nom = $2, prenom = $3 WHERE id = $1`
	tag, err := r.db.Pool.Exec(ctx, q, a.ID, a.Nom, a.Prenom)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repo) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM auteurs WHERE id = $1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
