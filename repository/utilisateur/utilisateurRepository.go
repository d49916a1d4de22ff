package utilisateurrepo

import (
	"context"

	"bibliotheque/model"
	"bibliotheque/util/database"
)

type Repo interface {
	Insert(ctx context.Context, u *model.Utilisateur) error
	Get(ctx context.Context, id int64) (*model.Utilisateur, error)
	List(ctx context.Context) ([]model.Utilisateur, error)
	Update(ctx context.Context, u *model.Utilisateur) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, u *model.Utilisateur) error {
	const q = `
		INSERT INTO utilisateurs (nom, prenom)
		VALUES ($1, $2)
		RETURNING id`
	return r.db.Pool.QueryRow(ctx, q, u.Nom, u.Prenom).Scan(&u.ID)
}

func (r *repo) Get(ctx context.Context, id int64) (*model.Utilisateur, error) {
	const q = `SELECT id, nom, prenom FROM utilisateurs WHERE id = $1`
	u := &model.Utilisateur{}
	if err := r.db.Pool.QueryRow(ctx, q, id).Scan(&u.ID, &u.Nom, &u.Prenom); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) List(ctx context.Context) ([]model.Utilisateur, error) {
	const q = `SELECT id, nom, prenom FROM utilisateurs ORDER BY id ASC`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Utilisateur
	for rows.Next() {
		var u model.Utilisateur
		if err := rows.Scan(&u.ID, &u.Nom, &u.Prenom); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *repo) Update(ctx context.Context, u *model.Utilisateur) (bool, error) {
	const q = `UPDATE utilisateurs SET nom = $2, prenom = $3 WHERE id = $1`
	tag, err := r.db.Pool.Exec(ctx, q, u.ID, u.Nom, u.Prenom)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repo) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM utilisateurs WHERE id = $1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
