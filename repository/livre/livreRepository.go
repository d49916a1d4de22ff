package livrerepo

import (
	"context"
	"time"

	"bibliotheque/model"
	"bibliotheque/util/database"

	"github.com/jackc/pgx/v5"
)

type Repo interface {
	Insert(ctx context.Context, l *model.Livre) error
	Get(ctx context.Context, id int64) (*model.Livre, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Livre, error)
	Update(ctx context.Context, tx pgx.Tx, l *model.Livre) error
	Delete(ctx context.Context, tx pgx.Tx, id int64) error
	HasActiveEmprunt(ctx context.Context, tx pgx.Tx, livreID int64) (bool, error)
	List(ctx context.Context) ([]model.LivreDetail, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, l *model.Livre) error {
	const q = `
		INSERT INTO livres (titre, date_publication, disponible, auteur_id, categorie_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	return r.db.Pool.QueryRow(ctx, q,
		l.Titre, l.DatePublication.Time, l.Disponible, l.AuteurID, l.CategorieID,
	).Scan(&l.ID)
}

func (r *repo) Get(ctx context.Context, id int64) (*model.Livre, error) {
	const q = `
		SELECT id, titre, date_publication, disponible, auteur_id, categorie_id
		FROM livres
		WHERE id = $1`
	return scanLivre(r.db.Pool.QueryRow(ctx, q, id))
}

func (r *repo) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Livre, error) {
	const q = `
		SELECT id, titre, date_publication, disponible, auteur_id, categorie_id
		FROM livres
		WHERE id = $1
		FOR UPDATE`
	return scanLivre(tx.QueryRow(ctx, q, id))
}

func (r *repo) Update(ctx context.Context, tx pgx.Tx, l *model.Livre) error {
	const q = `
		UPDATE livres
		SET titre = $2,
			date_publication = $3,
			disponible = $4,
			auteur_id = $5,
			categorie_id = $6
		WHERE id = $1`
	_, err := tx.Exec(ctx, q, l.ID, l.Titre, l.DatePublication.Time, l.Disponible, l.AuteurID, l.CategorieID)
	return err
}

func (r *repo) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	const q = `DELETE FROM livres WHERE id = $1`
	_, err := tx.Exec(ctx, q, id)
	return err
}

func (r *repo) HasActiveEmprunt(ctx context.Context, tx pgx.Tx, livreID int64) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM emprunts
			WHERE livre_id = $1 AND date_retour IS NULL
		)`
	var exists bool
	err := tx.QueryRow(ctx, q, livreID).Scan(&exists)
	return exists, err
}

func (r *repo) List(ctx context.Context) ([]model.LivreDetail, error) {
	const q = `
		SELECT l.id, l.titre, l.date_publication, l.disponible,
			a.id, a.nom, a.prenom,
			c.id, c.nom
		FROM livres l
		JOIN auteurs a ON a.id = l.auteur_id
		JOIN categories c ON c.id = l.categorie_id
		ORDER BY l.id ASC`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.LivreDetail
	for rows.Next() {
		var d model.LivreDetail
		var datePublication time.Time
		if err := rows.Scan(
			&d.ID, &d.Titre, &datePublication, &d.Disponible,
			&d.Auteur.ID, &d.Auteur.Nom, &d.Auteur.Prenom,
			&d.Categorie.ID, &d.Categorie.Nom,
		); err != nil {
			return nil, err
		}
		d.DatePublication = model.NewDate(datePublication)
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanLivre(row pgx.Row) (*model.Livre, error) {
	l := &model.Livre{}
	var datePublication time.Time
	if err := row.Scan(&l.ID, &l.Titre, &datePublication, &l.Disponible, &l.AuteurID, &l.CategorieID); err != nil {
		return nil, err
	}
	l.DatePublication = model.NewDate(datePublication)
	return l, nil
}
