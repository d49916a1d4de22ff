// repository/emprunt/empruntRepository.go
package empruntrepo

import (
	"context"
	"time"

	"bibliotheque/model"
	"bibliotheque/util/database"

	"github.com/jackc/pgx/v5"
)

// Repo is the query gateway of the loan lifecycle. Every method taking a
// pgx.Tx participates in the caller's transaction; the ForUpdate variants
// lock the row until commit.
type Repo interface {
	GetUtilisateurForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Utilisateur, error)
	GetUtilisateur(ctx context.Context, tx pgx.Tx, id int64) (*model.Utilisateur, error)
	GetLivreForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Livre, error)
	HasActiveEmpruntByLivre(ctx context.Context, tx pgx.Tx, livreID int64) (bool, error)
	CountActiveEmpruntsByUtilisateur(ctx context.Context, tx pgx.Tx, utilisateurID int64) (int, error)
	InsertEmprunt(ctx context.Context, tx pgx.Tx, utilisateurID, livreID int64, dateEmprunt time.Time) (int64, error)
	GetEmpruntForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Emprunt, error)
	SetDateRetour(ctx context.Context, tx pgx.Tx, empruntID int64, date time.Time) error
	SetDisponibilite(ctx context.Context, tx pgx.Tx, livreID int64, disponible bool) error

	FindActiveEmpruntsByUtilisateur(ctx context.Context, utilisateurID int64) ([]model.Emprunt, error)
	FindActiveEmpruntByLivre(ctx context.Context, livreID int64) (*model.Emprunt, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) GetUtilisateurForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Utilisateur, error) {
	const q = `
		SELECT id, nom, prenom
		FROM utilisateurs
		WHERE id = $1
		FOR UPDATE`
	u := &model.Utilisateur{}
	if err := tx.QueryRow(ctx, q, id).Scan(&u.ID, &u.Nom, &u.Prenom); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) GetUtilisateur(ctx context.Context, tx pgx.Tx, id int64) (*model.Utilisateur, error) {
	const q = `
		SELECT id, nom, prenom
		FROM utilisateurs
		WHERE id = $1`
	u := &model.Utilisateur{}
	if err := tx.QueryRow(ctx, q, id).Scan(&u.ID, &u.Nom, &u.Prenom); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) GetLivreForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Livre, error) {
	const q = `
		SELECT id, titre, date_publication, disponible, auteur_id, categorie_id
		FROM livres
		WHERE id = $1
		FOR UPDATE`
	return scanLivre(tx.QueryRow(ctx, q, id))
}

func (r *repo) HasActiveEmpruntByLivre(ctx context.Context, tx pgx.Tx, livreID int64) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM emprunts
			WHERE livre_id = $1 AND date_retour IS NULL
		)`
	var exists bool
	err := tx.QueryRow(ctx, q, livreID).Scan(&exists)
	return exists, err
}

func (r *repo) CountActiveEmpruntsByUtilisateur(ctx context.Context, tx pgx.Tx, utilisateurID int64) (int, error) {
	const q = `
		SELECT COUNT(*)
		FROM emprunts
		WHERE utilisateur_id = $1 AND date_retour IS NULL`
	var n int
	err := tx.QueryRow(ctx, q, utilisateurID).Scan(&n)
	return n, err
}

func (r *repo) InsertEmprunt(ctx context.Context, tx pgx.Tx, utilisateurID, livreID int64, dateEmprunt time.Time) (int64, error) {
	const q = `
		INSERT INTO emprunts (utilisateur_id, livre_id, date_emprunt, date_retour)
		VALUES ($1, $2, $3, NULL)
		RETURNING id`
	var id int64
	if err := tx.QueryRow(ctx, q, utilisateurID, livreID, dateEmprunt).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) GetEmpruntForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Emprunt, error) {
	const q = `
		SELECT id, utilisateur_id, livre_id, date_emprunt, date_retour
		FROM emprunts
		WHERE id = $1
		FOR UPDATE`
	return scanEmprunt(tx.QueryRow(ctx, q, id))
}

func (r *repo) SetDateRetour(ctx context.Context, tx pgx.Tx, empruntID int64, date time.Time) error {
	const q = `
		UPDATE emprunts
		SET date_retour = $2
		WHERE id = $1`
	_, err := tx.Exec(ctx, q, empruntID, date)
	return err
}

func (r *repo) SetDisponibilite(ctx context.Context, tx pgx.Tx, livreID int64, disponible bool) error {
	const q = `
		UPDATE livres
		SET disponible = $2
		WHERE id = $1`
	_, err := tx.Exec(ctx, q, livreID, disponible)
	return err
}

func (r *repo) FindActiveEmpruntsByUtilisateur(ctx context.Context, utilisateurID int64) ([]model.Emprunt, error) {
	const q = `
		SELECT id, utilisateur_id, livre_id, date_emprunt, date_retour
		FROM emprunts
		WHERE utilisateur_id = $1 AND date_retour IS NULL
		ORDER BY date_emprunt ASC, id ASC`
	rows, err := r.db.Pool.Query(ctx, q, utilisateurID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Emprunt
	for rows.Next() {
		e, err := scanEmprunt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *repo) FindActiveEmpruntByLivre(ctx context.Context, livreID int64) (*model.Emprunt, error) {
	const q = `
		SELECT id, utilisateur_id, livre_id, date_emprunt, date_retour
		FROM emprunts
		WHERE livre_id = $1 AND date_retour IS NULL`
	return scanEmprunt(r.db.Pool.QueryRow(ctx, q, livreID))
}

func scanEmprunt(row pgx.Row) (*model.Emprunt, error) {
	e := &model.Emprunt{}
	var dateEmprunt time.Time
	var dateRetour *time.Time
	if err := row.Scan(&e.ID, &e.UtilisateurID, &e.LivreID, &dateEmprunt, &dateRetour); err != nil {
		return nil, err
	}
	e.DateEmprunt = model.NewDate(dateEmprunt)
	if dateRetour != nil {
		d := model.NewDate(*dateRetour)
		e.DateRetour = &d
	}
	return e, nil
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
