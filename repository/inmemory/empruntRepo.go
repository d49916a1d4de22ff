package inmemory

import (
	"context"
	"sort"
	"time"

	"bibliotheque/model"

	"github.com/hashicorp/go-memdb"
	"github.com/jackc/pgx/v5"
)

// EmpruntRepo implements the loan lifecycle's query gateway on memdb.
// The ForUpdate variants are plain reads: the single-writer transaction
// already serializes every mutation.
type EmpruntRepo struct{ s *Store }

func NewEmpruntRepo(s *Store) *EmpruntRepo { return &EmpruntRepo{s: s} }

func (r *EmpruntRepo) GetUtilisateurForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Utilisateur, error) {
	return getUtilisateur(asTxn(tx), id)
}

func (r *EmpruntRepo) GetUtilisateur(ctx context.Context, tx pgx.Tx, id int64) (*model.Utilisateur, error) {
	return getUtilisateur(asTxn(tx), id)
}

func (r *EmpruntRepo) GetLivreForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Livre, error) {
	return getLivre(asTxn(tx), id)
}

func (r *EmpruntRepo) HasActiveEmpruntByLivre(ctx context.Context, tx pgx.Tx, livreID int64) (bool, error) {
	return hasActiveEmpruntByLivre(asTxn(tx), livreID)
}

func (r *EmpruntRepo) CountActiveEmpruntsByUtilisateur(ctx context.Context, tx pgx.Tx, utilisateurID int64) (int, error) {
	it, err := asTxn(tx).Get("emprunt", "utilisateur_id", fmtID(utilisateurID))
	if err != nil {
		return 0, err
	}
	n := 0
	for raw := it.Next(); raw != nil; raw = it.Next() {
		if raw.(*empruntRec).DateRetour == nil {
			n++
		}
	}
	return n, nil
}

func (r *EmpruntRepo) InsertEmprunt(ctx context.Context, tx pgx.Tx, utilisateurID, livreID int64, dateEmprunt time.Time) (int64, error) {
	id := r.s.nextID("emprunt")
	rec := &empruntRec{
		ID:            fmtID(id),
		UtilisateurID: fmtID(utilisateurID),
		LivreID:       fmtID(livreID),
		DateEmprunt:   dateEmprunt,
	}
	if err := asTxn(tx).Insert("emprunt", rec); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *EmpruntRepo) GetEmpruntForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Emprunt, error) {
	raw, err := asTxn(tx).First("emprunt", "id", fmtID(id))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, pgx.ErrNoRows
	}
	return toEmprunt(raw.(*empruntRec)), nil
}

func (r *EmpruntRepo) SetDateRetour(ctx context.Context, tx pgx.Tx, empruntID int64, date time.Time) error {
	txn := asTxn(tx)
	raw, err := txn.First("emprunt", "id", fmtID(empruntID))
	if err != nil {
		return err
	}
	if raw == nil {
		return pgx.ErrNoRows
	}
	rec := *raw.(*empruntRec)
	rec.DateRetour = &date
	return txn.Insert("emprunt", &rec)
}

func (r *EmpruntRepo) SetDisponibilite(ctx context.Context, tx pgx.Tx, livreID int64, disponible bool) error {
	txn := asTxn(tx)
	raw, err := txn.First("livre", "id", fmtID(livreID))
	if err != nil {
		return err
	}
	if raw == nil {
		return pgx.ErrNoRows
	}
	rec := *raw.(*livreRec)
	rec.Disponible = disponible
	return txn.Insert("livre", &rec)
}

func (r *EmpruntRepo) FindActiveEmpruntsByUtilisateur(ctx context.Context, utilisateurID int64) ([]model.Emprunt, error) {
	txn := r.s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get("emprunt", "utilisateur_id", fmtID(utilisateurID))
	if err != nil {
		return nil, err
	}
	var out []model.Emprunt
	for raw := it.Next(); raw != nil; raw = it.Next() {
		rec := raw.(*empruntRec)
		if rec.DateRetour != nil {
			continue
		}
		out = append(out, *toEmprunt(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateEmprunt.Equal(out[j].DateEmprunt.Time) {
			return out[i].DateEmprunt.Before(out[j].DateEmprunt.Time)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *EmpruntRepo) FindActiveEmpruntByLivre(ctx context.Context, livreID int64) (*model.Emprunt, error) {
	txn := r.s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get("emprunt", "livre_id", fmtID(livreID))
	if err != nil {
		return nil, err
	}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		rec := raw.(*empruntRec)
		if rec.DateRetour == nil {
			return toEmprunt(rec), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func getUtilisateur(txn *memdb.Txn, id int64) (*model.Utilisateur, error) {
	raw, err := txn.First("utilisateur", "id", fmtID(id))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, pgx.ErrNoRows
	}
	rec := raw.(*utilisateurRec)
	return &model.Utilisateur{ID: parseID(rec.ID), Nom: rec.Nom, Prenom: rec.Prenom}, nil
}

func toEmprunt(rec *empruntRec) *model.Emprunt {
	e := &model.Emprunt{
		ID:            parseID(rec.ID),
		UtilisateurID: parseID(rec.UtilisateurID),
		LivreID:       parseID(rec.LivreID),
		DateEmprunt:   model.NewDate(rec.DateEmprunt),
	}
	if rec.DateRetour != nil {
		d := model.NewDate(*rec.DateRetour)
		e.DateRetour = &d
	}
	return e
}
