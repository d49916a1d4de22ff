package inmemory

import (
	"context"
	"sort"

	"bibliotheque/model"
	"bibliotheque/util/database"

	"github.com/hashicorp/go-memdb"
	"github.com/jackc/pgx/v5"
)

type LivreRepo struct{ s *Store }

func NewLivreRepo(s *Store) *LivreRepo { return &LivreRepo{s: s} }

func (r *LivreRepo) Insert(ctx context.Context, l *model.Livre) error {
	txn := r.s.db.Txn(true)
	defer txn.Abort()

	if err := checkExists(txn, "auteur", l.AuteurID); err != nil {
		return err
	}
	if err := checkExists(txn, "categorie", l.CategorieID); err != nil {
		return err
	}

	id := r.s.nextID("livre")
	rec := &livreRec{
		ID:              fmtID(id),
		Titre:           l.Titre,
		DatePublication: l.DatePublication.Time,
		Disponible:      l.Disponible,
		AuteurID:        fmtID(l.AuteurID),
		CategorieID:     fmtID(l.CategorieID),
	}
	if err := txn.Insert("livre", rec); err != nil {
		return err
	}
	txn.Commit()
	l.ID = id
	return nil
}

func (r *LivreRepo) Get(ctx context.Context, id int64) (*model.Livre, error) {
	txn := r.s.db.Txn(false)
	defer txn.Abort()
	return getLivre(txn, id)
}

func (r *LivreRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Livre, error) {
	return getLivre(asTxn(tx), id)
}

func (r *LivreRepo) Update(ctx context.Context, tx pgx.Tx, l *model.Livre) error {
	txn := asTxn(tx)
	if err := checkExists(txn, "auteur", l.AuteurID); err != nil {
		return err
	}
	if err := checkExists(txn, "categorie", l.CategorieID); err != nil {
		return err
	}
	rec := &livreRec{
		ID:              fmtID(l.ID),
		Titre:           l.Titre,
		DatePublication: l.DatePublication.Time,
		Disponible:      l.Disponible,
		AuteurID:        fmtID(l.AuteurID),
		CategorieID:     fmtID(l.CategorieID),
	}
	return txn.Insert("livre", rec)
}

// Delete drops the livre and its loan history, mirroring the ON DELETE
// CASCADE of the postgres schema.
func (r *LivreRepo) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	txn := asTxn(tx)
	if _, err := txn.DeleteAll("emprunt", "livre_id", fmtID(id)); err != nil {
		return err
	}
	_, err := txn.DeleteAll("livre", "id", fmtID(id))
	return err
}

func (r *LivreRepo) HasActiveEmprunt(ctx context.Context, tx pgx.Tx, livreID int64) (bool, error) {
	return hasActiveEmpruntByLivre(asTxn(tx), livreID)
}

func (r *LivreRepo) List(ctx context.Context) ([]model.LivreDetail, error) {
	txn := r.s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get("livre", "id")
	if err != nil {
		return nil, err
	}
	var out []model.LivreDetail
	for raw := it.Next(); raw != nil; raw = it.Next() {
		rec := raw.(*livreRec)
		d := model.LivreDetail{
			ID:              parseID(rec.ID),
			Titre:           rec.Titre,
			DatePublication: model.NewDate(rec.DatePublication),
			Disponible:      rec.Disponible,
		}
		if rawA, _ := txn.First("auteur", "id", rec.AuteurID); rawA != nil {
			a := rawA.(*auteurRec)
			d.Auteur = model.Auteur{ID: parseID(a.ID), Nom: a.Nom, Prenom: a.Prenom}
		}
		if rawC, _ := txn.First("categorie", "id", rec.CategorieID); rawC != nil {
			c := rawC.(*categorieRec)
			d.Categorie = model.Categorie{ID: parseID(c.ID), Nom: c.Nom}
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func getLivre(txn *memdb.Txn, id int64) (*model.Livre, error) {
	raw, err := txn.First("livre", "id", fmtID(id))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, pgx.ErrNoRows
	}
	rec := raw.(*livreRec)
	return &model.Livre{
		ID:              parseID(rec.ID),
		Titre:           rec.Titre,
		DatePublication: model.NewDate(rec.DatePublication),
		Disponible:      rec.Disponible,
		AuteurID:        parseID(rec.AuteurID),
		CategorieID:     parseID(rec.CategorieID),
	}, nil
}

func hasActiveEmpruntByLivre(txn *memdb.Txn, livreID int64) (bool, error) {
	it, err := txn.Get("emprunt", "livre_id", fmtID(livreID))
	if err != nil {
		return false, err
	}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		if raw.(*empruntRec).DateRetour == nil {
			return true, nil
		}
	}
	return false, nil
}

func checkExists(txn *memdb.Txn, table string, id int64) error {
	raw, err := txn.First(table, "id", fmtID(id))
	if err != nil {
		return err
	}
	if raw == nil {
		return database.ErrForeignKey
	}
	return nil
}
