package inmemory

import (
	"context"
	"sort"

	"bibliotheque/model"
	"bibliotheque/util/database"

	"github.com/jackc/pgx/v5"
)

// Reference-data repos. Deletes enforce the same RESTRICT rules as the
// postgres foreign keys.

type AuteurRepo struct{ s *Store }

func NewAuteurRepo(s *Store) *AuteurRepo { return &AuteurRepo{s: s} }

func (r *AuteurRepo) Insert(ctx context.Context, a *model.Auteur) error {
	txn := r.s.db.Txn(true)
	defer txn.Abort()

	id := r.s.nextID("auteur")
	if err := txn.Insert("auteur", &auteurRec{ID: fmtID(id), Nom: a.Nom, Prenom: a.Prenom}); err != nil {
		return err
	}
	txn.Commit()
	a.ID = id
	return nil
}

func (r *AuteurRepo) Get(ctx context.Context, id int64) (*model.Auteur, error) {
	txn := r.s.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First("auteur", "id", fmtID(id))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, pgx.ErrNoRows
	}
	rec := raw.(*auteurRec)
	return &model.Auteur{ID: parseID(rec.ID), Nom: rec.Nom, Prenom: rec.Prenom}, nil
}

func (r *AuteurRepo) List(ctx context.Context) ([]model.Auteur, error) {
	txn := r.s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get("auteur", "id")
	if err != nil {
		return nil, err
	}
	var out []model.Auteur
	for raw := it.Next(); raw != nil; raw = it.Next() {
		rec := raw.(*auteurRec)
		out = append(out, model.Auteur{ID: parseID(rec.ID), Nom: rec.Nom, Prenom: rec.Prenom})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *AuteurRepo) Update(ctx context.Context, a *model.Auteur) (bool, error) {
	txn := r.s.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First("auteur", "id", fmtID(a.ID))
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := txn.Insert("auteur", &auteurRec{ID: fmtID(a.ID), Nom: a.Nom, Prenom: a.Prenom}); err != nil {
		return false, err
	}
	txn.Commit()
	return true, nil
}

func (r *AuteurRepo) Delete(ctx context.Context, id int64) (bool, error) {
	txn := r.s.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First("auteur", "id", fmtID(id))
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if ref, err := txn.First("livre", "auteur_id", fmtID(id)); err != nil {
		return false, err
	} else if ref != nil {
		return false, database.ErrForeignKey
	}
	if err := txn.Delete("auteur", raw); err != nil {
		return false, err
	}
	txn.Commit()
	return true, nil
}

type CategorieRepo struct{ s *Store }

func NewCategorieRepo(s *Store) *CategorieRepo { return &CategorieRepo{s: s} }

func (r *CategorieRepo) Insert(ctx context.Context, c *model.Categorie) error {
	txn := r.s.db.Txn(true)
	defer txn.Abort()

	id := r.s.nextID("categorie")
	if err := txn.Insert("categorie", &categorieRec{ID: fmtID(id), Nom: c.Nom}); err != nil {
		return err
	}
	txn.Commit()
	c.ID = id
	return nil
}

func (r *CategorieRepo) Get(ctx context.Context, id int64) (*model.Categorie, error) {
	txn := r.s.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First("categorie", "id", fmtID(id))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, pgx.ErrNoRows
	}
	rec := raw.(*categorieRec)
	return &model.Categorie{ID: parseID(rec.ID), Nom: rec.Nom}, nil
}

func (r *CategorieRepo) List(ctx context.Context) ([]model.Categorie, error) {
	txn := r.s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get("categorie", "id")
	if err != nil {
		return nil, err
	}
	var out []model.Categorie
	for raw := it.Next(); raw != nil; raw = it.Next() {
		rec := raw.(*categorieRec)
		out = append(out, model.Categorie{ID: parseID(rec.ID), Nom: rec.Nom})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CategorieRepo) Update(ctx context.Context, c *model.Categorie) (bool, error) {
	txn := r.s.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First("categorie", "id", fmtID(c.ID))
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := txn.Insert("categorie", &categorieRec{ID: fmtID(c.ID), Nom: c.Nom}); err != nil {
		return false, err
	}
	txn.Commit()
	return true, nil
}

func (r *CategorieRepo) Delete(ctx context.Context, id int64) (bool, error) {
	txn := r.s.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First("categorie", "id", fmtID(id))
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if ref, err := txn.First("livre", "categorie_id", fmtID(id)); err != nil {
		return false, err
	} else if ref != nil {
		return false, database.ErrForeignKey
	}
	if err := txn.Delete("categorie", raw); err != nil {
		return false, err
	}
	txn.Commit()
	return true, nil
}

type UtilisateurRepo struct{ s *Store }

func NewUtilisateurRepo(s *Store) *UtilisateurRepo { return &UtilisateurRepo{s: s} }

func (r *UtilisateurRepo) Insert(ctx context.Context, u *model.Utilisateur) error {
	txn := r.s.db.Txn(true)
	defer txn.Abort()

	id := r.s.nextID("utilisateur")
	if err := txn.Insert("utilisateur", &utilisateurRec{ID: fmtID(id), Nom: u.Nom, Prenom: u.Prenom}); err != nil {
		return err
	}
	txn.Commit()
	u.ID = id
	return nil
}

func (r *UtilisateurRepo) Get(ctx context.Context, id int64) (*model.Utilisateur, error) {
	txn := r.s.db.Txn(false)
	defer txn.Abort()
	return getUtilisateur(txn, id)
}

func (r *UtilisateurRepo) List(ctx context.Context) ([]model.Utilisateur, error) {
	txn := r.s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get("utilisateur", "id")
	if err != nil {
		return nil, err
	}
	var out []model.Utilisateur
	for raw := it.Next(); raw != nil; raw = it.Next() {
		rec := raw.(*utilisateurRec)
		out = append(out, model.Utilisateur{ID: parseID(rec.ID), Nom: rec.Nom, Prenom: rec.Prenom})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UtilisateurRepo) Update(ctx context.Context, u *model.Utilisateur) (bool, error) {
	txn := r.s.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First("utilisateur", "id", fmtID(u.ID))
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := txn.Insert("utilisateur", &utilisateurRec{ID: fmtID(u.ID), Nom: u.Nom, Prenom: u.Prenom}); err != nil {
		return false, err
	}
	txn.Commit()
	return true, nil
}

func (r *UtilisateurRepo) Delete(ctx context.Context, id int64) (bool, error) {
	txn := r.s.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First("utilisateur", "id", fmtID(id))
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	// Any emprunt row, open or closed, blocks the delete (RESTRICT).
	if ref, err := txn.First("emprunt", "utilisateur_id", fmtID(id)); err != nil {
		return false, err
	} else if ref != nil {
		return false, database.ErrForeignKey
	}
	if err := txn.Delete("utilisateur", raw); err != nil {
		return false, err
	}
	txn.Commit()
	return true, nil
}
