package inmemory_test

import (
	"context"
	"testing"
	"time"

	"bibliotheque/model"
	"bibliotheque/repository/inmemory"
	"bibliotheque/util/database"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *inmemory.Store {
	t.Helper()
	s, err := inmemory.NewStore()
	require.NoError(t, err)
	return s
}

func TestAuteur_CRUD(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	repo := inmemory.NewAuteurRepo(s)

	a := model.Auteur{Nom: "Hugo", Prenom: "Victor"}
	require.NoError(t, repo.Insert(ctx, &a))
	require.Equal(t, int64(1), a.ID)

	b := model.Auteur{Nom: "Zola", Prenom: "Émile"}
	require.NoError(t, repo.Insert(ctx, &b))
	require.Equal(t, int64(2), b.ID)

	got, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "Hugo", got.Nom)

	_, err = repo.Get(ctx, 99)
	require.ErrorIs(t, err, pgx.ErrNoRows)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, int64(1), all[0].ID)

	found, err := repo.Update(ctx, &model.Auteur{ID: a.ID, Nom: "Hugo", Prenom: "V."})
	require.NoError(t, err)
	require.True(t, found)

	found, err = repo.Update(ctx, &model.Auteur{ID: 99, Nom: "X"})
	require.NoError(t, err)
	require.False(t, found)

	found, err = repo.Delete(ctx, b.ID)
	require.NoError(t, err)
	require.True(t, found)

	found, err = repo.Delete(ctx, b.ID)
	require.NoError(t, err)
	require.False(t, found)
}

func TestAuteur_DeleteBloqueParLivre(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	auteurs := inmemory.NewAuteurRepo(s)
	categories := inmemory.NewCategorieRepo(s)
	livres := inmemory.NewLivreRepo(s)

	a := model.Auteur{Nom: "Hugo"}
	require.NoError(t, auteurs.Insert(ctx, &a))
	c := model.Categorie{Nom: "Roman"}
	require.NoError(t, categories.Insert(ctx, &c))

	l := model.Livre{Titre: "Les Misérables", Disponible: true, AuteurID: a.ID, CategorieID: c.ID}
	require.NoError(t, livres.Insert(ctx, &l))

	_, err := auteurs.Delete(ctx, a.ID)
	require.True(t, database.IsForeignKeyViolation(err))

	_, err = categories.Delete(ctx, c.ID)
	require.True(t, database.IsForeignKeyViolation(err))
}

func TestLivre_InsertRefsInconnues(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	livres := inmemory.NewLivreRepo(s)

	err := livres.Insert(ctx, &model.Livre{Titre: "Orphelin", AuteurID: 1, CategorieID: 1})
	require.True(t, database.IsForeignKeyViolation(err))
}

func TestLivre_DeleteSupprimeLesEmprunts(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	auteurs := inmemory.NewAuteurRepo(s)
	categories := inmemory.NewCategorieRepo(s)
	users := inmemory.NewUtilisateurRepo(s)
	livres := inmemory.NewLivreRepo(s)
	emprunts := inmemory.NewEmpruntRepo(s)

	a := model.Auteur{Nom: "Hugo"}
	require.NoError(t, auteurs.Insert(ctx, &a))
	c := model.Categorie{Nom: "Roman"}
	require.NoError(t, categories.Insert(ctx, &c))
	u := model.Utilisateur{Nom: "Dupont"}
	require.NoError(t, users.Insert(ctx, &u))
	l := model.Livre{Titre: "Les Misérables", Disponible: true, AuteurID: a.ID, CategorieID: c.ID}
	require.NoError(t, livres.Insert(ctx, &l))

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	empruntID, err := emprunts.InsertEmprunt(ctx, tx, u.ID, l.ID, time.Now())
	require.NoError(t, err)
	require.NoError(t, emprunts.SetDateRetour(ctx, tx, empruntID, time.Now()))
	require.NoError(t, tx.Commit(ctx))

	// closed loan history still blocks the utilisateur delete
	_, err = users.Delete(ctx, u.ID)
	require.True(t, database.IsForeignKeyViolation(err))

	tx, err = s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, livres.Delete(ctx, tx, l.ID))
	require.NoError(t, tx.Commit(ctx))

	_, err = livres.Get(ctx, l.ID)
	require.ErrorIs(t, err, pgx.ErrNoRows)

	// the cascade took the emprunt rows with the livre
	found, err := users.Delete(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, found)
}

func TestEmprunt_Compteurs(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	auteurs := inmemory.NewAuteurRepo(s)
	categories := inmemory.NewCategorieRepo(s)
	users := inmemory.NewUtilisateurRepo(s)
	livres := inmemory.NewLivreRepo(s)
	emprunts := inmemory.NewEmpruntRepo(s)

	a := model.Auteur{Nom: "Hugo"}
	require.NoError(t, auteurs.Insert(ctx, &a))
	c := model.Categorie{Nom: "Roman"}
	require.NoError(t, categories.Insert(ctx, &c))
	u := model.Utilisateur{Nom: "Dupont"}
	require.NoError(t, users.Insert(ctx, &u))

	l1 := model.Livre{Titre: "Tome 1", Disponible: true, AuteurID: a.ID, CategorieID: c.ID}
	require.NoError(t, livres.Insert(ctx, &l1))
	l2 := model.Livre{Titre: "Tome 2", Disponible: true, AuteurID: a.ID, CategorieID: c.ID}
	require.NoError(t, livres.Insert(ctx, &l2))

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	e1, err := emprunts.InsertEmprunt(ctx, tx, u.ID, l1.ID, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = emprunts.InsertEmprunt(ctx, tx, u.ID, l2.ID, time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	n, err := emprunts.CountActiveEmpruntsByUtilisateur(ctx, tx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	actif, err := emprunts.HasActiveEmpruntByLivre(ctx, tx, l1.ID)
	require.NoError(t, err)
	require.True(t, actif)

	require.NoError(t, emprunts.SetDateRetour(ctx, tx, e1, time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)))

	n, err = emprunts.CountActiveEmpruntsByUtilisateur(ctx, tx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	actif, err = emprunts.HasActiveEmpruntByLivre(ctx, tx, l1.ID)
	require.NoError(t, err)
	require.False(t, actif)
	require.NoError(t, tx.Commit(ctx))

	rows, err := emprunts.FindActiveEmpruntsByUtilisateur(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, l2.ID, rows[0].LivreID)

	open, err := emprunts.FindActiveEmpruntByLivre(ctx, l2.ID)
	require.NoError(t, err)
	require.Equal(t, u.ID, open.UtilisateurID)

	_, err = emprunts.FindActiveEmpruntByLivre(ctx, l1.ID)
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestLivre_ListeAvecDetails(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	auteurs := inmemory.NewAuteurRepo(s)
	categories := inmemory.NewCategorieRepo(s)
	livres := inmemory.NewLivreRepo(s)

	a := model.Auteur{Nom: "Hugo", Prenom: "Victor"}
	require.NoError(t, auteurs.Insert(ctx, &a))
	c := model.Categorie{Nom: "Roman"}
	require.NoError(t, categories.Insert(ctx, &c))

	pub := time.Date(1862, 4, 3, 0, 0, 0, 0, time.UTC)
	l := model.Livre{Titre: "Les Misérables", DatePublication: model.NewDate(pub), Disponible: true, AuteurID: a.ID, CategorieID: c.ID}
	require.NoError(t, livres.Insert(ctx, &l))

	rows, err := livres.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Les Misérables", rows[0].Titre)
	require.Equal(t, "Hugo", rows[0].Auteur.Nom)
	require.Equal(t, "Roman", rows[0].Categorie.Nom)
	require.Equal(t, pub, rows[0].DatePublication.Time)
}
