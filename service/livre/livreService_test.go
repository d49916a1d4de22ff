// service/livre/livre_service_test.go
package livresvc

import (
	"context"
	"errors"
	"testing"
	"time"

	"bibliotheque/model"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

type stubTx struct {
	pgx.Tx
	committed bool
	aborted   bool
}

func (t *stubTx) Commit(ctx context.Context) error   { t.committed = true; return nil }
func (t *stubTx) Rollback(ctx context.Context) error { t.aborted = true; return nil }

type stubDB struct{ tx *stubTx }

func (d *stubDB) Begin(ctx context.Context) (pgx.Tx, error) { return d.tx, nil }

type mockRepo struct {
	insertFn       func(l *model.Livre) error
	getFn          func(id int64) (*model.Livre, error)
	getForUpdateFn func(id int64) (*model.Livre, error)
	updateFn       func(l *model.Livre) error
	deleteFn       func(id int64) error
	hasActiveFn    func(livreID int64) (bool, error)
	listFn         func() ([]model.LivreDetail, error)
}

var _ Repo = (*mockRepo)(nil)

func (m *mockRepo) Insert(ctx context.Context, l *model.Livre) error {
	if m.insertFn == nil {
		l.ID = 1
		return nil
	}
	return m.insertFn(l)
}

func (m *mockRepo) Get(ctx context.Context, id int64) (*model.Livre, error) {
	if m.getFn == nil {
		return nil, pgx.ErrNoRows
	}
	return m.getFn(id)
}

func (m *mockRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Livre, error) {
	if m.getForUpdateFn == nil {
		return nil, pgx.ErrNoRows
	}
	return m.getForUpdateFn(id)
}

func (m *mockRepo) Update(ctx context.Context, tx pgx.Tx, l *model.Livre) error {
	if m.updateFn == nil {
		return nil
	}
	return m.updateFn(l)
}

func (m *mockRepo) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(id)
}

func (m *mockRepo) HasActiveEmprunt(ctx context.Context, tx pgx.Tx, livreID int64) (bool, error) {
	if m.hasActiveFn == nil {
		return false, nil
	}
	return m.hasActiveFn(livreID)
}

func (m *mockRepo) List(ctx context.Context) ([]model.LivreDetail, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn()
}

type mockAuteurRepo struct {
	getFn func(id int64) (*model.Auteur, error)
}

func (m *mockAuteurRepo) Get(ctx context.Context, id int64) (*model.Auteur, error) {
	if m.getFn == nil {
		return &model.Auteur{ID: id}, nil
	}
	return m.getFn(id)
}

type mockCategorieRepo struct {
	getFn func(id int64) (*model.Categorie, error)
}

func (m *mockCategorieRepo) Get(ctx context.Context, id int64) (*model.Categorie, error) {
	if m.getFn == nil {
		return &model.Categorie{ID: id}, nil
	}
	return m.getFn(id)
}

func newTestService(r *mockRepo, ar *mockAuteurRepo, cr *mockCategorieRepo) (Service, *stubTx) {
	tx := &stubTx{}
	return New(&stubDB{tx: tx}, r, ar, cr), tx
}

func boolPtr(b bool) *bool       { return &b }
func strPtr(s string) *string    { return &s }
func int64Ptr(i int64) *int64    { return &i }

// --- Create ---

func TestCreate_Success(t *testing.T) {
	var inserted *model.Livre
	m := &mockRepo{
		insertFn: func(l *model.Livre) error { l.ID = 5; inserted = l; return nil },
	}
	svc, _ := newTestService(m, &mockAuteurRepo{}, &mockCategorieRepo{})

	l, err := svc.Create(context.Background(), CreateInput{
		Titre:           "Les Misérables",
		DatePublication: "1862-04-03",
		AuteurID:        1,
		CategorieID:     2,
	})
	require.NoError(t, err)
	require.Equal(t, int64(5), l.ID)
	require.True(t, inserted.Disponible, "disponible defaults to true")
	require.Equal(t, "1862-04-03", l.DatePublication.Format(model.DateFormat))
}

func TestCreate_DisponibleExplicite(t *testing.T) {
	m := &mockRepo{}
	svc, _ := newTestService(m, &mockAuteurRepo{}, &mockCategorieRepo{})

	l, err := svc.Create(context.Background(), CreateInput{
		Titre:           "Les Misérables",
		DatePublication: "1862-04-03",
		AuteurID:        1,
		CategorieID:     2,
		Disponible:      boolPtr(false),
	})
	require.NoError(t, err)
	require.False(t, l.Disponible)
}

func TestCreate_DateInvalide(t *testing.T) {
	svc, _ := newTestService(&mockRepo{}, &mockAuteurRepo{}, &mockCategorieRepo{})

	_, err := svc.Create(context.Background(), CreateInput{
		Titre:           "X",
		DatePublication: "03/04/1862",
		AuteurID:        1,
		CategorieID:     2,
	})
	require.Equal(t, ErrDateInvalide, Code(err))
}

func TestCreate_AuteurInconnu(t *testing.T) {
	ar := &mockAuteurRepo{getFn: func(id int64) (*model.Auteur, error) { return nil, pgx.ErrNoRows }}
	svc, _ := newTestService(&mockRepo{}, ar, &mockCategorieRepo{})

	_, err := svc.Create(context.Background(), CreateInput{
		Titre:           "X",
		DatePublication: "1862-04-03",
		AuteurID:        99,
		CategorieID:     2,
	})
	require.Equal(t, ErrAuteurInconnu, Code(err))
}

func TestCreate_CategorieInconnue(t *testing.T) {
	cr := &mockCategorieRepo{getFn: func(id int64) (*model.Categorie, error) { return nil, pgx.ErrNoRows }}
	svc, _ := newTestService(&mockRepo{}, &mockAuteurRepo{}, cr)

	_, err := svc.Create(context.Background(), CreateInput{
		Titre:           "X",
		DatePublication: "1862-04-03",
		AuteurID:        1,
		CategorieID:     99,
	})
	require.Equal(t, ErrCategorieInconnue, Code(err))
}

// --- Update ---

func existingLivre() *model.Livre {
	return &model.Livre{
		ID:              3,
		Titre:           "Les Misérables",
		DatePublication: model.NewDate(time.Date(1862, 4, 3, 0, 0, 0, 0, time.UTC)),
		Disponible:      true,
		AuteurID:        1,
		CategorieID:     2,
	}
}

func TestUpdate_Introuvable(t *testing.T) {
	svc, tx := newTestService(&mockRepo{}, &mockAuteurRepo{}, &mockCategorieRepo{})

	_, err := svc.Update(context.Background(), 99, UpdateInput{Titre: strPtr("X")})
	require.Equal(t, ErrLivreIntrouvable, Code(err))
	require.True(t, tx.aborted)
}

func TestUpdate_PatchPartiel(t *testing.T) {
	var updated *model.Livre
	m := &mockRepo{
		getForUpdateFn: func(id int64) (*model.Livre, error) { return existingLivre(), nil },
		updateFn:       func(l *model.Livre) error { updated = l; return nil },
	}
	svc, tx := newTestService(m, &mockAuteurRepo{}, &mockCategorieRepo{})

	l, err := svc.Update(context.Background(), 3, UpdateInput{
		Titre:           strPtr("Les Misérables, Tome I"),
		DatePublication: strPtr("1862-06-30"),
	})
	require.NoError(t, err)
	require.True(t, tx.committed)
	require.Equal(t, "Les Misérables, Tome I", updated.Titre)
	require.Equal(t, "1862-06-30", updated.DatePublication.Format(model.DateFormat))
	// untouched fields keep their stored values
	require.Equal(t, int64(1), l.AuteurID)
	require.True(t, l.Disponible)
}

func TestUpdate_DateInvalide(t *testing.T) {
	m := &mockRepo{
		getForUpdateFn: func(id int64) (*model.Livre, error) { return existingLivre(), nil },
	}
	svc, tx := newTestService(m, &mockAuteurRepo{}, &mockCategorieRepo{})

	_, err := svc.Update(context.Background(), 3, UpdateInput{DatePublication: strPtr("30/06/1862")})
	require.Equal(t, ErrDateInvalide, Code(err))
	require.True(t, tx.aborted)
}

func TestUpdate_AuteurInconnu(t *testing.T) {
	m := &mockRepo{
		getForUpdateFn: func(id int64) (*model.Livre, error) { return existingLivre(), nil },
	}
	ar := &mockAuteurRepo{getFn: func(id int64) (*model.Auteur, error) { return nil, pgx.ErrNoRows }}
	svc, tx := newTestService(m, ar, &mockCategorieRepo{})

	_, err := svc.Update(context.Background(), 3, UpdateInput{AuteurID: int64Ptr(99)})
	require.Equal(t, ErrAuteurInconnu, Code(err))
	require.True(t, tx.aborted)
}

func TestUpdate_CategorieInconnue(t *testing.T) {
	m := &mockRepo{
		getForUpdateFn: func(id int64) (*model.Livre, error) { return existingLivre(), nil },
	}
	cr := &mockCategorieRepo{getFn: func(id int64) (*model.Categorie, error) { return nil, pgx.ErrNoRows }}
	svc, tx := newTestService(m, &mockAuteurRepo{}, cr)

	_, err := svc.Update(context.Background(), 3, UpdateInput{CategorieID: int64Ptr(99)})
	require.Equal(t, ErrCategorieInconnue, Code(err))
	require.True(t, tx.aborted)
}

// --- Delete ---

func TestDelete_Emprunte(t *testing.T) {
	deleted := false
	m := &mockRepo{
		getForUpdateFn: func(id int64) (*model.Livre, error) { return existingLivre(), nil },
		hasActiveFn:    func(livreID int64) (bool, error) { return true, nil },
		deleteFn:       func(id int64) error { deleted = true; return nil },
	}
	svc, tx := newTestService(m, &mockAuteurRepo{}, &mockCategorieRepo{})

	err := svc.Delete(context.Background(), 3)
	require.Equal(t, ErrLivreEmprunte, Code(err))
	require.True(t, tx.aborted)
	require.False(t, deleted)
}

func TestDelete_Success(t *testing.T) {
	deleted := false
	m := &mockRepo{
		getForUpdateFn: func(id int64) (*model.Livre, error) { return existingLivre(), nil },
		deleteFn:       func(id int64) error { deleted = true; return nil },
	}
	svc, tx := newTestService(m, &mockAuteurRepo{}, &mockCategorieRepo{})

	require.NoError(t, svc.Delete(context.Background(), 3))
	require.True(t, tx.committed)
	require.True(t, deleted)
}

func TestDelete_Introuvable(t *testing.T) {
	svc, tx := newTestService(&mockRepo{}, &mockAuteurRepo{}, &mockCategorieRepo{})

	err := svc.Delete(context.Background(), 99)
	require.Equal(t, ErrLivreIntrouvable, Code(err))
	require.True(t, tx.aborted)
}

func TestCode(t *testing.T) {
	require.Equal(t, ErrLivreEmprunte, Code(makeErr(ErrLivreEmprunte)))
	require.Equal(t, ErrCode(""), Code(errors.New("plain")))
}
