package livresvc

import (
	"context"
	"errors"
	"time"

	"bibliotheque/model"
	"bibliotheque/util/database"

	"github.com/jackc/pgx/v5"
)

type ErrCode string

const (
	ErrLivreIntrouvable  ErrCode = "LIVRE_INTROUVABLE"
	ErrDateInvalide      ErrCode = "DATE_INVALIDE"
	ErrAuteurInconnu     ErrCode = "AUTEUR_INCONNU"
	ErrCategorieInconnue ErrCode = "CATEGORIE_INCONNUE"
	ErrLivreEmprunte     ErrCode = "LIVRE_EMPRUNTE"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Repo interface {
	Insert(ctx context.Context, l *model.Livre) error
	Get(ctx context.Context, id int64) (*model.Livre, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Livre, error)
	Update(ctx context.Context, tx pgx.Tx, l *model.Livre) error
	Delete(ctx context.Context, tx pgx.Tx, id int64) error
	HasActiveEmprunt(ctx context.Context, tx pgx.Tx, livreID int64) (bool, error)
	List(ctx context.Context) ([]model.LivreDetail, error)
}

type AuteurRepo interface {
	Get(ctx context.Context, id int64) (*model.Auteur, error)
}

type CategorieRepo interface {
	Get(ctx context.Context, id int64) (*model.Categorie, error)
}

type CreateInput struct {
	Titre           string
	DatePublication string
	AuteurID        int64
	CategorieID     int64
	Disponible      *bool
}

// UpdateInput patches only the fields that are set.
type UpdateInput struct {
	Titre           *string
	DatePublication *string
	Disponible      *bool
	AuteurID        *int64
	CategorieID     *int64
}

type Service interface {
	Create(ctx context.Context, in CreateInput) (*model.Livre, error)
	List(ctx context.Context) ([]model.LivreDetail, error)
	Update(ctx context.Context, id int64, in UpdateInput) (*model.Livre, error)
	// Delete refuses while an open emprunt references the livre.
	Delete(ctx context.Context, id int64) error
}

type service struct {
	db database.TxBeginner
	r  Repo
	ar AuteurRepo
	cr CategorieRepo
}

func New(db database.TxBeginner, r Repo, ar AuteurRepo, cr CategorieRepo) Service {
	return &service{db: db, r: r, ar: ar, cr: cr}
}

func (s *service) Create(ctx context.Context, in CreateInput) (*model.Livre, error) {
	date, err := time.Parse(model.DateFormat, in.DatePublication)
	if err != nil {
		return nil, makeErr(ErrDateInvalide)
	}

	if _, err := s.ar.Get(ctx, in.AuteurID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrAuteurInconnu)
		}
		return nil, err
	}
	if _, err := s.cr.Get(ctx, in.CategorieID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrCategorieInconnue)
		}
		return nil, err
	}

	disponible := true
	if in.Disponible != nil {
		disponible = *in.Disponible
	}

	l := &model.Livre{
		Titre:           in.Titre,
		DatePublication: model.NewDate(date),
		Disponible:      disponible,
		AuteurID:        in.AuteurID,
		CategorieID:     in.CategorieID,
	}
	if err := s.r.Insert(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *service) List(ctx context.Context) ([]model.LivreDetail, error) {
	return s.r.List(ctx)
}

func (s *service) Update(ctx context.Context, id int64, in UpdateInput) (l *model.Livre, err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	l, err = s.r.GetForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrLivreIntrouvable)
		}
		return nil, err
	}

	if in.Titre != nil {
		l.Titre = *in.Titre
	}
	if in.DatePublication != nil {
		date, perr := time.Parse(model.DateFormat, *in.DatePublication)
		if perr != nil {
			return nil, makeErr(ErrDateInvalide)
		}
		l.DatePublication = model.NewDate(date)
	}
	if in.Disponible != nil {
		// Administrative override of the availability flag.
		l.Disponible = *in.Disponible
	}
	if in.AuteurID != nil {
		if _, aerr := s.ar.Get(ctx, *in.AuteurID); aerr != nil {
			if errors.Is(aerr, pgx.ErrNoRows) {
				return nil, makeErr(ErrAuteurInconnu)
			}
			return nil, aerr
		}
		l.AuteurID = *in.AuteurID
	}
	if in.CategorieID != nil {
		if cerr := s.checkCategorie(ctx, *in.CategorieID); cerr != nil {
			return nil, cerr
		}
		l.CategorieID = *in.CategorieID
	}

	if err = s.r.Update(ctx, tx, l); err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *service) Delete(ctx context.Context, id int64) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = s.r.GetForUpdate(ctx, tx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return makeErr(ErrLivreIntrouvable)
		}
		return err
	}

	actif, err := s.r.HasActiveEmprunt(ctx, tx, id)
	if err != nil {
		return err
	}
	if actif {
		return makeErr(ErrLivreEmprunte)
	}

	if err = s.r.Delete(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *service) checkCategorie(ctx context.Context, id int64) error {
	if _, err := s.cr.Get(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return makeErr(ErrCategorieInconnue)
		}
		return err
	}
	return nil
}
