package utilisateursvc

import (
	"context"
	"errors"

	"bibliotheque/model"
	"bibliotheque/util/database"
)

type ErrCode string

const (
	ErrIntrouvable ErrCode = "UTILISATEUR_INTROUVABLE"
	// ErrEmprunts blocks deleting a utilisateur that still has loans.
	ErrEmprunts ErrCode = "UTILISATEUR_EMPRUNTS"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Repo interface {
	Insert(ctx context.Context, u *model.Utilisateur) error
	List(ctx context.Context) ([]model.Utilisateur, error)
	Update(ctx context.Context, u *model.Utilisateur) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type Service interface {
	Create(ctx context.Context, nom, prenom string) (*model.Utilisateur, error)
	List(ctx context.Context) ([]model.Utilisateur, error)
	Update(ctx context.Context, u *model.Utilisateur) error
	Delete(ctx context.Context, id int64) error
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Create(ctx context.Context, nom, prenom string) (*model.Utilisateur, error) {
	u := &model.Utilisateur{Nom: nom, Prenom: prenom}
	if err := s.r.Insert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) List(ctx context.Context) ([]model.Utilisateur, error) { return s.r.List(ctx) }

func (s *service) Update(ctx context.Context, u *model.Utilisateur) error {
	found, err := s.r.Update(ctx, u)
	if err != nil {
		return err
	}
	if !found {
		return codedError{code: ErrIntrouvable}
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	found, err := s.r.Delete(ctx, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return codedError{code: ErrEmprunts}
		}
		return err
	}
	if !found {
		return codedError{code: ErrIntrouvable}
	}
	return nil
}
