package auteursvc

import (
	"context"
	"errors"

	"bibliotheque/model"
	"bibliotheque/util/database"
)

type ErrCode string

const (
	ErrIntrouvable ErrCode = "AUTEUR_INTROUVABLE"
	ErrReference   ErrCode = "AUTEUR_REFERENCE"
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
	Insert(ctx context.Context, a *model.Auteur) error
	List(ctx context.Context) ([]model.Auteur, error)
	Update(ctx context.Context, a *model.Auteur) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type Service interface {
	Create(ctx context.Context, nom, prenom string) (*model.Auteur, error)
	List(ctx context.Context) ([]model.Auteur, error)
	Update(ctx context.Context, a *model.Auteur) error
	Delete(ctx context.Context, id int64) error
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Create(ctx context.Context, nom, prenom string) (*model.Auteur, error) {
	a := &model.Auteur{Nom: nom, Prenom: prenom}
	if err := s.r.Insert(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) List(ctx context.Context) ([]model.Auteur, error) { return s.r.List(ctx) }

func (s *service) Update(ctx context.Context, a *model.Auteur) error {
	found, err := s.r.Update(ctx, a)
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
			return codedError{code: ErrReference}
		}
		return err
	}
	if !found {
		return codedError{code: ErrIntrouvable}
	}
	return nil
}
