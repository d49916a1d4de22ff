package categoriesvc

import (
	"context"
	"errors"

	"bibliotheque/model"
	"bibliotheque/util/database"
)

type ErrCode string

const (
	ErrIntrouvable ErrCode = "CATEGORIE_INTROUVABLE"
	ErrReference   ErrCode = "CATEGORIE_REFERENCEE"
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
	Insert(ctx context.Context, c *model.Categorie) error
	List(ctx context.Context) ([]model.Categorie, error)
	Update(ctx context.Context, c *model.Categorie) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type Service interface {
	Create(ctx context.Context, nom string) (*model.Categorie, error)
	List(ctx context.Context) ([]model.Categorie, error)
	Update(ctx context.Context, c *model.Categorie) error
	Delete(ctx context.Context, id int64) error
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Create(ctx context.Context, nom string) (*model.Categorie, error) {
	c := &model.Categorie{Nom: nom}
	if err := s.r.Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) List(ctx context.Context) ([]model.Categorie, error) { return s.r.List(ctx) }

func (s *service) Update(ctx context.Context, c *model.Categorie) error {
	found, err := s.r.Update(ctx, c)
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
