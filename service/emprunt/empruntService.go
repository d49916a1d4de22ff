package empruntsvc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"bibliotheque/model"
	"bibliotheque/util/database"

	"github.com/jackc/pgx/v5"
)

// MaxEmpruntsActifs is the hard cap of open loans per utilisateur.
const MaxEmpruntsActifs = 4

// errors used by controllers

type ErrCode string

const (
	ErrUtilisateurIntrouvable ErrCode = "UTILISATEUR_INTROUVABLE"
	ErrLivreIntrouvable       ErrCode = "LIVRE_INTROUVABLE"
	ErrLivreIndisponible      ErrCode = "LIVRE_INDISPONIBLE"
	ErrLivreDejaEmprunte      ErrCode = "LIVRE_DEJA_EMPRUNTE"
	ErrLimiteEmprunts         ErrCode = "LIMITE_EMPRUNTS"
	ErrEmpruntIntrouvable     ErrCode = "EMPRUNT_INTROUVABLE"
	ErrDejaRendu              ErrCode = "DEJA_RENDU"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts the error code, "" for uncoded errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// DejaRenduError rejects a second return and carries the date of the
// first one so the controller can echo it.
type DejaRenduError struct{ DateRetour time.Time }

func (e *DejaRenduError) Error() string { return string(ErrDejaRendu) }
func (e *DejaRenduError) Code() ErrCode { return ErrDejaRendu }

// Repo is the query gateway the lifecycle depends on. Methods taking a
// pgx.Tx run inside the service's transaction.
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

type Service interface {
	// Emprunter opens a loan: the livre must be free and the
	// utilisateur under the MaxEmpruntsActifs cap.
	Emprunter(ctx context.Context, utilisateurID, livreID int64) (*model.EmpruntDetail, error)

	// Rendre closes a loan and frees the livre.
	Rendre(ctx context.Context, empruntID int64) (*model.EmpruntDetail, error)

	// EmpruntsActifs lists a utilisateur's open loans, oldest first.
	EmpruntsActifs(ctx context.Context, utilisateurID int64) ([]model.Emprunt, error)
}

// ----- Service implementation -----

type service struct {
	db  database.TxBeginner
	r   Repo
	log *slog.Logger
}

func New(db database.TxBeginner, r Repo, log *slog.Logger) Service {
	return &service{db: db, r: r, log: log}
}

// Emprunter runs the whole check-then-create sequence in one transaction.
// Lock order is always utilisateur then livre, so two loans cannot
// deadlock each other; locking the utilisateur row serializes the open
// loan count, locking the livre row serializes its availability.
func (s *service) Emprunter(ctx context.Context, utilisateurID, livreID int64) (out *model.EmpruntDetail, err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	utilisateur, err := s.r.GetUtilisateurForUpdate(ctx, tx, utilisateurID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrUtilisateurIntrouvable)
		}
		return nil, err
	}

	livre, err := s.r.GetLivreForUpdate(ctx, tx, livreID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrLivreIntrouvable)
		}
		return nil, err
	}

	if !livre.Disponible {
		return nil, makeErr(ErrLivreIndisponible)
	}

	// Re-verified against the loan records even though the flag said
	// available; both signals disagreeing is a data-integrity bug.
	actif, err := s.r.HasActiveEmpruntByLivre(ctx, tx, livreID)
	if err != nil {
		return nil, err
	}
	if actif {
		s.log.Error("disponible flag out of sync with open emprunt",
			"livre_id", livreID)
		return nil, makeErr(ErrLivreDejaEmprunte)
	}

	n, err := s.r.CountActiveEmpruntsByUtilisateur(ctx, tx, utilisateurID)
	if err != nil {
		return nil, err
	}
	if n >= MaxEmpruntsActifs {
		return nil, makeErr(ErrLimiteEmprunts)
	}

	now := time.Now()
	id, err := s.r.InsertEmprunt(ctx, tx, utilisateurID, livreID, now)
	if err != nil {
		return nil, err
	}
	if err = s.r.SetDisponibilite(ctx, tx, livreID, false); err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.log.Info("emprunt created",
		"emprunt_id", id,
		"utilisateur_id", utilisateurID,
		"livre_id", livreID,
	)

	return &model.EmpruntDetail{
		ID:          id,
		DateEmprunt: model.NewDate(now),
		Utilisateur: model.UtilisateurRef{ID: utilisateur.ID, Nom: utilisateur.Nom, Prenom: utilisateur.Prenom},
		Livre:       model.LivreRef{ID: livre.ID, Titre: livre.Titre},
	}, nil
}

func (s *service) Rendre(ctx context.Context, empruntID int64) (out *model.EmpruntDetail, err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	emprunt, err := s.r.GetEmpruntForUpdate(ctx, tx, empruntID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrEmpruntIntrouvable)
		}
		return nil, err
	}

	if emprunt.DateRetour != nil {
		// Informational, not an error: the loan stays as it is.
		s.log.Info("return attempted on an already returned emprunt",
			"emprunt_id", empruntID,
			"date_retour", emprunt.DateRetour.Format(model.DateFormat),
		)
		return nil, &DejaRenduError{DateRetour: emprunt.DateRetour.Time}
	}

	livre, err := s.r.GetLivreForUpdate(ctx, tx, emprunt.LivreID)
	if err != nil {
		return nil, err
	}
	utilisateur, err := s.r.GetUtilisateur(ctx, tx, emprunt.UtilisateurID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err = s.r.SetDateRetour(ctx, tx, empruntID, now); err != nil {
		return nil, err
	}
	if err = s.r.SetDisponibilite(ctx, tx, livre.ID, true); err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.log.Info("emprunt returned",
		"emprunt_id", empruntID,
		"livre_id", livre.ID,
		"utilisateur_id", utilisateur.ID,
		"date_retour", now.Format(model.DateFormat),
	)

	dateRetour := model.NewDate(now)
	disponible := true
	return &model.EmpruntDetail{
		ID:          emprunt.ID,
		DateEmprunt: emprunt.DateEmprunt,
		DateRetour:  &dateRetour,
		Utilisateur: model.UtilisateurRef{ID: utilisateur.ID, Nom: utilisateur.Nom, Prenom: utilisateur.Prenom},
		Livre:       model.LivreRef{ID: livre.ID, Titre: livre.Titre, Disponible: &disponible},
	}, nil
}

func (s *service) EmpruntsActifs(ctx context.Context, utilisateurID int64) ([]model.Emprunt, error) {
	return s.r.FindActiveEmpruntsByUtilisateur(ctx, utilisateurID)
}
