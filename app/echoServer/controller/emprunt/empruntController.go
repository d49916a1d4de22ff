package emprunt

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"bibliotheque/model"
	es "bibliotheque/service/emprunt"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc es.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /emprunt/emprunter
func (h *Controller) Emprunter(c echo.Context) error {
	var req EmprunterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Les champs utilisateur_id et livre_id sont requis"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Les champs utilisateur_id et livre_id sont requis"})
	}

	out, err := h.Svc.Emprunter(c.Request().Context(), req.UtilisateurID, req.LivreID)
	if err != nil {
		switch es.Code(err) {
		case es.ErrUtilisateurIntrouvable:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Utilisateur introuvable"})
		case es.ErrLivreIntrouvable:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Livre introuvable"})
		case es.ErrLivreIndisponible:
			return c.JSON(http.StatusConflict, echo.Map{"error": "Ce livre n'est pas disponible"})
		case es.ErrLivreDejaEmprunte:
			return c.JSON(http.StatusConflict, echo.Map{"error": "Ce livre est déjà emprunté par un autre utilisateur"})
		case es.ErrLimiteEmprunts:
			return c.JSON(http.StatusConflict, echo.Map{"error": "Vous avez atteint la limite de 4 emprunts simultanés"})
		default:
			h.Log.Error("emprunt create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Une erreur est survenue"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Emprunt créé avec succès",
		"emprunt": out,
	})
}

// PATCH /emprunt/rendre/:id
func (h *Controller) Rendre(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Emprunt introuvable"})
	}

	out, err := h.Svc.Rendre(c.Request().Context(), id)
	if err != nil {
		switch es.Code(err) {
		case es.ErrEmpruntIntrouvable:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Emprunt introuvable"})
		case es.ErrDejaRendu:
			var dejaRendu *es.DejaRenduError
			if errors.As(err, &dejaRendu) {
				return c.JSON(http.StatusConflict, echo.Map{
					"error":       "Ce livre a déjà été retourné",
					"date_retour": dejaRendu.DateRetour.Format(model.DateFormat),
				})
			}
			return c.JSON(http.StatusConflict, echo.Map{"error": "Ce livre a déjà été retourné"})
		default:
			h.Log.Error("emprunt return", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Une erreur est survenue lors du retour du livre"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Livre retourné avec succès",
		"emprunt": out,
	})
}

// GET /emprunt/encours/:utilisateurId
func (h *Controller) EnCours(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("utilisateurId"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Utilisateur introuvable"})
	}

	rows, err := h.Svc.EmpruntsActifs(c.Request().Context(), id)
	if err != nil {
		h.Log.Error("emprunts actifs", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Une erreur est survenue"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
