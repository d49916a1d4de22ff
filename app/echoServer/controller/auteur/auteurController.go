package auteur

import (
	"log/slog"
	"net/http"
	"strconv"

	"bibliotheque/model"
	as "bibliotheque/service/auteur"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc as.Service
	V   *validator.Validate
	Log *slog.Logger
}

type AuteurReq struct {
	Nom    string `json:"nom" validate:"required"`
	Prenom string `json:"prenom" validate:"required"`
}

// POST /auteur/create
func (h *Controller) Create(c echo.Context) error {
	var req AuteurReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "JSON invalide"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Les champs nom et prenom sont requis"})
	}

	a, err := h.Svc.Create(c.Request().Context(), req.Nom, req.Prenom)
	if err != nil {
		h.Log.Error("auteur create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Une erreur est survenue"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Auteur créé avec succès", "auteur": a})
}

// GET /auteur/list
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("auteur list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Une erreur est survenue"})
	}
	return c.JSON(http.StatusOK, rows)
}

// PUT/PATCH /auteur/update/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Auteur introuvable"})
	}
	var req AuteurReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "JSON invalide"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Les champs nom et prenom sont requis"})
	}

	a := &model.Auteur{ID: id, Nom: req.Nom, Prenom: req.Prenom}
	if err := h.Svc.Update(c.Request().Context(), a); err != nil {
		if as.Code(err) == as.ErrIntrouvable {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Auteur introuvable"})
		}
		h.Log.Error("auteur update", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Une erreur est survenue"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Auteur mis à jour avec succès", "auteur": a})
}

// DELETE /auteur/delete/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Auteur introuvable"})
	}

	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		switch as.Code(err) {
		case as.ErrIntrouvable:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Auteur introuvable"})
		case as.ErrReference:
			return c.JSON(http.StatusConflict, echo.Map{"error": "Impossible de supprimer un auteur référencé par des livres"})
		default:
			h.Log.Error("auteur delete", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Une erreur est survenue"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Auteur supprimé avec succès"})
}
