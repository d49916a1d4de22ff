package utilisateur

import (
	"log/slog"
	"net/http"
	"strconv"

	"bibliotheque/model"
	us "bibliotheque/service/utilisateur"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc us.Service
	V   *validator.Validate
	Log *slog.Logger
}

type UtilisateurReq struct {
	Nom    string `json:"nom" validate:"required"`
	Prenom string `json:"prenom" validate:"required"`
}

// POST /utilisateur/create
func (h *Controller) Create(c echo.Context) error {
	var req UtilisateurReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "JSON invalide"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Les champs nom et prenom sont requis"})
	}

	u, err := h.Svc.Create(c.Request().Context(), req.Nom, req.Prenom)
	if err != nil {
		h.Log.Error("utilisateur create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Une erreur est survenue"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Utilisateur créé avec succès", "utilisateur": u})
}

// GET /utilisateur/list
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("utilisateur list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Une erreur est survenue"})
	}
	return c.JSON(http.StatusOK, rows)
}

// PUT/PATCH /utilisateur/update/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Utilisateur introuvable"})
	}
	var req UtilisateurReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "JSON invalide"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Les champs nom et prenom sont requis"})
	}

	u := &model.Utilisateur{ID: id, Nom: req.Nom, Prenom: req.Prenom}
	if err := h.Svc.Update(c.Request().Context(), u); err != nil {
		if us.Code(err) == us.ErrIntrouvable {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Utilisateur introuvable"})
		}
		h.Log.Error("utilisateur update", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Une erreur est survenue"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Utilisateur mis à jour avec succès", "utilisateur": u})
}

// DELETE /utilisateur/delete/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Utilisateur introuvable"})
	}

	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		switch us.Code(err) {
		case us.ErrIntrouvable:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Utilisateur introuvable"})
		case us.ErrEmprunts:
			return c.JSON(http.StatusConflict, echo.Map{"error": "Impossible de supprimer un utilisateur ayant des emprunts"})
		default:
			h.Log.Error("utilisateur delete", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Une erreur est survenue"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Utilisateur supprimé avec succès"})
}
