package categorie

import (
	"log/slog"
	"net/http"
	"strconv"

	"bibliotheque/model"
	cs "bibliotheque/service/categorie"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc cs.Service
	V   *validator.Validate
	Log *slog.Logger
}

type CategorieReq struct {
	Nom string `json:"nom" validate:"required"`
}

// POST /categorie/create
func (h *Controller) Create(c echo.Context) error {
	var req CategorieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "JSON invalide"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Le champ 'nom' est requis"})
	}

	cat, err := h.Svc.Create(c.Request().Context(), req.Nom)
	if err != nil {
		h.Log.Error("categorie create", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Une erreur est survenue"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Catégorie créée avec succès", "categorie": cat})
}

// GET /categorie/list
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("categorie list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Une erreur est survenue"})
	}
	return c.JSON(http.StatusOK, rows)
}

// PUT/PATCH /categorie/update/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Catégorie introuvable"})
	}
	var req CategorieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "JSON invalide"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Le champ 'nom' est requis"})
	}

	cat := &model.Categorie{ID: id, Nom: req.Nom}
	if err := h.Svc.Update(c.Request().Context(), cat); err != nil {
		if cs.Code(err) == cs.ErrIntrouvable {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Catégorie introuvable"})
		}
		h.Log.Error("categorie update", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Une erreur est survenue"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Catégorie mise à jour avec succès", "categorie": cat})
}

// DELETE /categorie/delete/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Catégorie introuvable"})
	}

	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		switch cs.Code(err) {
		case cs.ErrIntrouvable:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Catégorie introuvable"})
		case cs.ErrReference:
			return c.JSON(http.StatusConflict, echo.Map{"error": "Impossible de supprimer une catégorie référencée par des livres"})
		default:
			h.Log.Error("categorie delete", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Une erreur est survenue"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Catégorie supprimée avec succès"})
}
