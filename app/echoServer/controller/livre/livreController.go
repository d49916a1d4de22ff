package livre

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	ls "bibliotheque/service/livre"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc ls.Service
	V   *validator.Validate
	Log *slog.Logger
}

var jsonFields = map[string]string{
	"Titre":           "titre",
	"DatePublication": "datePublication",
	"AuteurID":        "auteur_id",
	"CategorieID":     "categorie_id",
}

// POST /livre/create
func (h *Controller) Create(c echo.Context) error {
	var req CreateLivreReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "JSON invalide"})
	}
	if err := h.V.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			field := jsonFields[ve[0].Field()]
			return c.JSON(http.StatusBadRequest, echo.Map{"error": fmt.Sprintf("Le champ '%s' est requis", field)})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Requête invalide"})
	}

	l, err := h.Svc.Create(c.Request().Context(), ls.CreateInput{
		Titre:           req.Titre,
		DatePublication: req.DatePublication,
		AuteurID:        req.AuteurID,
		CategorieID:     req.CategorieID,
		Disponible:      req.Disponible,
	})
	if err != nil {
		switch ls.Code(err) {
		case ls.ErrDateInvalide:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Le format de 'datePublication' est invalide, attendu YYYY-MM-DD"})
		case ls.ErrAuteurInconnu:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Auteur non trouvé"})
		case ls.ErrCategorieInconnue:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Catégorie non trouvée"})
		default:
			h.Log.Error("livre create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Une erreur est survenue"})
		}
	}

	h.Log.Info("livre created", "livre_id", l.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Livre created successfully",
		"livre":   l,
	})
}

// GET /livre/list
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("livre list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Une erreur est survenue"})
	}
	return c.JSON(http.StatusOK, rows)
}

// PUT/PATCH /livre/update/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Livre introuvable"})
	}
	var req UpdateLivreReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "JSON invalide"})
	}

	l, err := h.Svc.Update(c.Request().Context(), id, ls.UpdateInput{
		Titre:           req.Titre,
		DatePublication: req.DatePublication,
		Disponible:      req.Disponible,
		AuteurID:        req.AuteurID,
		CategorieID:     req.CategorieID,
	})
	if err != nil {
		switch ls.Code(err) {
		case ls.ErrLivreIntrouvable:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Livre introuvable"})
		case ls.ErrDateInvalide:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Format de date invalide (attendu: YYYY-MM-DD)"})
		case ls.ErrAuteurInconnu:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Auteur introuvable"})
		case ls.ErrCategorieInconnue:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Catégorie introuvable"})
		default:
			h.Log.Error("livre update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Une erreur est survenue"})
		}
	}

	h.Log.Info("livre updated", "livre_id", l.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Livre updated successfully",
		"livre": echo.Map{
			"id":               l.ID,
			"titre":            l.Titre,
			"date_publication": l.DatePublication,
			"disponible":       l.Disponible,
			"auteur_id":        l.AuteurID,
			"categorie_id":     l.CategorieID,
		},
	})
}

// DELETE /livre/delete/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Livre introuvable"})
	}

	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		switch ls.Code(err) {
		case ls.ErrLivreIntrouvable:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Livre introuvable"})
		case ls.ErrLivreEmprunte:
			return c.JSON(http.StatusConflict, echo.Map{"error": "Impossible de supprimer un livre actuellement emprunté"})
		default:
			h.Log.Error("livre delete", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Une erreur est survenue"})
		}
	}

	h.Log.Info("livre deleted", "livre_id", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Livre deleted successfully"})
}
