package emprunt_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bibliotheque/app/echoServer/controller/emprunt"
	"bibliotheque/model"
	"bibliotheque/repository/inmemory"
	empruntsvc "bibliotheque/service/emprunt"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type env struct {
	e     *echo.Echo
	store *inmemory.Store
	uid   int64
	lid   int64
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store, err := inmemory.NewStore()
	require.NoError(t, err)

	ctx := context.Background()
	a := model.Auteur{Nom: "Hugo", Prenom: "Victor"}
	require.NoError(t, inmemory.NewAuteurRepo(store).Insert(ctx, &a))
	c := model.Categorie{Nom: "Roman"}
	require.NoError(t, inmemory.NewCategorieRepo(store).Insert(ctx, &c))
	u := model.Utilisateur{Nom: "Dupont", Prenom: "Jean"}
	require.NoError(t, inmemory.NewUtilisateurRepo(store).Insert(ctx, &u))
	l := model.Livre{Titre: "Les Misérables", Disponible: true, AuteurID: a.ID, CategorieID: c.ID}
	require.NoError(t, inmemory.NewLivreRepo(store).Insert(ctx, &l))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := empruntsvc.New(store, inmemory.NewEmpruntRepo(store), log)
	ctrl := &emprunt.Controller{Svc: svc, V: validator.New(), Log: log}

	e := echo.New()
	e.POST("/emprunt/emprunter", ctrl.Emprunter)
	e.PATCH("/emprunt/rendre/:id", ctrl.Rendre)
	e.GET("/emprunt/encours/:utilisateurId", ctrl.EnCours)

	return &env{e: e, store: store, uid: u.ID, lid: l.ID}
}

func (v *env) do(method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	v.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestEmprunter_ChampsManquants(t *testing.T) {
	v := newEnv(t)

	rec := v.do(http.MethodPost, "/emprunt/emprunter", `{"utilisateur_id": 1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Les champs utilisateur_id et livre_id sont requis", decode(t, rec)["error"])
}

func TestEmprunter_UtilisateurInconnu(t *testing.T) {
	v := newEnv(t)

	rec := v.do(http.MethodPost, "/emprunt/emprunter", `{"utilisateur_id": 99, "livre_id": 1}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Utilisateur introuvable", decode(t, rec)["error"])
}

func TestEmprunter_LivreInconnu(t *testing.T) {
	v := newEnv(t)

	rec := v.do(http.MethodPost, "/emprunt/emprunter", `{"utilisateur_id": 1, "livre_id": 99}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Livre introuvable", decode(t, rec)["error"])
}

func TestEmprunter_PuisConflit(t *testing.T) {
	v := newEnv(t)

	rec := v.do(http.MethodPost, "/emprunt/emprunter", `{"utilisateur_id": 1, "livre_id": 1}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode(t, rec)
	require.Equal(t, "Emprunt créé avec succès", body["message"])
	out := body["emprunt"].(map[string]any)
	require.Equal(t, float64(1), out["id"])
	require.Equal(t, time.Now().Format(model.DateFormat), out["dateEmprunt"])
	require.NotContains(t, out, "dateRetour")
	livre := out["livre"].(map[string]any)
	require.Equal(t, "Les Misérables", livre["titre"])
	require.NotContains(t, livre, "disponible")

	rec = v.do(http.MethodPost, "/emprunt/emprunter", `{"utilisateur_id": 1, "livre_id": 1}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "Ce livre n'est pas disponible", decode(t, rec)["error"])
}

func TestRendre_CycleComplet(t *testing.T) {
	v := newEnv(t)

	rec := v.do(http.MethodPost, "/emprunt/emprunter", `{"utilisateur_id": 1, "livre_id": 1}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = v.do(http.MethodPatch, "/emprunt/rendre/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Equal(t, "Livre retourné avec succès", body["message"])
	out := body["emprunt"].(map[string]any)
	require.Equal(t, time.Now().Format(model.DateFormat), out["dateRetour"])
	livre := out["livre"].(map[string]any)
	require.Equal(t, true, livre["disponible"])

	// a second return reports the original return date
	rec = v.do(http.MethodPatch, "/emprunt/rendre/1", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	body = decode(t, rec)
	require.Equal(t, "Ce livre a déjà été retourné", body["error"])
	require.Equal(t, time.Now().Format(model.DateFormat), body["date_retour"])
}

func TestRendre_Introuvable(t *testing.T) {
	v := newEnv(t)

	rec := v.do(http.MethodPatch, "/emprunt/rendre/99", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Emprunt introuvable", decode(t, rec)["error"])

	rec = v.do(http.MethodPatch, "/emprunt/rendre/abc", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEnCours(t *testing.T) {
	v := newEnv(t)

	rec := v.do(http.MethodGet, "/emprunt/encours/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, `{"data":null}`, strings.TrimSpace(rec.Body.String()))

	rec = v.do(http.MethodPost, "/emprunt/emprunter", `{"utilisateur_id": 1, "livre_id": 1}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = v.do(http.MethodGet, "/emprunt/encours/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].([]any)
	require.Len(t, data, 1)
	row := data[0].(map[string]any)
	require.Equal(t, float64(1), row["livre_id"])
	require.NotContains(t, row, "dateRetour")
}
