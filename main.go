// Package main bibliotheque API.
//
// @title           Bibliotheque API
// @version         1.0
// @description     library lending service (livres, auteurs, categories, utilisateurs, emprunts).
// @BasePath        /
// @schemes         http
package main

import (
	"context"
	"log/slog"
	"os"

	"bibliotheque/app/echoServer"
	auteurctrl "bibliotheque/app/echoServer/controller/auteur"
	categoriectrl "bibliotheque/app/echoServer/controller/categorie"
	empruntctrl "bibliotheque/app/echoServer/controller/emprunt"
	livrectrl "bibliotheque/app/echoServer/controller/livre"
	utilisateurctrl "bibliotheque/app/echoServer/controller/utilisateur"
	"bibliotheque/app/echoServer/validation"
	"bibliotheque/config"
	auteurrepo "bibliotheque/repository/auteur"
	categorierepo "bibliotheque/repository/categorie"
	empruntrepo "bibliotheque/repository/emprunt"
	"bibliotheque/repository/inmemory"
	livrerepo "bibliotheque/repository/livre"
	utilisateurrepo "bibliotheque/repository/utilisateur"
	auteursvc "bibliotheque/service/auteur"
	categoriesvc "bibliotheque/service/categorie"
	empruntsvc "bibliotheque/service/emprunt"
	livresvc "bibliotheque/service/livre"
	utilisateursvc "bibliotheque/service/utilisateur"
	"bibliotheque/util/database"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	_ = godotenv.Load()

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// stores & repos
	var (
		tb  database.TxBeginner
		er  empruntsvc.Repo
		lr  livresvc.Repo
		lar livresvc.AuteurRepo
		lcr livresvc.CategorieRepo
		ar  auteursvc.Repo
		cr  categoriesvc.Repo
		ur  utilisateursvc.Repo
	)

	if cfg.Memory() {
		store, err := inmemory.NewStore()
		if err != nil {
			log.Error("memory store init failed", "err", err)
			os.Exit(1)
		}
		auteurs := inmemory.NewAuteurRepo(store)
		categories := inmemory.NewCategorieRepo(store)

		tb = store
		er = inmemory.NewEmpruntRepo(store)
		lr = inmemory.NewLivreRepo(store)
		lar, lcr = auteurs, categories
		ar, cr = auteurs, categories
		ur = inmemory.NewUtilisateurRepo(store)

		log.Info("using in-memory store")
	} else {
		if err := database.Migrate(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Error("migrations failed", "err", err)
			os.Exit(1)
		}
		db, err := database.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		auteurs := auteurrepo.New(db)
		categories := categorierepo.New(db)

		tb = db.Pool
		er = empruntrepo.New(db)
		lr = livrerepo.New(db)
		lar, lcr = auteurs, categories
		ar, cr = auteurs, categories
		ur = utilisateurrepo.New(db)
	}

	// services
	es := empruntsvc.New(tb, er, log)
	ls := livresvc.New(tb, lr, lar, lcr)
	as := auteursvc.New(ar)
	cs := categoriesvc.New(cr)
	us := utilisateursvc.New(ur)

	// controllers
	v := validation.New()
	empruntC := &empruntctrl.Controller{Svc: es, V: v.Instance(), Log: log}
	livreC := &livrectrl.Controller{Svc: ls, V: v.Instance(), Log: log}
	auteurC := &auteurctrl.Controller{Svc: as, V: v.Instance(), Log: log}
	categorieC := &categoriectrl.Controller{Svc: cs, V: v.Instance(), Log: log}
	utilisateurC := &utilisateurctrl.Controller{Svc: us, V: v.Instance(), Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = v

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Emprunt:     empruntC,
		Livre:       livreC,
		Auteur:      auteurC,
		Categorie:   categorieC,
		Utilisateur: utilisateurC,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "storage", cfg.Storage, "port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
