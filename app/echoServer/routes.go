package echoServer

import (
	"bibliotheque/app/echoServer/controller/auteur"
	"bibliotheque/app/echoServer/controller/categorie"
	"bibliotheque/app/echoServer/controller/emprunt"
	"bibliotheque/app/echoServer/controller/livre"
	"bibliotheque/app/echoServer/controller/utilisateur"

	"github.com/labstack/echo/v4"
)

type C struct {
	Emprunt     *emprunt.Controller
	Livre       *livre.Controller
	Auteur      *auteur.Controller
	Categorie   *categorie.Controller
	Utilisateur *utilisateur.Controller
}

func Register(e *echo.Echo, c C) {
	emp := e.Group("/emprunt")
	emp.POST("/emprunter", c.Emprunt.Emprunter)
	emp.PATCH("/rendre/:id", c.Emprunt.Rendre)
	emp.GET("/encours/:utilisateurId", c.Emprunt.EnCours)

	liv := e.Group("/livre")
	liv.POST("/create", c.Livre.Create)
	liv.GET("/list", c.Livre.List)
	liv.PUT("/update/:id", c.Livre.Update)
	liv.PATCH("/update/:id", c.Livre.Update)
	liv.DELETE("/delete/:id", c.Livre.Delete)

	aut := e.Group("/auteur")
	aut.POST("/create", c.Auteur.Create)
	aut.GET("/list", c.Auteur.List)
	aut.PUT("/update/:id", c.Auteur.Update)
	aut.PATCH("/update/:id", c.Auteur.Update)
	aut.DELETE("/delete/:id", c.Auteur.Delete)

	cat := e.Group("/categorie")
	cat.POST("/create", c.Categorie.Create)
	cat.GET("/list", c.Categorie.List)
	cat.PUT("/update/:id", c.Categorie.Update)
	cat.PATCH("/update/:id", c.Categorie.Update)
	cat.DELETE("/delete/:id", c.Categorie.Delete)

	uti := e.Group("/utilisateur")
	uti.POST("/create", c.Utilisateur.Create)
	uti.GET("/list", c.Utilisateur.List)
	uti.PUT("/update/:id", c.Utilisateur.Update)
	uti.PATCH("/update/:id", c.Utilisateur.Update)
	uti.DELETE("/delete/:id", c.Utilisateur.Delete)
}
