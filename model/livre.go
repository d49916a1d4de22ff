// model/livre.go
package model

type Livre struct {
	ID              int64  `json:"id"`
	Titre           string `json:"titre"`
	DatePublication Date   `json:"datePublication"`
	Disponible      bool   `json:"disponible"`
	AuteurID        int64  `json:"auteur_id"`
	CategorieID     int64  `json:"categorie_id"`
}

// LivreDetail is the list shape, with auteur and categorie expanded.
type LivreDetail struct {
	ID              int64     `json:"id"`
	Titre           string    `json:"titre"`
	DatePublication Date      `json:"datePublication"`
	Disponible      bool      `json:"disponible"`
	Auteur          Auteur    `json:"auteur"`
	Categorie       Categorie `json:"categorie"`
}
