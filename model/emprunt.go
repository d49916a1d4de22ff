// model/emprunt.go
package model

// Emprunt ties a livre to an utilisateur. DateRetour nil means the
// loan is still open.
type Emprunt struct {
	ID            int64  `json:"id"`
	UtilisateurID int64  `json:"utilisateur_id"`
	LivreID       int64  `json:"livre_id"`
	DateEmprunt   Date   `json:"dateEmprunt"`
	DateRetour    *Date  `json:"dateRetour,omitempty"`
}

// Actif reports whether the loan is still open.
func (e *Emprunt) Actif() bool { return e.DateRetour == nil }

// EmpruntDetail is the response shape of emprunter/rendre, with the
// utilisateur and livre snapshots expanded.
type EmpruntDetail struct {
	ID          int64          `json:"id"`
	DateEmprunt Date           `json:"dateEmprunt"`
	DateRetour  *Date          `json:"dateRetour,omitempty"`
	Utilisateur UtilisateurRef `json:"utilisateur"`
	Livre       LivreRef       `json:"livre"`
}

type UtilisateurRef struct {
	ID     int64  `json:"id"`
	Nom    string `json:"nom"`
	Prenom string `json:"prenom"`
}

// LivreRef carries disponible only on the rendre response.
type LivreRef struct {
	ID         int64  `json:"id"`
	Titre      string `json:"titre"`
	Disponible *bool  `json:"disponible,omitempty"`
}
