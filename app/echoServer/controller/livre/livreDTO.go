package livre

type CreateLivreReq struct {
	Titre           string `json:"titre" validate:"required"`
	DatePublication string `json:"datePublication" validate:"required"`
	AuteurID        int64  `json:"auteur_id" validate:"required,gt=0"`
	CategorieID     int64  `json:"categorie_id" validate:"required,gt=0"`
	Disponible      *bool  `json:"disponible"`
}

// UpdateLivreReq patches only the provided fields. The historical wire
// format uses date_publication here, not datePublication.
type UpdateLivreReq struct {
	Titre           *string `json:"titre"`
	DatePublication *string `json:"date_publication"`
	Disponible      *bool   `json:"disponible"`
	AuteurID        *int64  `json:"auteur_id"`
	CategorieID     *int64  `json:"categorie_id"`
}
