package emprunt

type EmprunterReq struct {
	UtilisateurID int64 `json:"utilisateur_id" validate:"required,gt=0"`
	LivreID       int64 `json:"livre_id" validate:"required,gt=0"`
}
