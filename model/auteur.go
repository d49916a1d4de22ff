package model

type Auteur struct {
	ID     int64  `json:"id"`
	Nom    string `json:"nom"`
	Prenom string `json:"prenom"`
}

type Categorie struct {
	ID  int64  `json:"id"`
	Nom string `json:"nom"`
}
