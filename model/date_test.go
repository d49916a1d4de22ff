package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDateWireFormat(t *testing.T) {
	d := NewDate(time.Date(1862, 4, 3, 15, 4, 5, 0, time.UTC))

	b, err := json.Marshal(d)
	require.NoError(t, err)
	require.Equal(t, `"1862-04-03"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal([]byte(`"1862-04-03"`), &back))
	require.Equal(t, "1862-04-03", back.Format(DateFormat))

	require.Error(t, json.Unmarshal([]byte(`"03/04/1862"`), &back))
}

func TestEmpruntDetailJSON(t *testing.T) {
	d := EmpruntDetail{
		ID:          1,
		DateEmprunt: NewDate(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)),
		Utilisateur: UtilisateurRef{ID: 7, Nom: "Dupont", Prenom: "Jean"},
		Livre:       LivreRef{ID: 3, Titre: "Les Misérables"},
	}

	b, err := json.Marshal(d)
	require.NoError(t, err)
	// open loan: no dateRetour, no disponible on the livre snapshot
	require.NotContains(t, string(b), "dateRetour")
	require.NotContains(t, string(b), "disponible")

	retour := NewDate(time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC))
	disponible := true
	d.DateRetour = &retour
	d.Livre.Disponible = &disponible

	b, err = json.Marshal(d)
	require.NoError(t, err)
	require.Contains(t, string(b), `"dateRetour":"2026-08-20"`)
	require.Contains(t, string(b), `"disponible":true`)
}
