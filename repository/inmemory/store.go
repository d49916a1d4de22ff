// Package inmemory is a go-memdb backed store for local development and
// tests. It implements the same repository contracts as the postgres
// packages; memdb allows a single outstanding write transaction, which
// gives the loan lifecycle the serialization it needs without row locks.
package inmemory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-memdb"
	"github.com/jackc/pgx/v5"
)

type auteurRec struct {
	ID     string
	Nom    string
	Prenom string
}

type categorieRec struct {
	ID  string
	Nom string
}

type utilisateurRec struct {
	ID     string
	Nom    string
	Prenom string
}

type livreRec struct {
	ID              string
	Titre           string
	DatePublication time.Time
	Disponible      bool
	AuteurID        string
	CategorieID     string
}

type empruntRec struct {
	ID            string
	UtilisateurID string
	LivreID       string
	DateEmprunt   time.Time
	DateRetour    *time.Time
}

type Store struct {
	db *memdb.MemDB

	mu  sync.Mutex
	seq map[string]int64
}

func NewStore() (*Store, error) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			"auteur": {
				Name: "auteur",
				Indexes: map[string]*memdb.IndexSchema{
					"id": {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
				},
			},
			"categorie": {
				Name: "categorie",
				Indexes: map[string]*memdb.IndexSchema{
					"id": {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
				},
			},
			"utilisateur": {
				Name: "utilisateur",
				Indexes: map[string]*memdb.IndexSchema{
					"id": {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
				},
			},
			"livre": {
				Name: "livre",
				Indexes: map[string]*memdb.IndexSchema{
					"id":           {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
					"auteur_id":    {Name: "auteur_id", Unique: false, Indexer: &memdb.StringFieldIndex{Field: "AuteurID"}},
					"categorie_id": {Name: "categorie_id", Unique: false, Indexer: &memdb.StringFieldIndex{Field: "CategorieID"}},
				},
			},
			"emprunt": {
				Name: "emprunt",
				Indexes: map[string]*memdb.IndexSchema{
					"id":             {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
					"utilisateur_id": {Name: "utilisateur_id", Unique: false, Indexer: &memdb.StringFieldIndex{Field: "UtilisateurID"}},
					"livre_id":       {Name: "livre_id", Unique: false, Indexer: &memdb.StringFieldIndex{Field: "LivreID"}},
				},
			},
		},
	}
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, seq: map[string]int64{}}, nil
}

func (s *Store) nextID(table string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[table]++
	return s.seq[table]
}

// Begin opens a write transaction. It blocks while another writer is
// outstanding, which is what serializes concurrent loan requests here.
func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	return &Tx{txn: s.db.Txn(true)}, nil
}

// Tx adapts a memdb write transaction to the pgx.Tx surface the
// services drive. Only Commit and Rollback are functional; the
// repositories reach the underlying transaction through asTxn.
type Tx struct {
	pgx.Tx
	txn *memdb.Txn
}

func (t *Tx) Commit(ctx context.Context) error {
	t.txn.Commit()
	return nil
}

func (t *Tx) Rollback(ctx context.Context) error {
	t.txn.Abort()
	return nil
}

func asTxn(tx pgx.Tx) *memdb.Txn {
	mt, ok := tx.(*Tx)
	if !ok {
		panic("inmemory: transaction does not come from this store")
	}
	return mt.txn
}

func fmtID(id int64) string { return strconv.FormatInt(id, 10) }

func parseID(s string) int64 {
	id, _ := strconv.ParseInt(s, 10, 64)
	return id
}
