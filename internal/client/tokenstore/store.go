// Package tokenstore persists the session credential and the last known
// identity in the client's local database.
//
// Two fixed keys are used: "token" holds the bearer credential and "user"
// holds the identity snapshot encoded as JSON. Nothing is encrypted and no
// expiry is enforced locally; an expired credential is only discovered when
// the backend rejects it.
package tokenstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/voicedesk/internal/client/models"
	"github.com/dmitrijs2005/voicedesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/voicedesk/internal/dbx"
	"github.com/dmitrijs2005/voicedesk/internal/filex"
)

const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Store is the durable credential/identity store.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens the database at dsn, runs migrations and returns a Store over it.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if err := filex.EnsureParentDir(dsn); err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}
	db, err := OpenDatabase(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}
	return New(db), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) repo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// Save stores the credential and identity in one transaction.
func (s *Store) Save(ctx context.Context, credential string, identity models.Identity) error {
	user, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Set(ctx, KeyToken, []byte(credential)); err != nil {
			return err
		}
		return repo.Set(ctx, KeyUser, user)
	})
}

// Load returns the stored credential and identity. Either may be absent:
// an empty string means no credential, a nil identity means none was stored
// or the stored snapshot could not be decoded into a valid identity.
func (s *Store) Load(ctx context.Context) (string, *models.Identity, error) {
	repo := s.repo(s.db)

	token, _, err := repo.Get(ctx, KeyToken)
	if err != nil {
		return "", nil, err
	}

	raw, ok, err := repo.Get(ctx, KeyUser)
	if err != nil {
		return "", nil, err
	}

	return string(token), decodeIdentity(raw, ok), nil
}

// Token returns the stored credential, or "" when there is none.
func (s *Store) Token(ctx context.Context) (string, error) {
	token, _, err := s.repo(s.db).Get(ctx, KeyToken)
	if err != nil {
		return "", err
	}
	return string(token), nil
}

// Clear removes both keys.
func (s *Store) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Delete(ctx, KeyToken); err != nil {
			return err
		}
		return repo.Delete(ctx, KeyUser)
	})
}

func decodeIdentity(raw []byte, ok bool) *models.Identity {
	if !ok || len(raw) == 0 {
		return nil
	}
	var identity models.Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		return nil
	}
	if !identity.Valid() {
		return nil
	}
	return &identity
}
