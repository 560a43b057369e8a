package sql

import (
	"sort"
	"sync"

	"github.com/Brawl345/pixabot/logger"
	"github.com/Brawl345/pixabot/model"
	"github.com/jmoiron/sqlx"
)

type credentialService struct {
	*sqlx.DB
	log         *logger.Logger
	mu          sync.RWMutex
	credentials map[string]string
}

func NewCredentialService(db *sqlx.DB) *credentialService {
	s := &credentialService{
		DB:          db,
		log:         logger.New("credentialService"),
		credentials: make(map[string]string),
	}

	const query = `SELECT name, value FROM credentials`
	var credentials []model.Credential
	err := db.Select(&credentials, query)

	if err != nil {
		s.log.Err(err).Msg("failed to load credentials")
	} else {
		for _, cred := range credentials {
			s.credentials[cred.Name] = cred.Value
		}
	}

	return s
}

func (db *credentialService) GetAllCredentials() []model.Credential {
	db.mu.RLock()
	defer db.mu.RUnlock()

	credentials := make([]model.Credential, 0, len(db.credentials))
	for name, value := range db.credentials {
		credentials = append(credentials, model.Credential{Name: name, Value: value})
	}
	sort.Slice(credentials, func(i, j int) bool {
		return credentials[i].Name < credentials[j].Name
	})
	return credentials
}

func (db *credentialService) GetKey(name string) string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.credentials[name]
}

func (db *credentialService) SetKey(name, value string) error {
	const query = `INSERT INTO credentials (name, value) VALUES (?, ?) ON DUPLICATE KEY UPDATE value = VALUES(value)`
	_, err := db.Exec(query, name, value)
	if err != nil {
		return err
	}

	db.mu.Lock()
	db.credentials[name] = value
	db.mu.Unlock()
	return nil
}

func (db *credentialService) DeleteKey(name string) error {
	const query = `DELETE FROM credentials WHERE name = ?`
	res, err := db.Exec(query, name)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return model.ErrNotFound
	}

	db.mu.Lock()
	delete(db.credentials, name)
	db.mu.Unlock()
	return nil
}
