// exposes a Store interface that is passed to API calls w/ param requirements
package db

import (
	"github.com/jmoiron/sqlx"

	"github.com/commonshq/reserva/internal/model"
)

type Store interface {
	// user functions
	CreateUser(email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUserProfile(id int, email string, name *string) error

	// resource functions
	ListResources(host string) ([]model.Resource, error)
	GetResource(id string) (*model.Resource, error)
	CreateResource(host, label string, description *string, isCombo, isBookable bool, memberIDs []string, createdBy int) (*model.Resource, error)
	UpdateResource(id, label string, description *string, isBookable bool, memberIDs []string) (*model.Resource, error)
	DeleteResource(id string) error

	// activity functions
	ListActivities(host string) ([]model.Activity, error)
	GetActivity(id string) (*model.Activity, error)
	CreateActivity(host, title, resourceID string, authorID int, occurrences []model.Occurrence) (*model.Activity, error)
	UpdateActivity(id, title, resourceID string, occurrences []model.Occurrence) (*model.Activity, error)
	DeleteActivity(id string) error
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore() Store {
	return &pgStore{db: DB}
}

func (s *pgStore) CreateUser(email, hashedPassword string, name *string) (int, error) {
	return CreateUser(email, hashedPassword, name)
}
func (s *pgStore) GetUserByEmail(email string) (*model.User, error) { return GetUserByEmail(email) }
func (s *pgStore) GetUserByID(id int) (*model.User, error)          { return GetUserByID(id) }
func (s *pgStore) UpdateUserProfile(id int, email string, name *string) error {
	return UpdateUserProfile(id, email, name)
}

func (s *pgStore) ListResources(host string) ([]model.Resource, error) { return ListResources(host) }
func (s *pgStore) GetResource(id string) (*model.Resource, error)      { return GetResource(id) }
func (s *pgStore) CreateResource(host, label string, description *string, isCombo, isBookable bool, memberIDs []string, createdBy int) (*model.Resource, error) {
	return CreateResource(host, label, description, isCombo, isBookable, memberIDs, createdBy)
}
func (s *pgStore) UpdateResource(id, label string, description *string, isBookable bool, memberIDs []string) (*model.Resource, error) {
	return UpdateResource(id, label, description, isBookable, memberIDs)
}
func (s *pgStore) DeleteResource(id string) error { return DeleteResource(id) }

func (s *pgStore) ListActivities(host string) ([]model.Activity, error) { return ListActivities(host) }
func (s *pgStore) GetActivity(id string) (*model.Activity, error)       { return GetActivity(id) }
func (s *pgStore) CreateActivity(host, title, resourceID string, authorID int, occurrences []model.Occurrence) (*model.Activity, error) {
	return CreateActivity(host, title, resourceID, authorID, occurrences)
}
func (s *pgStore) UpdateActivity(id, title, resourceID string, occurrences []model.Occurrence) (*model.Activity, error) {
	return UpdateActivity(id, title, resourceID, occurrences)
}
func (s *pgStore) DeleteActivity(id string) error { return DeleteActivity(id) }
