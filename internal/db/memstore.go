package db

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/commonshq/reserva/internal/model"
)

// MemStore is an in-memory Store used by tests and local development.
// Records can be seeded directly through the exported slices before use.
type MemStore struct {
	mu sync.Mutex

	Users      []model.User
	Resources  []model.Resource
	Activities []model.Activity

	nextUserID int
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (m *MemStore) CreateUser(email, hashedPassword string, name *string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.Email == email {
			return 0, errors.New("email already registered")
		}
	}
	m.nextUserID++
	now := time.Now()
	m.Users = append(m.Users, model.User{
		ID:             m.nextUserID,
		Email:          email,
		HashedPassword: hashedPassword,
		Name:           name,
		IsAdmin:        len(m.Users) == 0,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	return m.nextUserID, nil
}

func (m *MemStore) GetUserByEmail(email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Users {
		if m.Users[i].Email == email {
			u := m.Users[i]
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *MemStore) GetUserByID(id int) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Users {
		if m.Users[i].ID == id {
			u := m.Users[i]
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *MemStore) UpdateUserProfile(id int, email string, name *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Users {
		if m.Users[i].ID == id {
			m.Users[i].Email = email
			m.Users[i].Name = name
			m.Users[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return errors.New("no such user")
}

func (m *MemStore) ListResources(host string) ([]model.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Resource, 0, len(m.Resources))
	for _, r := range m.Resources {
		if r.Host == "" || r.Host == host {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemStore) GetResource(id string) (*model.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Resources {
		if m.Resources[i].ID == id {
			r := m.Resources[i]
			return &r, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *MemStore) CreateResource(host, label string, description *string, isCombo, isBookable bool, memberIDs []string, createdBy int) (*model.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	r := model.Resource{
		ID:          newID(),
		Host:        host,
		Label:       label,
		Description: description,
		IsCombo:     isCombo,
		IsBookable:  isBookable,
		CreatedBy:   &createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
		MemberIDs:   memberIDs,
	}
	m.Resources = append(m.Resources, r)
	return &r, nil
}

func (m *MemStore) UpdateResource(id, label string, description *string, isBookable bool, memberIDs []string) (*model.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Resources {
		if m.Resources[i].ID == id {
			m.Resources[i].Label = label
			m.Resources[i].Description = description
			m.Resources[i].IsBookable = isBookable
			if m.Resources[i].IsCombo {
				m.Resources[i].MemberIDs = memberIDs
			}
			m.Resources[i].UpdatedAt = time.Now()
			r := m.Resources[i]
			return &r, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *MemStore) DeleteResource(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.Activities {
		if a.ResourceID == id {
			return ErrResourceInUse
		}
		for _, o := range a.DatesAndTimes {
			if o.ResourceID == id {
				return ErrResourceInUse
			}
		}
	}
	for _, r := range m.Resources {
		for _, mid := range r.MemberIDs {
			if mid == id {
				return ErrResourceInUse
			}
		}
	}
	for i := range m.Resources {
		if m.Resources[i].ID == id {
			m.Resources = append(m.Resources[:i], m.Resources[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *MemStore) ListActivities(host string) ([]model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Activity, 0, len(m.Activities))
	for _, a := range m.Activities {
		if a.Host == "" || a.Host == host {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MemStore) GetActivity(id string) (*model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Activities {
		if m.Activities[i].ID == id {
			a := m.Activities[i]
			return &a, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *MemStore) CreateActivity(host, title, resourceID string, authorID int, occurrences []model.Occurrence) (*model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	a := model.Activity{
		ID:            newID(),
		Host:          host,
		Title:         title,
		AuthorID:      &authorID,
		ResourceID:    resourceID,
		IsPublished:   true,
		CreatedAt:     now,
		UpdatedAt:     now,
		DatesAndTimes: occurrences,
	}
	m.Activities = append(m.Activities, a)
	return &a, nil
}

func (m *MemStore) UpdateActivity(id, title, resourceID string, occurrences []model.Occurrence) (*model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Activities {
		if m.Activities[i].ID == id {
			m.Activities[i].Title = title
			m.Activities[i].ResourceID = resourceID
			m.Activities[i].DatesAndTimes = occurrences
			m.Activities[i].UpdatedAt = time.Now()
			a := m.Activities[i]
			return &a, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *MemStore) DeleteActivity(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Activities {
		if m.Activities[i].ID == id {
			m.Activities = append(m.Activities[:i], m.Activities[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}
