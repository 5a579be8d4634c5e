package store

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"user-roster/internal/domain"
)

// emailPattern accepts the basic local@domain.tld shape; anything stricter
// belongs to an upstream mail validator, not this service.
var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// UserStore is the sole owner of the in-memory user collection and the
// next-id counter. Every operation takes the store mutex for its whole
// check-and-mutate sequence, so uniqueness checks and the mutations that
// depend on them are atomic with respect to concurrent requests.
//
// The collection is volatile: a restart resets it to the seed set.
type UserStore struct {
	mu     sync.Mutex
	users  []domain.User
	nextID int64

	now func() time.Time
}

// NewUserStore builds a store pre-loaded with seed records. The id counter
// starts strictly above the highest seeded id; ids are never reused, even
// after deletions.
func NewUserStore(seed []domain.User) *UserStore {
	s := &UserStore{
		users:  make([]domain.User, 0, len(seed)),
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, u := range seed {
		s.users = append(s.users, u)
		if u.ID >= s.nextID {
			s.nextID = u.ID + 1
		}
	}
	return s
}

// List returns the page of users matching search, plus the total size of the
// filtered set before pagination. Pages are 1-indexed; out-of-range pages
// yield an empty slice, never an error. A non-positive page reads as the
// first page and a non-positive limit as an empty window. Matching is a
// case-insensitive substring test over name and email.
func (s *UserStore) List(page, limit int, search string) ([]domain.User, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := s.users
	if search != "" {
		term := strings.ToLower(search)
		matched = make([]domain.User, 0, len(s.users))
		for _, u := range s.users {
			if strings.Contains(strings.ToLower(u.Name), term) ||
				strings.Contains(strings.ToLower(u.Email), term) {
				matched = append(matched, u)
			}
		}
	}

	total := len(matched)
	if limit < 1 {
		return []domain.User{}, total
	}
	if page < 1 {
		page = 1
	}

	// The raw (page-1)*limit product overflows for huge page values, so the
	// offset is only computed once the page is known to sit within bounds.
	start := total
	if page-1 <= total/limit {
		start = (page - 1) * limit
		if start > total {
			start = total
		}
	}
	end := start + limit
	if end > total || end < start {
		end = total
	}

	items := make([]domain.User, end-start)
	copy(items, matched[start:end])
	return items, total
}

// GetByID returns a copy of the record, or ErrNotFound.
func (s *UserStore) GetByID(id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	u := s.users[i]
	return &u, nil
}

// Create validates and inserts a new record, assigning the next id and the
// creation timestamp. Name and email are stored trimmed.
func (s *UserStore) Create(name, email string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if err := validate(name, email); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(email, 0) {
		return nil, ErrEmailConflict
	}

	u := domain.User{
		ID:        s.nextID,
		Name:      name,
		Email:     email,
		CreatedAt: s.now(),
	}
	s.nextID++
	s.users = append(s.users, u)
	return &u, nil
}

// Update mutates name and email in place and stamps the update time.
// CreatedAt is never touched. A record may keep its own email; only a
// collision with a different record is a conflict.
func (s *UserStore) Update(id int64, name, email string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	if err := validate(name, email); err != nil {
		return nil, err
	}
	if s.emailTaken(email, id) {
		return nil, ErrEmailConflict
	}

	now := s.now()
	s.users[i].Name = name
	s.users[i].Email = email
	s.users[i].UpdatedAt = &now
	u := s.users[i]
	return &u, nil
}

// Delete removes the record and returns it. Removal is immediate; the id is
// never handed out again.
func (s *UserStore) Delete(id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	u := s.users[i]
	s.users = append(s.users[:i], s.users[i+1:]...)
	return &u, nil
}

// Count returns the number of live records.
func (s *UserStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func (s *UserStore) indexOf(id int64) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}

// emailTaken reports whether any record other than excludeID holds email.
// Comparison is case-sensitive as stored. Caller must hold the mutex.
func (s *UserStore) emailTaken(email string, excludeID int64) bool {
	for i := range s.users {
		if s.users[i].ID != excludeID && s.users[i].Email == email {
			return true
		}
	}
	return false
}

// validate runs both field checks independently so a caller gets every
// problem in one response.
func validate(name, email string) error {
	var fields []string
	if name == "" {
		fields = append(fields, "Name is required")
	}
	if email == "" || !emailPattern.MatchString(email) {
		fields = append(fields, "Valid email is required")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
