package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"genai_portfolio/internal/domain"
)

type SubscriberStore struct {
	mu      sync.RWMutex
	byEmail map[string]domain.Subscriber
	order   []string
}

func NewSubscriberStore() *SubscriberStore {
	return &SubscriberStore{byEmail: make(map[string]domain.Subscriber)}
}

func (s *SubscriberStore) GetByEmail(_ context.Context, email string) (*domain.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.byEmail[email]
	if !ok {
		return nil, domain.NotFound("subscriber", email)
	}
	return &sub, nil
}

func (s *SubscriberStore) Create(_ context.Context, sub *domain.Subscriber) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[sub.Email]; ok {
		return fmt.Errorf("subscriber %q already exists", sub.Email)
	}
	s.byEmail[sub.Email] = *sub
	s.order = append(s.order, sub.Email)
	return nil
}

func (s *SubscriberStore) SetActive(_ context.Context, email string, active bool) (*domain.Subscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.byEmail[email]
	if !ok {
		return nil, domain.NotFound("subscriber", email)
	}
	sub.IsActive = active
	s.byEmail[email] = sub
	return &sub, nil
}

func (s *SubscriberStore) List(_ context.Context, activeOnly bool) ([]domain.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Subscriber, 0, len(s.order))
	for _, email := range s.order {
		sub := s.byEmail[email]
		if activeOnly && !sub.IsActive {
			continue
		}
		out = append(out, sub)
	}
	return out, nil
}

type ContactStore struct {
	mu          sync.RWMutex
	submissions []domain.ContactSubmission
}

func NewContactStore() *ContactStore {
	return &ContactStore{}
}

func (s *ContactStore) Create(_ context.Context, sub *domain.ContactSubmission) error {
	s.mu.Lock()
	s.submissions = append(s.submissions, *sub)
	s.mu.Unlock()
	return nil
}

// List returns submissions newest first. An empty status matches all.
func (s *ContactStore) List(_ context.Context, status domain.ContactStatus) ([]domain.ContactSubmission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ContactSubmission, 0, len(s.submissions))
	for _, sub := range s.submissions {
		if status == "" || sub.Status == status {
			out = append(out, sub)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.ContactSubmission) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	return out, nil
}

func (s *ContactStore) UpdateStatus(_ context.Context, id string, status domain.ContactStatus) (*domain.ContactSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.submissions, func(c domain.ContactSubmission) bool { return c.ID == id })
	if i < 0 {
		return nil, domain.NotFound("contact submission", id)
	}
	s.submissions[i].Status = status
	sub := s.submissions[i]
	return &sub, nil
}

// TransactionManager serializes transactional blocks. The stores have no
// rollback, so a failing block may leave partial writes behind.
type TransactionManager struct {
	mu sync.Mutex
}

func NewTransactionManager() *TransactionManager {
	return &TransactionManager{}
}

func (tm *TransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return fn(ctx)
}
