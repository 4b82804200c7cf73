package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/acs/internal/domain"
)

// checkoutRepositoryInMemory — простая in-memory реализация CheckoutRepository.
type checkoutRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.CheckoutSession
}

// NewCheckoutRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewCheckoutRepository() domain.CheckoutRepository {
	return &checkoutRepositoryInMemory{
		items: make(map[string]domain.CheckoutSession),
	}
}

// Create сохраняет новую сессию, если ID ещё не занят.
func (r *checkoutRepositoryInMemory) Create(session domain.CheckoutSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[session.ID]; exists {
		return domain.ErrCheckoutVersionConflict
	}
	// Сохраняем глубокую копию, чтобы избежать непредсказуемых мутаций извне.
	r.items[session.ID] = session.Clone()
	return nil
}

// Get возвращает сессию или ErrCheckoutNotFound, если её нет.
func (r *checkoutRepositoryInMemory) Get(id string) (domain.CheckoutSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.items[id]
	if !ok {
		return domain.CheckoutSession{}, domain.ErrCheckoutNotFound
	}
	return session.Clone(), nil
}

// List возвращает сессии в порядке создания, ограничивая выборку limit (если >0).
func (r *checkoutRepositoryInMemory) List(limit int) ([]domain.CheckoutSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.CheckoutSession, 0, len(r.items))
	for _, session := range r.items {
		result = append(result, session.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

// Save перезаписывает сессию, проверяя версию (optimistic locking).
func (r *checkoutRepositoryInMemory) Save(session domain.CheckoutSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[session.ID]
	if !ok {
		return domain.ErrCheckoutNotFound
	}
	if current.Version != session.Version {
		return domain.ErrCheckoutVersionConflict
	}
	// Инкрементируем версию перед сохранением.
	session.Version++
	r.items[session.ID] = session.Clone()
	return nil
}

var _ domain.CheckoutRepository = (*checkoutRepositoryInMemory)(nil)
