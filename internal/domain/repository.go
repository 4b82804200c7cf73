package domain

// CheckoutRepository описывает требования к хранилищу checkout-сессий.
// Сессии никогда не удаляются: терминальные статусы остаются читаемыми.
type CheckoutRepository interface {
	// Create сохраняет новую сессию. Возвращает ошибку, если запись с таким ID уже существует.
	Create(session CheckoutSession) error
	// Get возвращает сессию по идентификатору или ErrCheckoutNotFound, если её нет.
	Get(id string) (CheckoutSession, error)
	// List возвращает сессии в порядке создания с опциональным ограничением на количество.
	List(limit int) ([]CheckoutSession, error)
	// Save применяет обновления к сессии с учётом optimistic locking.
	Save(session CheckoutSession) error
}
