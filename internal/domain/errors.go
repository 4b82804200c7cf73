package domain

import "errors"

var (
	// ErrCheckoutNotFound возвращается, если сессия не найдена в репозитории.
	ErrCheckoutNotFound = errors.New("checkout session not found")
	// ErrCheckoutVersionConflict сигнализирует о конфликте версий при сохранении.
	ErrCheckoutVersionConflict = errors.New("checkout session version conflict")
	// ErrEmptyItems — при создании не передано ни одной позиции.
	ErrEmptyItems = errors.New("items are required and must not be empty")
	// ErrProductNotFound — запрошенный товар отсутствует в каталоге.
	ErrProductNotFound = errors.New("product not found in catalog")
	// ErrInvalidFulfillmentOption — способ доставки не входит в список сессии.
	ErrInvalidFulfillmentOption = errors.New("fulfillment option not found")
	// ErrCheckoutCompleted — попытка изменить завершённую сессию.
	ErrCheckoutCompleted = errors.New("checkout is already completed")
	// ErrCheckoutCanceled — попытка изменить отменённую сессию.
	ErrCheckoutCanceled = errors.New("checkout is already canceled")
	// ErrAlreadyCompleted — попытка отменить завершённую сессию (cancel-специфичная защита).
	ErrAlreadyCompleted = errors.New("cannot cancel a completed checkout")
	// ErrAlreadyCanceled — повторная отмена уже отменённой сессии.
	ErrAlreadyCanceled = errors.New("checkout is already canceled, cancel is not repeatable")
	// ErrMissingPaymentData — запрос completion без платёжного токена.
	ErrMissingPaymentData = errors.New("payment data is required")
	// ErrInvalidTotal — в totals отсутствует строка total (защитная проверка).
	ErrInvalidTotal = errors.New("total amount not found")
	// ErrPaymentFailed — сбой платёжной capability; оборачивает сообщение провайдера.
	ErrPaymentFailed = errors.New("payment failed")
	// Ошибка отсутствующего кода валюты.
	ErrCurrencyRequired = errors.New("currency is required")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQuantityInvalid = errors.New("item quantity must be greater than zero")
	// Ошибка отрицательной суммы позиции.
	ErrItemTotalNegative = errors.New("line item total must be non-negative")
	// Ошибка несоответствия grand total сумме компонентов.
	ErrTotalsMismatch = errors.New("totals do not add up")
	// Ошибка статуса ready_for_payment без адреса или способа доставки.
	ErrStatusInconsistent = errors.New("status inconsistent with fulfillment state")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")

	// ErrIdempotencyKeyRequired — запрос без idempotency-key там, где он обязателен.
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	// ErrIdempotencyRequestHashRequired — не передан хэш тела запроса.
	ErrIdempotencyRequestHashRequired = errors.New("idempotency request hash is required")
	// ErrIdempotencyKeyAlreadyExists — ключ уже зарегистрирован с тем же запросом.
	ErrIdempotencyKeyAlreadyExists = errors.New("idempotency key already exists")
	// ErrIdempotencyHashMismatch — повторное использование ключа с другим телом запроса.
	ErrIdempotencyHashMismatch = errors.New("idempotency key reused with different request")
	// ErrIdempotencyKeyNotFound — запись по ключу отсутствует.
	ErrIdempotencyKeyNotFound = errors.New("idempotency key not found")
)

// IsTerminalGuard проверяет, относится ли ошибка к защите терминальных статусов.
func IsTerminalGuard(err error) bool {
	return errors.Is(err, ErrCheckoutCompleted) ||
		errors.Is(err, ErrCheckoutCanceled) ||
		errors.Is(err, ErrAlreadyCompleted) ||
		errors.Is(err, ErrAlreadyCanceled)
}

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrCheckoutVersionConflict)
}
