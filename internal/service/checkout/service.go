package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/acs/internal/domain"
	"github.com/vladislavdragonenkov/acs/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/acs/internal/metrics"
)

const (
	defaultCurrency       = "usd"
	defaultPaymentTimeout = 10 * time.Second

	termsURL       = "https://example.com/terms"
	privacyURL     = "https://example.com/privacy"
	permalinkBase  = "https://example.com/orders/"
	checkoutPrefix = "checkout"
	orderPrefix    = "order"

	messagePaymentOK = "Payment processed successfully. Order confirmed!"
	messageCanceled  = "Checkout has been canceled"
)

// CreateRequest — валидированные данные операции create.
type CreateRequest struct {
	Items              []domain.Item
	Buyer              *domain.Buyer
	FulfillmentAddress *domain.Address
}

// UpdateRequest — частичное обновление: nil-поля не трогают сессию,
// присутствующие всегда полностью заменяют прежнее значение. Явный пустой
// список items отклоняется, чтобы сессия не осталась без позиций.
type UpdateRequest struct {
	Items               []domain.Item
	Buyer               *domain.Buyer
	FulfillmentAddress  *domain.Address
	FulfillmentOptionID string
}

// CompleteRequest — данные операции complete.
type CompleteRequest struct {
	PaymentToken string
	Buyer        *domain.Buyer
}

// Options задаёт необязательные зависимости сервиса.
type Options struct {
	Outbox         domain.OutboxRepository
	Metrics        *metrics.CheckoutMetrics
	PaymentTimeout time.Duration
}

// Option настраивает Service.
type Option func(*Options)

// WithOutbox подключает transactional outbox для публикации событий жизненного цикла.
func WithOutbox(outbox domain.OutboxRepository) Option {
	return func(opts *Options) { opts.Outbox = outbox }
}

// WithMetrics подключает метрики операций.
func WithMetrics(m *metrics.CheckoutMetrics) Option {
	return func(opts *Options) { opts.Metrics = m }
}

// WithPaymentTimeout задаёт общий таймаут на обе платёжные стадии.
func WithPaymentTimeout(timeout time.Duration) Option {
	return func(opts *Options) { opts.PaymentTimeout = timeout }
}

// Service реализует state machine checkout-сессии поверх репозитория,
// каталога и платёжной capability. Операции над одним session id
// сериализуются keyed-мьютексом; разные сессии обрабатываются параллельно.
type Service struct {
	repo        domain.CheckoutRepository
	products    domain.ProductCatalog
	fulfillment domain.FulfillmentCatalog
	payments    domain.PaymentService
	outbox      domain.OutboxRepository
	metrics     *metrics.CheckoutMetrics
	logger      *log.Entry

	locks          *keyedMutex
	paymentTimeout time.Duration
}

// NewService конструирует сервис с зависимостями.
func NewService(
	repo domain.CheckoutRepository,
	products domain.ProductCatalog,
	fulfillment domain.FulfillmentCatalog,
	payments domain.PaymentService,
	logger *log.Entry,
	options ...Option,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "checkout-service")
	}

	opts := Options{PaymentTimeout: defaultPaymentTimeout}
	for _, option := range options {
		option(&opts)
	}
	if opts.PaymentTimeout <= 0 {
		opts.PaymentTimeout = defaultPaymentTimeout
	}

	return &Service{
		repo:           repo,
		products:       products,
		fulfillment:    fulfillment,
		payments:       payments,
		outbox:         opts.Outbox,
		metrics:        opts.Metrics,
		logger:         logger,
		locks:          newKeyedMutex(),
		paymentTimeout: opts.PaymentTimeout,
	}
}

// Create строит и сохраняет новую сессию.
// Статус выводится из наличия адреса доставки; при заданном адресе
// автоматически выбирается первый способ доставки из фиксированного списка.
func (s *Service) Create(ctx context.Context, req CreateRequest) (domain.CheckoutSession, error) {
	if len(req.Items) == 0 {
		return domain.CheckoutSession{}, domain.ErrEmptyItems
	}

	lineItems, err := s.buildLineItems(req.Items)
	if err != nil {
		return domain.CheckoutSession{}, err
	}

	now := time.Now().UTC()
	options := s.fulfillment.Options()

	session := domain.CheckoutSession{
		ID:       domain.GenerateID(checkoutPrefix),
		Buyer:    req.Buyer,
		Status:   domain.CheckoutStatusNotReadyForPayment,
		Currency: defaultCurrency,
		PaymentProvider: &domain.PaymentProvider{
			Provider:                "stripe",
			SupportedPaymentMethods: []string{"card"},
		},
		LineItems:          lineItems,
		FulfillmentAddress: req.FulfillmentAddress,
		FulfillmentOptions: options,
		Messages:           []domain.Message{},
		Links: []domain.Link{
			{Type: domain.LinkTypeTermsOfUse, URL: termsURL},
			{Type: domain.LinkTypePrivacyPolicy, URL: privacyURL},
		},
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if req.FulfillmentAddress != nil && len(options) > 0 {
		session.FulfillmentOptionID = options[0].ID
	}

	s.reconcile(&session)

	if errs := session.ValidateInvariants(); len(errs) > 0 {
		s.logger.WithField("errors", errs).Error("created session violates invariants")
		return domain.CheckoutSession{}, fmt.Errorf("checkout invariants violated: %v", joinErrors(errs))
	}

	if err := s.repo.Create(session); err != nil {
		s.logger.WithError(err).Error("failed to persist checkout session")
		return domain.CheckoutSession{}, fmt.Errorf("persist checkout session: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordSessionCreated()
	}
	s.emitEvent(kafka.EventTypeCheckoutCreated, &session)

	return session, nil
}

// Get возвращает снапшот сессии. Чтение не мутирует состояние: два вызова
// подряд без промежуточных обновлений возвращают идентичные снапшоты.
func (s *Service) Get(_ context.Context, id string) (domain.CheckoutSession, error) {
	return s.repo.Get(id)
}

// Update применяет частичное обновление и пересчитывает totals и статус.
// Обновление атомарно: любая ошибка валидации оставляет сессию нетронутой.
func (s *Service) Update(_ context.Context, id string, req UpdateRequest) (domain.CheckoutSession, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	session, err := s.repo.Get(id)
	if err != nil {
		return domain.CheckoutSession{}, err
	}
	if err := modifiableGuard(session.Status); err != nil {
		return domain.CheckoutSession{}, err
	}

	if req.Items != nil {
		// Присутствующее поле полностью заменяет позиции; явный пустой
		// список отклоняется, иначе сессия осталась бы без позиций.
		if len(req.Items) == 0 {
			return domain.CheckoutSession{}, domain.ErrEmptyItems
		}
		// Все позиции строятся до применения: неизвестный товар
		// отклоняет запрос целиком.
		lineItems, err := s.buildLineItems(req.Items)
		if err != nil {
			return domain.CheckoutSession{}, err
		}
		session.LineItems = lineItems
	}

	if req.Buyer != nil {
		session.Buyer = req.Buyer
	}

	if req.FulfillmentAddress != nil {
		session.FulfillmentAddress = req.FulfillmentAddress
		if session.FulfillmentOptionID == "" && len(session.FulfillmentOptions) > 0 {
			session.FulfillmentOptionID = session.FulfillmentOptions[0].ID
		}
	}

	if req.FulfillmentOptionID != "" {
		if !session.HasFulfillmentOption(req.FulfillmentOptionID) {
			return domain.CheckoutSession{}, fmt.Errorf("%w: %s", domain.ErrInvalidFulfillmentOption, req.FulfillmentOptionID)
		}
		session.FulfillmentOptionID = req.FulfillmentOptionID
	}

	wasReady := session.Status == domain.CheckoutStatusReadyForPayment
	s.reconcile(&session)
	session.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(session); err != nil {
		s.logger.WithError(err).WithField("checkout_session_id", id).Error("failed to save checkout session")
		return domain.CheckoutSession{}, fmt.Errorf("save checkout session: %w", err)
	}
	session.Version++

	eventType := kafka.EventTypeCheckoutUpdated
	if !wasReady && session.Status == domain.CheckoutStatusReadyForPayment {
		eventType = kafka.EventTypeCheckoutReady
	}
	s.emitEvent(eventType, &session)

	return session, nil
}

// Complete проводит двухэтапный платёж и финализирует сессию.
// При любой платёжной ошибке сессия в хранилище остаётся без изменений.
func (s *Service) Complete(ctx context.Context, id string, req CompleteRequest) (domain.CheckoutSession, domain.Order, error) {
	if strings.TrimSpace(req.PaymentToken) == "" {
		return domain.CheckoutSession{}, domain.Order{}, domain.ErrMissingPaymentData
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	session, err := s.repo.Get(id)
	if err != nil {
		return domain.CheckoutSession{}, domain.Order{}, err
	}
	if err := modifiableGuard(session.Status); err != nil {
		return domain.CheckoutSession{}, domain.Order{}, err
	}

	if req.Buyer != nil {
		session.Buyer = req.Buyer
	}

	total, err := session.TotalAmount()
	if err != nil || total <= 0 {
		return domain.CheckoutSession{}, domain.Order{}, domain.ErrInvalidTotal
	}

	if err := s.capturePayment(ctx, id, req.PaymentToken, total, session.Currency); err != nil {
		if s.metrics != nil {
			s.metrics.RecordPaymentFailed()
		}
		s.emitPaymentFailed(&session, total, err)
		return domain.CheckoutSession{}, domain.Order{}, err
	}

	session.Status = domain.CheckoutStatusCompleted
	session.AppendMessage(domain.MessageTypeInfo, messagePaymentOK)
	// Дескриптор провайдера после завершения оплаты больше не нужен.
	session.PaymentProvider = nil
	session.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(session); err != nil {
		s.logger.WithError(err).WithField("checkout_session_id", id).Error("failed to finalize checkout session")
		return domain.CheckoutSession{}, domain.Order{}, fmt.Errorf("save completed checkout: %w", err)
	}
	session.Version++

	if s.metrics != nil {
		s.metrics.RecordSessionCompleted()
	}
	s.emitEvent(kafka.EventTypeCheckoutComplete, &session)

	orderID := domain.GenerateID(orderPrefix)
	order := domain.Order{
		ID:                orderID,
		CheckoutSessionID: session.ID,
		PermalinkURL:      permalinkBase + orderID,
	}

	return session, order, nil
}

// Cancel переводит сессию в терминальный статус canceled.
// Отмена завершённой сессии запрещена; повторная отмена возвращает явную ошибку.
func (s *Service) Cancel(_ context.Context, id string) (domain.CheckoutSession, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	session, err := s.repo.Get(id)
	if err != nil {
		return domain.CheckoutSession{}, err
	}

	switch session.Status {
	case domain.CheckoutStatusCompleted:
		return domain.CheckoutSession{}, domain.ErrAlreadyCompleted
	case domain.CheckoutStatusCanceled:
		return domain.CheckoutSession{}, domain.ErrAlreadyCanceled
	}

	session.Status = domain.CheckoutStatusCanceled
	session.AppendMessage(domain.MessageTypeInfo, messageCanceled)
	session.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(session); err != nil {
		s.logger.WithError(err).WithField("checkout_session_id", id).Error("failed to cancel checkout session")
		return domain.CheckoutSession{}, fmt.Errorf("save canceled checkout: %w", err)
	}
	session.Version++

	if s.metrics != nil {
		s.metrics.RecordSessionCanceled()
	}
	s.emitEvent(kafka.EventTypeCheckoutCanceled, &session)

	return session, nil
}

// buildLineItems строит позиции атомарно: первый неизвестный товар
// отклоняет весь набор.
func (s *Service) buildLineItems(items []domain.Item) ([]domain.LineItem, error) {
	lineItems := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		product, ok := s.products.Lookup(item.ID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, item.ID)
		}
		li, err := domain.BuildLineItem(item, product)
		if err != nil {
			return nil, err
		}
		lineItems = append(lineItems, li)
	}
	return lineItems, nil
}

// reconcile пересчитывает производное состояние: totals из текущих позиций и
// выбранной доставки, статус из наличия адреса и способа доставки.
func (s *Service) reconcile(session *domain.CheckoutSession) {
	session.Totals = domain.ComputeTotals(session.LineItems, session.SelectedFulfillmentOption())

	if session.Status.Terminal() {
		return
	}
	if session.FulfillmentAddress != nil && session.FulfillmentOptionID != "" {
		session.Status = domain.CheckoutStatusReadyForPayment
	} else {
		session.Status = domain.CheckoutStatusNotReadyForPayment
	}
}

// capturePayment оркестрирует resolve+capture под общим таймаутом.
// Сбой любой стадии (включая таймаут) сворачивается в ErrPaymentFailed.
func (s *Service) capturePayment(ctx context.Context, sessionID, token string, amountMinor int64, currency string) error {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordPaymentDuration(time.Since(start))
		}
	}()

	payCtx, cancel := context.WithTimeout(ctx, s.paymentTimeout)
	defer cancel()

	paymentMethod, err := s.payments.ResolveToken(payCtx, token)
	if err != nil {
		s.logger.WithError(err).WithField("checkout_session_id", sessionID).Warn("payment token resolution failed")
		return wrapPaymentError(err)
	}

	intentID, err := s.payments.Capture(payCtx, paymentMethod, amountMinor, currency)
	if err != nil {
		s.logger.WithError(err).WithField("checkout_session_id", sessionID).Warn("payment capture failed")
		return wrapPaymentError(err)
	}

	s.logger.WithFields(log.Fields{
		"checkout_session_id": sessionID,
		"payment_intent":      intentID,
		"amount_minor":        amountMinor,
	}).Info("payment captured")

	return nil
}

// modifiableGuard запрещает изменение сессии в терминальном статусе.
func modifiableGuard(status domain.CheckoutStatus) error {
	switch status {
	case domain.CheckoutStatusCompleted:
		return domain.ErrCheckoutCompleted
	case domain.CheckoutStatusCanceled:
		return domain.ErrCheckoutCanceled
	default:
		return nil
	}
}

func wrapPaymentError(err error) error {
	if errors.Is(err, domain.ErrPaymentFailed) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrPaymentFailed, err)
}

// emitEvent кладёт событие жизненного цикла в outbox, если он подключён.
func (s *Service) emitEvent(eventType kafka.EventType, session *domain.CheckoutSession) {
	if s.outbox == nil {
		return
	}

	total, _ := session.TotalAmount()
	event := kafka.NewCheckoutEvent(eventType, session.ID, string(session.Status), total, session.Currency)
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.WithError(err).Warn("failed to marshal checkout event")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: "checkout_session",
		AggregateID:   session.ID,
		EventType:     string(eventType),
		Payload:       payload,
	}); err != nil {
		s.logger.WithError(err).WithField("checkout_session_id", session.ID).Warn("failed to enqueue outbox event")
	}
}

// emitPaymentFailed фиксирует неудачную платёжную попытку в outbox.
func (s *Service) emitPaymentFailed(session *domain.CheckoutSession, amountMinor int64, cause error) {
	if s.outbox == nil {
		return
	}

	event := kafka.NewPaymentEvent(kafka.EventTypePaymentFailed, session.ID, amountMinor, session.Currency, cause.Error())
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.WithError(err).Warn("failed to marshal payment event")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: "checkout_session",
		AggregateID:   session.ID,
		EventType:     string(kafka.EventTypePaymentFailed),
		Payload:       payload,
	}); err != nil {
		s.logger.WithError(err).WithField("checkout_session_id", session.ID).Warn("failed to enqueue payment event")
	}
}

func joinErrors(errs []error) string {
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}
