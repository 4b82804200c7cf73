package integration

import (
	"context"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/acs/internal/catalog"
	"github.com/vladislavdragonenkov/acs/internal/domain"
	"github.com/vladislavdragonenkov/acs/internal/service/checkout"
	"github.com/vladislavdragonenkov/acs/internal/service/payment"
	"github.com/vladislavdragonenkov/acs/internal/storage/memory"
)

// CheckoutLifecycleTestSuite тестирует полный жизненный цикл checkout-сессии
// поверх in-memory хранилища с transactional outbox.
type CheckoutLifecycleTestSuite struct {
	suite.Suite
	service *checkout.Service
	repo    domain.CheckoutRepository
	outbox  domain.OutboxRepository
	payment *payment.MockService
}

func (suite *CheckoutLifecycleTestSuite) SetupTest() {
	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel) // Уменьшаем шум в тестах
	logger := baseLogger.WithField("component", "integration-test")

	suite.repo = memory.NewCheckoutRepository()
	suite.outbox = memory.NewOutboxRepository()
	suite.payment = payment.NewMockService()

	cat := catalog.NewStatic()
	suite.service = checkout.NewService(
		suite.repo,
		cat,
		cat,
		suite.payment,
		logger,
		checkout.WithOutbox(suite.outbox),
	)
}

func (suite *CheckoutLifecycleTestSuite) TestSuccessfulCheckoutLifecycle() {
	ctx := context.Background()

	// 1. Создаём сессию без адреса
	session, err := suite.service.Create(ctx, checkout.CreateRequest{
		Items: []domain.Item{
			{ID: "item_001", Quantity: 1}, // бокал вина, 500
			{ID: "item_002", Quantity: 2}, // чай/кофе, 2*200
		},
		Buyer: &domain.Buyer{FirstName: "Иван", LastName: "Петров", Email: "ivan@example.com"},
	})
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), domain.CheckoutStatusNotReadyForPayment, session.Status)

	total, err := session.TotalAmount()
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int64(900), total) // 500 + 2*200

	// 2. Задаём адрес доставки: первый способ выбирается автоматически
	session, err = suite.service.Update(ctx, session.ID, checkout.UpdateRequest{
		FulfillmentAddress: &domain.Address{
			Name:       "Иван Петров",
			LineOne:    "Главная 1",
			City:       "Брюссель",
			Country:    "BE",
			PostalCode: "1000",
		},
	})
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), domain.CheckoutStatusReadyForPayment, session.Status)
	require.Equal(suite.T(), "free", session.FulfillmentOptionID)

	// 3. Завершаем оплату
	completed, order, err := suite.service.Complete(ctx, session.ID, checkout.CompleteRequest{
		PaymentToken: "spt_test_token",
	})
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), domain.CheckoutStatusCompleted, completed.Status)
	require.Equal(suite.T(), session.ID, order.CheckoutSessionID)
	require.NotEmpty(suite.T(), order.ID)
	require.Contains(suite.T(), order.PermalinkURL, order.ID)

	// 4. Финальное состояние в хранилище
	stored, err := suite.repo.Get(session.ID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), domain.CheckoutStatusCompleted, stored.Status)
	require.Nil(suite.T(), stored.PaymentProvider)

	// 5. Обе платёжные стадии прошли ровно по одному разу
	require.Equal(suite.T(), 1, suite.payment.ResolveCalls)
	require.Equal(suite.T(), 1, suite.payment.CaptureCalls)
	require.Equal(suite.T(), int64(900), suite.payment.LastAmount)
	require.Equal(suite.T(), "usd", suite.payment.LastCurrency)

	// 6. Outbox содержит события created -> ready -> completed
	suite.requireEventTypes([]string{
		"checkout.created",
		"checkout.ready_for_payment",
		"checkout.completed",
	})
}

func (suite *CheckoutLifecycleTestSuite) TestCancellation() {
	ctx := context.Background()

	session := suite.createReadySession(ctx)

	// Отмена до оплаты разрешена
	canceled, err := suite.service.Cancel(ctx, session.ID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), domain.CheckoutStatusCanceled, canceled.Status)

	// Повторная отмена возвращает явную ошибку
	_, err = suite.service.Cancel(ctx, session.ID)
	require.ErrorIs(suite.T(), err, domain.ErrAlreadyCanceled)

	// Отменённую сессию нельзя ни изменить, ни оплатить
	_, err = suite.service.Update(ctx, session.ID, checkout.UpdateRequest{
		Items: []domain.Item{{ID: "item_001", Quantity: 1}},
	})
	require.ErrorIs(suite.T(), err, domain.ErrCheckoutCanceled)

	_, _, err = suite.service.Complete(ctx, session.ID, checkout.CompleteRequest{PaymentToken: "spt_late"})
	require.ErrorIs(suite.T(), err, domain.ErrCheckoutCanceled)

	// Платёж не инициировался
	require.Equal(suite.T(), 0, suite.payment.ResolveCalls)
	require.Equal(suite.T(), 0, suite.payment.CaptureCalls)
}

func (suite *CheckoutLifecycleTestSuite) TestCancelAfterCompletionForbidden() {
	ctx := context.Background()

	session := suite.createReadySession(ctx)
	_, _, err := suite.service.Complete(ctx, session.ID, checkout.CompleteRequest{PaymentToken: "spt_ok"})
	require.NoError(suite.T(), err)

	_, err = suite.service.Cancel(ctx, session.ID)
	require.ErrorIs(suite.T(), err, domain.ErrAlreadyCompleted)
}

func (suite *CheckoutLifecycleTestSuite) TestPaymentFailureKeepsSessionOpen() {
	ctx := context.Background()

	session := suite.createReadySession(ctx)

	// Настраиваем сбой capture
	suite.payment.CaptureErr = domain.ErrPaymentFailed

	_, _, err := suite.service.Complete(ctx, session.ID, checkout.CompleteRequest{PaymentToken: "spt_declined"})
	require.ErrorIs(suite.T(), err, domain.ErrPaymentFailed)

	// Сессия остаётся готовой к повторной попытке оплаты
	stored, err := suite.repo.Get(session.ID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), domain.CheckoutStatusReadyForPayment, stored.Status)

	// Сбой зафиксирован в outbox; сессия создавалась сразу с адресом,
	// поэтому отдельного события ready_for_payment нет
	suite.requireEventTypes([]string{
		"checkout.created",
		"payment.failed",
	})

	// Повторная попытка после устранения сбоя завершает сессию
	suite.payment.CaptureErr = nil
	completed, _, err := suite.service.Complete(ctx, session.ID, checkout.CompleteRequest{PaymentToken: "spt_retry"})
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), domain.CheckoutStatusCompleted, completed.Status)
	require.Equal(suite.T(), 2, suite.payment.CaptureCalls)
}

func (suite *CheckoutLifecycleTestSuite) TestCompleteWithoutAddress() {
	ctx := context.Background()

	session, err := suite.service.Create(ctx, checkout.CreateRequest{
		Items: []domain.Item{{ID: "item_003", Quantity: 1}},
	})
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), domain.CheckoutStatusNotReadyForPayment, session.Status)

	// Состояние not_ready_for_payment не блокирует оплату: достаточно
	// положительного total и платёжного токена.
	completed, _, err := suite.service.Complete(ctx, session.ID, checkout.CompleteRequest{
		PaymentToken: "spt_no_address",
		Buyer:        &domain.Buyer{FirstName: "Анна", Email: "anna@example.com"},
	})
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), domain.CheckoutStatusCompleted, completed.Status)
	require.NotNil(suite.T(), completed.Buyer)
	require.Equal(suite.T(), "Анна", completed.Buyer.FirstName)
}

func (suite *CheckoutLifecycleTestSuite) TestUnknownProductRejectsWholeSet() {
	ctx := context.Background()

	_, err := suite.service.Create(ctx, checkout.CreateRequest{
		Items: []domain.Item{
			{ID: "item_001", Quantity: 1},
			{ID: "item_999", Quantity: 1},
		},
	})
	require.ErrorIs(suite.T(), err, domain.ErrProductNotFound)

	// Ничего не сохранено и не опубликовано
	stats, err := suite.outbox.Stats()
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 0, stats.PendingCount)
}

// Вспомогательные методы

func (suite *CheckoutLifecycleTestSuite) createReadySession(ctx context.Context) domain.CheckoutSession {
	session, err := suite.service.Create(ctx, checkout.CreateRequest{
		Items: []domain.Item{{ID: "item_001", Quantity: 2}},
		FulfillmentAddress: &domain.Address{
			Name:       "Тест",
			LineOne:    "Главная 1",
			City:       "Брюссель",
			Country:    "BE",
			PostalCode: "1000",
		},
	})
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), domain.CheckoutStatusReadyForPayment, session.Status)
	return session
}

// requireEventTypes сверяет порядок событий, накопленных в outbox.
func (suite *CheckoutLifecycleTestSuite) requireEventTypes(expected []string) {
	messages, err := suite.outbox.PullPending(100)
	require.NoError(suite.T(), err)

	types := make([]string, 0, len(messages))
	for _, msg := range messages {
		types = append(types, msg.EventType)
	}
	require.Equal(suite.T(), expected, types)
}

func TestCheckoutLifecycle(t *testing.T) {
	suite.Run(t, new(CheckoutLifecycleTestSuite))
}
