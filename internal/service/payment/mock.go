package payment

import (
	"context"

	"github.com/vladislavdragonenkov/acs/internal/domain"
)

// MockService — конфигурируемая заглушка PaymentService для тестов.
type MockService struct {
	ResolveMethod string
	ResolveErr    error
	CaptureIntent string
	CaptureErr    error

	ResolveCalls int
	CaptureCalls int

	// LastAmount и LastCurrency фиксируют аргументы последнего Capture.
	LastAmount   int64
	LastCurrency string
}

// NewMockService возвращает mock с успешным сценарием по умолчанию.
func NewMockService() *MockService {
	return &MockService{
		ResolveMethod: "pm_mock_123",
		CaptureIntent: "pi_mock_123",
	}
}

// ResolveToken возвращает заранее настроенный платёжный метод и считает вызовы.
func (m *MockService) ResolveToken(_ context.Context, _ string) (string, error) {
	m.ResolveCalls++
	if m.ResolveErr != nil {
		return "", m.ResolveErr
	}
	return m.ResolveMethod, nil
}

// Capture возвращает настроенный результат и считает вызовы.
func (m *MockService) Capture(_ context.Context, _ string, amountMinor int64, currency string) (string, error) {
	m.CaptureCalls++
	m.LastAmount = amountMinor
	m.LastCurrency = currency
	if m.CaptureErr != nil {
		return "", m.CaptureErr
	}
	return m.CaptureIntent, nil
}

var _ domain.PaymentService = (*MockService)(nil)
