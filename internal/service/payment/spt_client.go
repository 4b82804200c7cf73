package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/acs/internal/domain"
)

const tokenPrefix = "spt_"

// SPTClient — клиент платёжного провайдера, работающий с делегированными
// платёжными токенами (shared payment tokens). Токен сначала обменивается
// на платёжный метод, затем метод списывается отдельным запросом.
type SPTClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *log.Entry
}

// NewSPTClient создаёт клиент провайдера. baseURL указывается без
// завершающего слэша.
func NewSPTClient(baseURL, apiKey string, logger *log.Logger) *SPTClient {
	return &SPTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger.WithField("component", "payment_spt_client"),
	}
}

type grantedTokenResponse struct {
	ID            string `json:"id"`
	PaymentMethod string `json:"payment_method"`
}

type paymentIntentResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type providerErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ResolveToken обменивает делегированный токен на идентификатор платёжного
// метода. Токены без префикса spt_ отклоняются без похода к провайдеру.
func (c *SPTClient) ResolveToken(ctx context.Context, token string) (string, error) {
	if !strings.HasPrefix(token, tokenPrefix) {
		return "", fmt.Errorf("%w: неожиданный формат токена", domain.ErrPaymentFailed)
	}

	endpoint := c.baseURL + "/v1/shared_payment/granted_tokens/" + url.PathEscape(token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrPaymentFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	var granted grantedTokenResponse
	if err := c.do(req, &granted); err != nil {
		return "", err
	}
	if granted.PaymentMethod == "" {
		return "", fmt.Errorf("%w: провайдер не вернул платёжный метод", domain.ErrPaymentFailed)
	}

	c.logger.WithField("granted_token", granted.ID).Debug("Токен обменян на платёжный метод")
	return granted.PaymentMethod, nil
}

// Capture списывает сумму с платёжного метода, создавая подтверждённый
// платёжный интент. Возвращает идентификатор интента.
func (c *SPTClient) Capture(ctx context.Context, paymentMethod string, amountMinor int64, currency string) (string, error) {
	form := url.Values{}
	form.Set("payment_method", paymentMethod)
	form.Set("amount", strconv.FormatInt(amountMinor, 10))
	form.Set("currency", currency)
	form.Set("confirm", "true")

	endpoint := c.baseURL + "/v1/payment_intents"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrPaymentFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var intent paymentIntentResponse
	if err := c.do(req, &intent); err != nil {
		return "", err
	}

	c.logger.WithFields(log.Fields{
		"payment_intent": intent.ID,
		"status":         intent.Status,
	}).Info("Платёж проведён")
	return intent.ID, nil
}

func (c *SPTClient) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPaymentFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: чтение ответа: %v", domain.ErrPaymentFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var perr providerErrorResponse
		if json.Unmarshal(body, &perr) == nil && perr.Error.Message != "" {
			return fmt.Errorf("%w: %s", domain.ErrPaymentFailed, perr.Error.Message)
		}
		return fmt.Errorf("%w: провайдер ответил статусом %d", domain.ErrPaymentFailed, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: разбор ответа: %v", domain.ErrPaymentFailed, err)
	}
	return nil
}

var _ domain.PaymentService = (*SPTClient)(nil)
