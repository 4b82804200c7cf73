// Package httpapi реализует JSON-over-HTTP поверхность checkout-сервиса.
package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/acs/internal/domain"
	"github.com/vladislavdragonenkov/acs/internal/metrics"
	"github.com/vladislavdragonenkov/acs/internal/service/checkout"
)

const maxBodyBytes = 1 << 20

// CheckoutAPI описывает операции state machine, которые публикует HTTP-слой.
type CheckoutAPI interface {
	Create(ctx context.Context, req checkout.CreateRequest) (domain.CheckoutSession, error)
	Get(ctx context.Context, id string) (domain.CheckoutSession, error)
	Update(ctx context.Context, id string, req checkout.UpdateRequest) (domain.CheckoutSession, error)
	Complete(ctx context.Context, id string, req checkout.CompleteRequest) (domain.CheckoutSession, domain.Order, error)
	Cancel(ctx context.Context, id string) (domain.CheckoutSession, error)
}

// Handler связывает HTTP-маршруты с checkout-сервисом и каталогом.
type Handler struct {
	service     CheckoutAPI
	products    domain.ProductCatalog
	idempotency domain.IdempotencyRepository
	metrics     *metrics.CheckoutMetrics
	logger      *log.Entry
}

// HandlerOption настраивает Handler.
type HandlerOption func(*Handler)

// WithIdempotency включает replay повторных запросов по заголовку Idempotency-Key.
func WithIdempotency(repo domain.IdempotencyRepository) HandlerOption {
	return func(h *Handler) { h.idempotency = repo }
}

// WithMetrics подключает HTTP-метрики.
func WithMetrics(m *metrics.CheckoutMetrics) HandlerOption {
	return func(h *Handler) { h.metrics = m }
}

// NewHandler создаёт HTTP-обработчик API.
func NewHandler(service CheckoutAPI, products domain.ProductCatalog, logger *log.Entry, options ...HandlerOption) *Handler {
	if logger == nil {
		logger = log.New().WithField("component", "http")
	}
	h := &Handler{
		service:  service,
		products: products,
		logger:   logger,
	}
	for _, option := range options {
		option(h)
	}
	return h
}

// Routes регистрирует маршруты API на новом ServeMux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("POST /checkout_sessions", h.instrument("/checkout_sessions", h.withIdempotency(h.handleCreate)))
	mux.Handle("GET /checkout_sessions/{id}", h.instrument("/checkout_sessions/{id}", http.HandlerFunc(h.handleGet)))
	mux.Handle("POST /checkout_sessions/{id}", h.instrument("/checkout_sessions/{id}", h.withIdempotency(h.handleUpdate)))
	mux.Handle("POST /checkout_sessions/{id}/complete", h.instrument("/checkout_sessions/{id}/complete", h.withIdempotency(h.handleComplete)))
	mux.Handle("POST /checkout_sessions/{id}/cancel", h.instrument("/checkout_sessions/{id}/cancel", h.withIdempotency(h.handleCancel)))
	mux.Handle("GET /products", h.instrument("/products", http.HandlerFunc(h.handleProducts)))

	return mux
}

type itemsPayload struct {
	Items []domain.Item `json:"items"`
}

type createPayload struct {
	Items              []domain.Item   `json:"items"`
	Buyer              *domain.Buyer   `json:"buyer,omitempty"`
	FulfillmentAddress *domain.Address `json:"fulfillment_address,omitempty"`
}

type updatePayload struct {
	Items               []domain.Item   `json:"items,omitempty"`
	Buyer               *domain.Buyer   `json:"buyer,omitempty"`
	FulfillmentAddress  *domain.Address `json:"fulfillment_address,omitempty"`
	FulfillmentOptionID string          `json:"fulfillment_option_id,omitempty"`
}

type paymentDataPayload struct {
	Token    string `json:"token"`
	Provider string `json:"provider,omitempty"`
}

type completePayload struct {
	Buyer       *domain.Buyer       `json:"buyer,omitempty"`
	PaymentData *paymentDataPayload `json:"payment_data"`
}

// sessionWithOrder — ответ операции complete: сессия плюс созданный заказ.
type sessionWithOrder struct {
	domain.CheckoutSession
	Order *domain.Order `json:"order,omitempty"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload createPayload
	if !h.decodeBody(w, r, &payload) {
		return
	}

	session, err := h.service.Create(r.Context(), checkout.CreateRequest{
		Items:              payload.Items,
		Buyer:              payload.Buyer,
		FulfillmentAddress: payload.FulfillmentAddress,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload updatePayload
	if !h.decodeBody(w, r, &payload) {
		return
	}

	session, err := h.service.Update(r.Context(), r.PathValue("id"), checkout.UpdateRequest{
		Items:               payload.Items,
		Buyer:               payload.Buyer,
		FulfillmentAddress:  payload.FulfillmentAddress,
		FulfillmentOptionID: payload.FulfillmentOptionID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	var payload completePayload
	if !h.decodeBody(w, r, &payload) {
		return
	}

	req := checkout.CompleteRequest{Buyer: payload.Buyer}
	if payload.PaymentData != nil {
		req.PaymentToken = payload.PaymentData.Token
	}

	session, order, err := h.service.Complete(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionWithOrder{
		CheckoutSession: session,
		Order:           &order,
	})
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Cancel(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) handleProducts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"products": h.products.Products(),
	})
}

// decodeBody разбирает JSON-тело запроса; пустое тело трактуется как пустой объект.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Type:    errorTypeInvalidRequest,
			Code:    "invalid_request",
			Message: "Failed to read request body",
		})
		return false
	}
	if len(body) == 0 {
		return true
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Type:    errorTypeInvalidRequest,
			Code:    "invalid_request",
			Message: "Malformed JSON body",
		})
		return false
	}
	return true
}

// instrument оборачивает обработчик записью HTTP-метрик по маршруту.
func (h *Handler) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		h.metrics.RecordHTTPRequest(route, r.Method, strconv.Itoa(sw.status), time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
