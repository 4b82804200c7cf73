package httpapi

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/acs/internal/domain"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

// withIdempotency реализует replay мутирующих запросов по Idempotency-Key.
// Ключ привязан к хэшу метода, пути и тела: повторный запрос с тем же ключом
// и телом получает сохранённый ответ, с другим телом — конфликт.
func (h *Handler) withIdempotency(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.idempotency == nil {
			next(w, r)
			return
		}

		key := strings.TrimSpace(r.Header.Get(idempotencyHeader))
		if key == "" {
			next(w, r)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Type:    errorTypeInvalidRequest,
				Code:    "invalid_request",
				Message: "Failed to read request body",
			})
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		requestHash := hashRequest(r.Method, r.URL.Path, body)

		record, err := h.idempotency.CreateProcessing(key, requestHash, time.Now().UTC().Add(idempotencyTTL))
		switch {
		case err == nil:
			// Первый запрос с этим ключом: выполняем и сохраняем ответ.
		case errors.Is(err, domain.ErrIdempotencyKeyAlreadyExists):
			h.replay(w, r, key, record)
			return
		case errors.Is(err, domain.ErrIdempotencyHashMismatch):
			writeError(w, err)
			return
		default:
			h.logger.WithError(err).Warn("idempotency registration failed, processing without replay")
			next(w, r)
			return
		}

		rec := newRecordingWriter(w)
		next(rec, r)

		if rec.status >= 200 && rec.status < 300 {
			if err := h.idempotency.MarkDone(key, rec.body.Bytes(), rec.status); err != nil {
				h.logger.WithError(err).Warn("failed to store idempotent response")
			}
		} else {
			if err := h.idempotency.MarkFailed(key, rec.body.Bytes(), rec.status); err != nil {
				h.logger.WithError(err).Warn("failed to store idempotent error response")
			}
		}
	})
}

// replay возвращает сохранённый ответ; processing-записи без ответа означают
// параллельный запрос с тем же ключом.
func (h *Handler) replay(w http.ResponseWriter, _ *http.Request, key string, record domain.IdempotencyRecord) {
	if record.Status == domain.IdempotencyStatusProcessing {
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Type:    errorTypeInvalidRequest,
			Code:    "idempotency_in_flight",
			Message: "Request with this idempotency key is still being processed",
		})
		return
	}

	h.logger.WithField("idempotency_key", key).Debug("replaying stored response")
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Idempotency-Replayed", "true")
	w.WriteHeader(record.HTTPStatus)
	_, _ = w.Write(record.ResponseBody)
}

func hashRequest(method, path string, body []byte) string {
	sum := sha256.New()
	sum.Write([]byte(method))
	sum.Write([]byte{0})
	sum.Write([]byte(path))
	sum.Write([]byte{0})
	sum.Write(body)
	return hex.EncodeToString(sum.Sum(nil))
}

// recordingWriter дублирует ответ в буфер для сохранения в idempotency-хранилище.
type recordingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func newRecordingWriter(w http.ResponseWriter) *recordingWriter {
	return &recordingWriter{ResponseWriter: w, status: http.StatusOK}
}

func (w *recordingWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.body.Write(p)
	return w.ResponseWriter.Write(p)
}
