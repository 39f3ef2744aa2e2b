package generatemetadata

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	apperrors "folder-metadata/internal/common/errors"
	"folder-metadata/internal/common/llm"
	"folder-metadata/internal/common/logger"
	"folder-metadata/internal/common/metrics"
	"folder-metadata/internal/common/observability"
	"folder-metadata/internal/metadata"
	"folder-metadata/internal/models"

	"github.com/go-chi/chi/v5/middleware"
)

const TaskType = "generate-metadata"

type Handler struct {
	config  *Config
	invoker llm.Invoker
	logger  logger.Logger
	obs     *observability.Observability
}

// NewHandler wires the pipeline. obs may be nil.
func NewHandler(config *Config, invoker llm.Invoker, log logger.Logger, obs *observability.Observability) *Handler {
	return &Handler{
		config:  config,
		invoker: invoker,
		logger:  log.With(map[string]interface{}{"taskType": TaskType}),
		obs:     obs,
	}
}

// Execute builds the prompt, calls the model once and normalizes the reply.
// The model call is detached from ctx cancellation; only the configured
// timeout bounds it.
func (h *Handler) Execute(ctx context.Context, mode models.Mode, input *Input) (*Output, error) {
	if input == nil || models.IsEmptyJSON(input.Tree) {
		return nil, apperrors.NewMissingInputError()
	}

	prompt, err := metadata.BuildPrompt(mode, input.Tree, input.Hint, input.CustomPrompt)
	if err != nil {
		return nil, apperrors.NewInvalidRequestError(err)
	}

	callCtx := context.WithoutCancel(ctx)
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(callCtx, h.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	callCtx, span := h.obs.StartGeneration(callCtx, mode.String())

	raw, err := h.invoke(callCtx, prompt)
	if err != nil {
		metrics.ObserveModelCall(mode.String(), "error", time.Since(start))
		metrics.CountOutcome(mode.String(), metadata.OutcomeError.String(), "")
		h.obs.EndGeneration(callCtx, span, mode.String(), metadata.OutcomeError.String(), "", err, time.Since(start))
		h.logger.Error("model call failed", map[string]interface{}{
			"mode":  mode.String(),
			"error": err.Error(),
		})
		return nil, apperrors.NewModelInvocationError(err)
	}
	metrics.ObserveModelCall(mode.String(), "ok", time.Since(start))

	h.logger.Debug("raw model output", map[string]interface{}{
		"mode": mode.String(),
		"raw":  raw,
	})

	out := metadata.Normalize(mode, raw)
	metrics.CountOutcome(mode.String(), out.Kind.String(), out.Reason)
	h.obs.EndGeneration(callCtx, span, mode.String(), out.Kind.String(), out.Reason, out.Err, time.Since(start))

	switch out.Kind {
	case metadata.OutcomeError:
		h.logger.Error("model returned no content", map[string]interface{}{"mode": mode.String()})
		return nil, apperrors.NewEmptyModelOutputError()
	case metadata.OutcomeFallback:
		fields := map[string]interface{}{
			"mode":   mode.String(),
			"reason": out.Reason,
		}
		if len(out.Missing) > 0 {
			fields["missingFields"] = out.Missing
		}
		h.logger.Warn("using fallback metadata", fields)
	}

	return &Output{Record: out.Record, Outcome: out.Kind, Reason: out.Reason}, nil
}

func (h *Handler) invoke(ctx context.Context, prompt metadata.Prompt) (string, error) {
	metrics.GenerationsInFlight.Inc()
	defer metrics.GenerationsInFlight.Dec()
	return h.invoker.Invoke(ctx, h.config.Model, prompt.System, prompt.User)
}

// HTTPHandler serves one mode. Success and fallback records are written
// verbatim with 200.
func (h *Handler) HTTPHandler(mode models.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := h.logger.With(map[string]interface{}{
			"requestId": middleware.GetReqID(r.Context()),
			"mode":      mode.String(),
		})

		var input Input
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			stdErr := decodeError(err)
			log.Warn("rejecting request body", map[string]interface{}{"error": err.Error()})
			writeError(w, stdErr)
			return
		}

		output, err := h.Execute(r.Context(), mode, &input)
		if err != nil {
			writeError(w, apperrors.Normalize(err))
			return
		}

		log.Info("metadata generated", map[string]interface{}{
			"outcome": output.Outcome.String(),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(output.Record)
	}
}

func decodeError(err error) *apperrors.StandardError {
	if errors.Is(err, io.EOF) {
		return apperrors.NewMissingInputError()
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperrors.NewPayloadTooLargeError(err)
	}
	return apperrors.NewInvalidRequestError(err)
}

func writeError(w http.ResponseWriter, stdErr *apperrors.StandardError) {
	WriteJSON(w, stdErr.HTTPStatus(), models.ErrorResponse{Error: stdErr.Message})
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
