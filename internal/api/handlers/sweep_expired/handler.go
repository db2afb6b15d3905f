package sweep_expired

import (
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/HSM-AppointmentService/internal/api/handlers"
	sweepExpired "github.com/m04kA/HSM-AppointmentService/internal/usecase/sweep_expired"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidThreshold   = "некорректный порог очистки"
)

type Handler struct {
	useCase SweepExpiredUseCase
	logger  Logger
}

func NewHandler(useCase SweepExpiredUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /internal/appointments/cleanup
// Внутренний endpoint для планировщика, наружу через gateway не публикуется
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Декодируем body (тело опционально, по умолчанию реальная очистка)
	var req SweepExpiredRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /internal/appointments/cleanup - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, sweepExpired.ErrInvalidInput):
			h.logger.Warn("POST /internal/appointments/cleanup - Invalid threshold: %v", err)
			handlers.RespondBadRequest(w, msgInvalidThreshold)

		default:
			h.logger.Error("POST /internal/appointments/cleanup - Sweep failed: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /internal/appointments/cleanup - Sweep finished: dry_run=%t, deleted=%d, candidates=%d",
		result.DryRun, result.DeletedCount, len(result.Candidates))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
