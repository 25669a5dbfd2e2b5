package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/saisujan42/Live-Polling-System/internal/domain"
	apperrors "github.com/saisujan42/Live-Polling-System/internal/platform/errors"
)

type dataResponse struct {
	Data any `json:"data"`
}

func (s *Server) handleListPolls(c echo.Context) error {
	identity := c.Param("identity")

	polls, err := s.engine.ListPolls(c.Request().Context(), identity)
	if err != nil {
		return engineError(err)
	}

	if err := c.JSON(http.StatusOK, dataResponse{Data: polls}); err != nil {
		return fmt.Errorf("failed to write polls response: %w", err)
	}
	return nil
}

func (s *Server) handleGetPoll(c echo.Context) error {
	pollID := c.Param("id")

	poll, err := s.engine.GetPoll(c.Request().Context(), pollID)
	if errors.Is(err, domain.ErrPollNotFound) {
		return apperrors.NotFoundError("poll not found").WithField("poll_id", pollID)
	}
	if err != nil {
		return engineError(err)
	}

	if err := c.JSON(http.StatusOK, dataResponse{Data: poll}); err != nil {
		return fmt.Errorf("failed to write poll response: %w", err)
	}
	return nil
}

func (s *Server) handleParticipants(c echo.Context) error {
	identities, err := s.engine.Participants(c.Request().Context())
	if err != nil {
		return engineError(err)
	}

	if err := c.JSON(http.StatusOK, dataResponse{Data: identities}); err != nil {
		return fmt.Errorf("failed to write participants response: %w", err)
	}
	return nil
}

func engineError(err error) error {
	if errors.Is(err, domain.ErrEngineStopped) {
		return apperrors.UnavailableError("poll engine unavailable", err)
	}
	return apperrors.InternalError("poll engine request failed", err)
}
