package server

import (
	"context"
	"net/http"
	"time"

	"github.com/castlens/castlens-go/internal/constants"
	"github.com/castlens/castlens-go/internal/domain"
	apperrors "github.com/castlens/castlens-go/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIResponse is the envelope every endpoint returns.
type APIResponse struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, APIResponse{
		Success:   true,
		Data:      gin.H{"status": "ok"},
		Timestamp: time.Now(),
	})
}

func (s *Server) getChannelAnalytics(c *gin.Context) {
	channelID := c.Param("channelId")
	if channelID == "" {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success:   false,
			Error:     "channel id is required",
			Timestamp: time.Now(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), constants.ServerConfig.BuildTimeout)
	defer cancel()

	analytics, err := s.analytics.BuildChannelAnalytics(ctx, channelID)
	if err != nil {
		status := statusForError(err)
		if status >= 500 {
			s.logger.Error("Analytics build failed",
				zap.String("channel_id", channelID),
				zap.Error(err),
			)
		}
		c.JSON(status, APIResponse{
			Success:   false,
			Error:     errorMessage(err, channelID),
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success:   true,
		Data:      analytics,
		Timestamp: time.Now(),
	})
}

// SnapshotResponse pairs a persisted analytics build with its capture time.
type SnapshotResponse struct {
	Analytics  *domain.ChannelAnalytics `json:"analytics"`
	CapturedAt time.Time                `json:"captured_at"`
}

func (s *Server) getLatestSnapshot(c *gin.Context) {
	channelID := c.Param("channelId")

	if s.snapshots == nil {
		c.JSON(http.StatusNotFound, APIResponse{
			Success:   false,
			Error:     "snapshot history is not enabled",
			Timestamp: time.Now(),
		})
		return
	}

	analytics, capturedAt, err := s.snapshots.Latest(c.Request.Context(), channelID)
	if err != nil {
		s.logger.Error("Snapshot lookup failed",
			zap.String("channel_id", channelID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success:   false,
			Error:     "failed to load snapshot",
			Timestamp: time.Now(),
		})
		return
	}
	if analytics == nil {
		c.JSON(http.StatusNotFound, APIResponse{
			Success:   false,
			Error:     "no snapshot captured for channel: " + channelID,
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success:   true,
		Data:      SnapshotResponse{Analytics: analytics, CapturedAt: capturedAt},
		Timestamp: time.Now(),
	})
}

func statusForError(err error) int {
	switch {
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case apperrors.IsPaginationLimit(err),
		apperrors.IsMalformedRecord(err),
		apperrors.IsUpstream(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage keeps upstream payloads out of client responses while still
// naming the failure kind.
func errorMessage(err error, channelID string) string {
	switch {
	case apperrors.IsNotFound(err):
		return "no such channel: " + channelID
	case apperrors.IsPaginationLimit(err):
		return "channel data exceeded the pagination budget"
	case apperrors.IsMalformedRecord(err):
		return "upstream returned a malformed record"
	case apperrors.IsUpstream(err):
		return "upstream provider failed"
	default:
		return "failed to build channel analytics"
	}
}
