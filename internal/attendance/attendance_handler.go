package attendance

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/anjal-tejani/dayflow-hr-hub/internal/authz"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/shared/apperror"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/shared/response"
)

type Handler struct {
	service Service
	redis   *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, redisClient *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, redis: redisClient, logger: l}
}

func getActor(c *gin.Context) authz.Actor {
	return authz.Actor{
		UserID: c.GetString("user_id"),
		Role:   c.GetString("role"),
	}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) CheckIn(c *gin.Context) {
	actor := getActor(c)

	resp, err := h.service.CheckIn(c.Request.Context(), actor)
	if err != nil {
		h.releaseIdempotencyLock(c)
		h.writeServiceError(c, err)
		return
	}

	h.cacheIdempotentResponse(c, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) CheckOut(c *gin.Context) {
	resp, err := h.service.CheckOut(c.Request.Context(), getActor(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	var query ListAttendanceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.GetAll(c.Request.Context(), getActor(c), query.Range)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

// cacheIdempotentResponse stores the successful check-in under the key the
// idempotency middleware assigned, so a retried submit replays the first
// result instead of hitting the uniqueness conflict.
func (h *Handler) cacheIdempotentResponse(c *gin.Context, resp AttendanceResponse) {
	cacheKey := c.GetString("idempotency_cache_key")
	if cacheKey == "" || h.redis == nil {
		return
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := h.redis.Set(c.Request.Context(), cacheKey, payload, 24*time.Hour).Err(); err != nil {
		h.logger.Warn("cache idempotent response failed", zap.Error(err))
	}
}

// releaseIdempotencyLock lets a failed check-in be retried right away with
// the same Idempotency-Key.
func (h *Handler) releaseIdempotencyLock(c *gin.Context) {
	lockKey := c.GetString("idempotency_lock_key")
	if lockKey == "" || h.redis == nil {
		return
	}
	if err := h.redis.Del(c.Request.Context(), lockKey).Err(); err != nil {
		h.logger.Warn("release idempotency lock failed", zap.Error(err))
	}
}
