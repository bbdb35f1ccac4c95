package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"giveaway-bot-backend/internal/features/giveaway/models"
	giveawayservice "giveaway-bot-backend/internal/features/giveaway/service"
)

type GiveawayHandler struct {
	service giveawayservice.GiveawayService
}

func NewGiveawayHandler(service giveawayservice.GiveawayService) *GiveawayHandler {
	return &GiveawayHandler{service: service}
}

func (h *GiveawayHandler) RegisterRoutes(router *gin.RouterGroup) {
	giveaways := router.Group("/giveaways")
	{
		giveaways.POST("", h.start)
		giveaways.GET("", h.list)
		giveaways.POST("/:id/end", h.end)
		giveaways.POST("/:id/reroll", h.reroll)
	}

	users := router.Group("/users")
	{
		users.PUT("/:id/weight", h.setWeight)
		users.PUT("/:id/boost", h.setBoost)
	}
}

type startRequest struct {
	Channel  string `json:"channel" binding:"required"`
	Guild    string `json:"guild" binding:"required"`
	Duration string `json:"duration" binding:"required"`
	Winners  int    `json:"winners" binding:"required,min=1"`
	Prize    string `json:"prize" binding:"required"`
}

func (h *GiveawayHandler) start(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entryID, err := h.service.StartGiveaway(c.Request.Context(), req.Channel, req.Guild, req.Duration, req.Winners, req.Prize)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidDuration), errors.Is(err, models.ErrInvalidWinnersCount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, giveawayservice.ErrDuplicateEntry):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case entryID != "":
			// Started but not durably persisted; the operator must know.
			c.JSON(http.StatusInternalServerError, gin.H{"id": entryID, "error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": entryID})
}

func (h *GiveawayHandler) list(c *gin.Context) {
	ids, err := h.service.ListActiveGiveaways(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"giveaways": ids})
}

func (h *GiveawayHandler) end(c *gin.Context) {
	h.completeWith(c, h.service.EndGiveaway)
}

func (h *GiveawayHandler) reroll(c *gin.Context) {
	h.completeWith(c, h.service.RerollGiveaway)
}

func (h *GiveawayHandler) completeWith(c *gin.Context, op func(ctx context.Context, entryID string) error) {
	entryID := c.Param("id")

	if err := op(c.Request.Context(), entryID); err != nil {
		switch {
		case errors.Is(err, giveawayservice.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}

type amountRequest struct {
	Amount *int `json:"amount" binding:"required"`
}

func (h *GiveawayHandler) setWeight(c *gin.Context) {
	h.adjustWith(c, h.service.SetUserWeight)
}

func (h *GiveawayHandler) setBoost(c *gin.Context) {
	h.adjustWith(c, h.service.SetUserBoost)
}

func (h *GiveawayHandler) adjustWith(c *gin.Context, op func(ctx context.Context, userID string, amount int) error) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := op(c.Request.Context(), c.Param("id"), *req.Amount); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
