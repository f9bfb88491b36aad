package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinio/clinio-api/internal/handler"
	"github.com/clinio/clinio-api/internal/model"
	"github.com/clinio/clinio-api/internal/service/account"
	"github.com/clinio/clinio-api/internal/service/auth"
)

type Handler struct {
	accountSvc *account.Service
	authSvc    *auth.Service
}

func NewHandler(accountSvc *account.Service, authSvc *auth.Service) *Handler {
	return &Handler{
		accountSvc: accountSvc,
		authSvc:    authSvc,
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if _, err := h.accountSvc.Register(c.Request.Context(), &req); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	tokens, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
}
