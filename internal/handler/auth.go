package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tradewire/signalgate/internal/middleware"
	"github.com/tradewire/signalgate/internal/model"
	"github.com/tradewire/signalgate/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	acc, err := h.svc.Register(req.AccountID, req.Password, req.Broker)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"account_id": acc.ID, "broker": acc.Broker})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity, err := h.svc.ValidateCredential(req.AccountID, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	token, err := h.svc.IssueToken(identity)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, model.LoginResponse{
		Token:     token,
		AccountID: identity.AccountID,
		Broker:    identity.Broker,
	})
}

// identityFromContext reads the identity set by TokenAuthMiddleware.
func identityFromContext(c *gin.Context) (model.Identity, bool) {
	idVal, exists := c.Get(middleware.ContextIdentityKey)
	if !exists {
		return model.Identity{}, false
	}
	identity, ok := idVal.(model.Identity)
	return identity, ok
}
