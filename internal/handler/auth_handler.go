package handler

import (
	"net/http"

	"vendora/config"
	"vendora/internal/auth"
	"vendora/internal/repository"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	cfg    *config.Config
	stores *repository.StoreRepository
}

func NewAuthHandler(cfg *config.Config, stores *repository.StoreRepository) *AuthHandler {
	return &AuthHandler{cfg: cfg, stores: stores}
}

// Token exchanges a store's API key pair for a dashboard JWT.
func (h *AuthHandler) Token(c *gin.Context) {
	var req struct {
		APIKey    string `json:"api_key" binding:"required"`
		APISecret string `json:"api_secret" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	store, err := h.stores.GetByAPIKey(req.APIKey)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(store.APISecretHash), []byte(req.APISecret)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	token, err := auth.GenerateToken(&h.cfg.JWT, store.ID, store.Slug)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "store_id": store.ID, "slug": store.Slug})
}
