package handlers

import (
	"errors"
	"net/http"
	"strings"

	"legalrag-backend/models"
	"legalrag-backend/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	apiKeyHeader    = "X-API-Key"
	apiUserKey      = "api_user"
	apiKeyPrefixLen = 8
)

// GenerateAPIKey returns a new key of the form "<prefix>.<secret>", its
// lookup prefix and the bcrypt hash to store. The key itself is shown once
// and never stored. Keys stay within bcrypt's 72-byte input limit.
func GenerateAPIKey() (key, prefix, hash string, err error) {
	prefix = strings.ReplaceAll(uuid.NewString(), "-", "")[:apiKeyPrefixLen]
	secret := strings.ReplaceAll(uuid.NewString(), "-", "")
	key = prefix + "." + secret

	hashed, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", "", "", err
	}
	return key, prefix, string(hashed), nil
}

// APIKeyAuth authenticates requests by the X-API-Key header or a bearer
// token. The authenticated user is stored in the context under "api_user".
func APIKeyAuth(users APIUserStore, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		key := requestAPIKey(c.Request)
		if key == "" {
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "API key is required")
			return
		}
		prefix, _, ok := strings.Cut(key, ".")
		if !ok || prefix == "" {
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid API key")
			return
		}

		user, err := users.GetByKeyPrefix(c.Request.Context(), prefix)
		if err != nil {
			if !errors.Is(err, repository.ErrAPIUserNotFound) {
				logger.Error("Failed to look up API key", zap.Error(err))
			}
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid API key")
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(user.KeyHash), []byte(key)) != nil {
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid API key")
			return
		}

		if err := users.TouchLastUsed(c.Request.Context(), user.ID); err != nil {
			logger.Warn("Failed to record API key use", zap.String("email", user.Email), zap.Error(err))
		}
		c.Set(apiUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user set by APIKeyAuth, if any
func CurrentUser(c *gin.Context) (*models.APIUser, bool) {
	v, ok := c.Get(apiUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.APIUser)
	return user, ok
}

func requestAPIKey(r *http.Request) string {
	if key := strings.TrimSpace(r.Header.Get(apiKeyHeader)); key != "" {
		return key
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}
