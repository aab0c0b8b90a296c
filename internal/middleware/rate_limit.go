package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/cache"
)

const (
	LoginMaxAttempts = 5
	LoginCooldown    = 15 * time.Minute

	// Un corps de connexion tient largement en 16 Ko.
	maxLoginBody = 16 << 10
)

var errLoginBodyTooLarge = errors.New("login body too large")

// loginIdentity lit l'email ou le téléphone du corps sans le consommer.
func loginIdentity(c *gin.Context) (string, error) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxLoginBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", errLoginBodyTooLarge
		}
		return "", nil
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

	var input struct {
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if err := json.Unmarshal(body, &input); err != nil {
		return "", nil
	}
	if input.Email != "" {
		return strings.ToLower(strings.TrimSpace(input.Email)), nil
	}
	return strings.TrimSpace(input.Phone), nil
}

// LoginRateLimit bloque un identifiant après trop de connexions échouées.
// Sans Redis, le middleware laisse tout passer.
func LoginRateLimit(limiter *cache.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Enabled() {
			c.Next()
			return
		}
		key, err := loginIdentity(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"message": "Request body is too large"})
			return
		}
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		wait, err := limiter.Blocked(ctx, key)
		if err != nil {
			log.Printf("⚠️ Rate limit indisponible: %v", err)
			c.Next()
			return
		}
		if wait > 0 {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message":     fmt.Sprintf("Too many failed attempts, try again in %d minutes", int(wait.Minutes())+1),
				"retry_after": int(wait.Seconds()),
			})
			return
		}

		c.Next()

		switch c.Writer.Status() {
		case http.StatusUnauthorized:
			if _, err := limiter.Fail(ctx, key); err != nil {
				log.Printf("⚠️ Rate limit: %v", err)
			}
		case http.StatusOK:
			if err := limiter.Reset(ctx, key); err != nil {
				log.Printf("⚠️ Rate limit: %v", err)
			}
		}
	}
}
