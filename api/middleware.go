package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/logger"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/metrics"
	"github.com/sirupsen/logrus"
)

const (
	RoleAdmin = "admin"

	CorrelationIDHeader = "X-Correlation-ID"

	ctxClaims = "claims"
)

// Claims is what the auth service puts in an access token.
type Claims struct {
	UserID int64  `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

func (a *Authenticator) Parse(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, errors.New("missing token")
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID <= 0 {
		return nil, errors.New("token carries no user id")
	}
	return claims, nil
}

// RequireAuth verifies the bearer token and stores its claims on the context.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			fail(c, http.StatusUnauthorized, "no token provided")
			return
		}
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			fail(c, http.StatusUnauthorized, "invalid authorization header")
			return
		}
		claims, err := a.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			fail(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		c.Set(ctxClaims, claims)
		ctx := logger.WithContext(c.Request.Context(), logger.FromContext(c.Request.Context()).WithField("user_id", claims.UserID))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		if claims == nil || !claims.IsAdmin() {
			fail(c, http.StatusForbidden, "admin access required")
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *Claims {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}

// RequestLogger tags the request context with a correlation id and records
// one log line and one latency sample per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(CorrelationIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(CorrelationIDHeader, id)
		c.Request = c.Request.WithContext(logger.WithCorrelationID(c.Request.Context(), id))

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())

		entry := logger.FromContext(c.Request.Context()).WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"route":    route,
			"status":   status,
			"duration": elapsed.String(),
		})
		if status >= http.StatusInternalServerError {
			entry.Error("request handled")
		} else {
			entry.Info("request handled")
		}
	}
}
