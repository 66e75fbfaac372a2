package middleware

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"jpos/globals"
	"jpos/metrics"
	"jpos/utils"
)

// JWT claims
type Claims struct {
	Username  string   `json:"username"`
	CashierID string   `json:"cashierId"`
	Role      []string `json:"role"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid token")

// Auth validates bearer tokens signed with Secret.
type Auth struct {
	Secret []byte
}

// Issue signs claims for a cashier.
func (a Auth) Issue(cashierID, username string, roles []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Username:  username,
		CashierID: cashierID,
		Role:      roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   cashierID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.Secret)
}

// ValidateJWT parses an "Authorization: Bearer <token>" header value.
func (a Auth) ValidateJWT(header string) (*Claims, error) {
	if len(header) < 8 || !strings.HasPrefix(header, "Bearer ") {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(header[7:], claims, func(token *jwt.Token) (any, error) {
		return a.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (a Auth) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		header := r.Header.Get("Authorization")
		if header == "" && websocket.IsWebSocketUpgrade(r) {
			// browsers cannot set headers on a websocket handshake
			if tok := r.URL.Query().Get("token"); tok != "" {
				header = "Bearer " + tok
			}
		}
		if header == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing token")
			return
		}

		claims, err := a.ValidateJWT(header)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), globals.CashierIDKey, claims.CashierID)
		ctx = context.WithValue(ctx, globals.RoleKey, claims.Role)
		if reg := utils.RegisterFromRequest(r); reg != "" {
			ctx = context.WithValue(ctx, globals.RegisterKey, reg)
		}
		next(w, r.WithContext(ctx), ps)
	}
}

// RequireRegister rejects requests that do not name a register.
func RequireRegister(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if Register(r.Context()) == "" {
			reg := utils.RegisterFromRequest(r)
			if reg == "" {
				utils.RespondWithError(w, http.StatusBadRequest, "Register is required")
				return
			}
			r = r.WithContext(context.WithValue(r.Context(), globals.RegisterKey, reg))
		}
		next(w, r, ps)
	}
}

// CashierID returns the authenticated cashier.
func CashierID(ctx context.Context) string {
	id, _ := ctx.Value(globals.CashierIDKey).(string)
	return id
}

// Register returns the register the request was made from.
func Register(ctx context.Context) string {
	reg, _ := ctx.Value(globals.RegisterKey).(string)
	return reg
}

// SecurityHeaders applies a set of recommended HTTP security headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Hijack keeps websocket upgrades working behind the recorder.
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// Logging logs each request method, path, remote address, status and duration.
func Logging(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// Instrument records request counts and latency under a fixed route label.
func Instrument(m *metrics.Metrics, route string, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r, ps)
		m.Requests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		m.Latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
