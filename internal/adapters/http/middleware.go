package httpadapter

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"neurasec/internal/logger"
)

// UserIDHeader carries the authenticated user id set by the fronting auth
// layer. Absent means anonymous.
const UserIDHeader = "X-User-ID"

type identityKey struct{}

type identity struct {
	clientKey string
	userID    *string
}

// RequestLogger puts a request-scoped logger carrying the request id into the
// context and logs one line per request once the handler returns.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := logger.Get().With(slog.String("request_id", middleware.GetReqID(r.Context())))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), log)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		log.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("user_agent", r.Header.Get("User-Agent")),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)))
	})
}

// Identity resolves the rate-limit client key and optional user id for the
// request. RemoteAddr has already been rewritten by RealIP when proxies are
// trusted.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := identity{clientKey: clientKey(r.RemoteAddr)}
		if uid := strings.TrimSpace(r.Header.Get(UserIDHeader)); uid != "" {
			id.userID = &uid
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey{}, id)))
	})
}

func identityFrom(ctx context.Context) identity {
	id, _ := ctx.Value(identityKey{}).(identity)
	if id.clientKey == "" {
		id.clientKey = "unknown"
	}
	return id
}

func clientKey(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
