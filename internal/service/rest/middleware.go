package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

type contextKey struct{ name string }

var identityKey = contextKey{name: "identity"}

// withIdentity резолвит сессионную cookie в domain.Identity. Битый или
// просроченный токен не является ошибкой запроса: вызывающий просто
// считается анонимным.
func (s *Server) withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := domain.Identity{}

		if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
			parsed, err := s.tokens.Parse(cookie.Value)
			if err != nil {
				s.logger.WithError(err).Debug("session token rejected")
			} else {
				identity = parsed
			}
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// callerIdentity достаёт Identity, положенную withIdentity.
func callerIdentity(r *http.Request) domain.Identity {
	if identity, ok := r.Context().Value(identityKey).(domain.Identity); ok {
		return identity
	}
	return domain.Identity{}
}

// statusRecorder перехватывает код ответа для логов и метрик.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// withObservability пишет структурированный лог запроса и наблюдает
// длительность в гистограмме.
func (s *Server) withObservability(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(started)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}

		s.metrics.ObserveRequest(r.Method, route, rec.status, elapsed)
		s.logger.WithFields(log.Fields{
			"method":      r.Method,
			"route":       route,
			"status":      rec.status,
			"duration_ms": elapsed.Milliseconds(),
		}).Info("request handled")
	})
}
