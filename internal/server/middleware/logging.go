package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	written     int64
	wroteHeader bool
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	if rw, ok := w.(*responseWriter); ok {
		return rw
	}
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

// WriteHeader captures the status code
func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

// Write captures the number of bytes written
func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Unwrap gives http.ResponseController access to the underlying writer
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// SubjectExtractor returns the sub claim of a valid bearer token.
type SubjectExtractor interface {
	ExtractSubject(token string) (string, error)
}

type logOptions struct {
	route    RouteFunc
	subjects SubjectExtractor
}

// LogOption customizes the request log.
type LogOption func(*logOptions)

// WithRoute adds a "route" attribute produced by route.
func WithRoute(route RouteFunc) LogOption {
	return func(o *logOptions) {
		o.route = route
	}
}

// WithSubjects adds a "username" attribute for requests carrying a valid token.
func WithSubjects(subjects SubjectExtractor) LogOption {
	return func(o *logOptions) {
		o.subjects = subjects
	}
}

// LoggingMiddleware создает middleware для логирования HTTP запросов
// Логирует метод, путь, статус, время выполнения, размер ответа и request id
// НЕ логирует sensitive данные (токены, пароли, тела запросов)
func LoggingMiddleware(logger *slog.Logger, opts ...LogOption) func(http.Handler) http.Handler {
	var o logOptions
	for _, opt := range opts {
		opt(&o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := wrapResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)

			// Определяем уровень логирования на основе статуса
			logLevel := slog.LevelInfo
			if wrapped.statusCode >= 500 {
				logLevel = slog.LevelError
			} else if wrapped.statusCode >= 400 {
				logLevel = slog.LevelWarn
			}

			attrs := []any{
				"request_id", RequestIDFromContext(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
			}
			if o.route != nil {
				attrs = append(attrs, "route", o.route(r))
			}
			if username := requestSubject(r, o.subjects); username != "" {
				attrs = append(attrs, "username", username)
			}
			attrs = append(attrs,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"status", wrapped.statusCode,
				"duration_ms", duration.Milliseconds(),
				"bytes_written", wrapped.written,
			)

			logger.Log(r.Context(), logLevel, "HTTP request", attrs...)
		})
	}
}

// requestSubject возвращает имя пользователя из валидного токена; пустая строка,
// если токена нет или он не прошел проверку
func requestSubject(r *http.Request, subjects SubjectExtractor) string {
	if subjects == nil {
		return ""
	}
	token, ok := bearerToken(r)
	if !ok {
		return ""
	}
	subject, err := subjects.ExtractSubject(token)
	if err != nil {
		return ""
	}
	return subject
}

// LoggingWithSkip создает middleware с возможностью пропуска определенных путей
// Полезно для health checks и scrape /metrics
func LoggingWithSkip(logger *slog.Logger, skipPaths []string, opts ...LogOption) func(http.Handler) http.Handler {
	skipMap := make(map[string]bool)
	for _, path := range skipPaths {
		skipMap[path] = true
	}

	return func(next http.Handler) http.Handler {
		logged := LoggingMiddleware(logger, opts...)(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipMap[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			logged.ServeHTTP(w, r)
		})
	}
}
