package middleware

import (
	"context"
	"net/http"
	"time"
)

// MaxBodyBytes - предел размера тела запроса
const MaxBodyBytes = 1 << 20

// TimeoutMiddleware ограничивает время обработки запроса: дедлайн контекста доходит до хранилища
func TimeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BodyLimitMiddleware обрезает тело запроса до MaxBodyBytes; чтение сверх предела вернёт ошибку
func BodyLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
		next.ServeHTTP(w, r)
	})
}
