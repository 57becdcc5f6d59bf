package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/api/handlers"
)

const (
	msgMissingToken = "требуется токен авторизации"
	msgInvalidToken = "недействительный токен авторизации"
	msgTokenExpired = "срок действия токена истёк"
	msgForbidden    = "недостаточно прав для изменения календаря"
)

var (
	// ErrMissingToken заголовок Authorization отсутствует или не Bearer
	ErrMissingToken = errors.New("auth: missing bearer token")
	// ErrInvalidToken токен не прошёл проверку
	ErrInvalidToken = errors.New("auth: invalid token")
)

type subjectKey struct{}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Authenticator проверяет JWT провайдера аутентификации (HS256)
type Authenticator struct {
	secret   []byte
	audience string
	admins   map[string]struct{}
	logger   Logger
}

// NewAuthenticator создает проверку токенов. Пустой adminSubjects пускает любого с валидным токеном.
func NewAuthenticator(secret, audience string, adminSubjects []string, logger Logger) *Authenticator {
	admins := make(map[string]struct{}, len(adminSubjects))
	for _, s := range adminSubjects {
		if s = strings.TrimSpace(s); s != "" {
			admins[s] = struct{}{}
		}
	}
	return &Authenticator{
		secret:   []byte(secret),
		audience: audience,
		admins:   admins,
		logger:   logger,
	}
}

// Auth пропускает только запросы с валидным токеном администратора
func (a *Authenticator) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, err := a.authenticate(r)
		if err != nil {
			a.logger.Warn("%s %s - unauthorized: %v", r.Method, r.URL.Path, err)
			switch {
			case errors.Is(err, ErrMissingToken):
				handlers.RespondUnauthorized(w, msgMissingToken)
			case errors.Is(err, jwt.ErrTokenExpired):
				handlers.RespondUnauthorized(w, msgTokenExpired)
			default:
				handlers.RespondUnauthorized(w, msgInvalidToken)
			}
			return
		}

		if !a.isAdmin(subject) {
			a.logger.Warn("%s %s - forbidden: sub=%s", r.Method, r.URL.Path, subject)
			handlers.RespondForbidden(w, msgForbidden)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), subject)))
	})
}

// OptionalAuth кладёт subject в контекст, если токен валиден.
// Без токена или с невалидным токеном запрос идёт дальше как публичный.
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, err := a.authenticate(r)
		if err != nil {
			if !errors.Is(err, ErrMissingToken) {
				a.logger.Warn("%s %s - token ignored, serving public view: %v", r.Method, r.URL.Path, err)
			}
			next.ServeHTTP(w, r)
			return
		}
		if !a.isAdmin(subject) {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), subject)))
	})
}

func (a *Authenticator) authenticate(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.audience != "" {
		opts = append(opts, jwt.WithAudience(a.audience))
	}

	token, err := jwt.Parse(strings.TrimSpace(parts[1]), func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("%w: sub claim is required", ErrInvalidToken)
	}
	return subject, nil
}

func (a *Authenticator) isAdmin(subject string) bool {
	if len(a.admins) == 0 {
		return true
	}
	_, ok := a.admins[subject]
	return ok
}

// WithSubject кладёт subject администратора в контекст
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey{}, subject)
}

// GetSubject возвращает subject администратора из контекста
func GetSubject(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey{}).(string)
	return subject, ok && subject != ""
}

// IsAuthenticated true, если запрос пришёл от администратора
func IsAuthenticated(ctx context.Context) bool {
	_, ok := GetSubject(ctx)
	return ok
}
