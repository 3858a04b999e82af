package server

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"mercator-hq/roundtable/pkg/config"
	"mercator-hq/roundtable/pkg/telemetry/logging"
)

var (
	errMissingKey = errors.New("missing API key")
	errInvalidKey = errors.New("invalid API key")
)

// keyValidator checks API keys in constant time. Keys are stored as SHA-256
// digests so every comparison has the same length.
type keyValidator struct {
	digests [][sha256.Size]byte
}

func newKeyValidator(keys []string) *keyValidator {
	v := &keyValidator{digests: make([][sha256.Size]byte, 0, len(keys))}
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			v.digests = append(v.digests, sha256.Sum256([]byte(k)))
		}
	}
	return v
}

func (v *keyValidator) valid(key string) bool {
	digest := sha256.Sum256([]byte(key))
	ok := 0
	for i := range v.digests {
		ok |= subtle.ConstantTimeCompare(digest[:], v.digests[i][:])
	}
	return ok == 1
}

// extractKey reads the key from the configured header, stripping the scheme
// prefix when one is configured.
func extractKey(r *http.Request, cfg config.AuthConfig) (string, error) {
	value := strings.TrimSpace(r.Header.Get(cfg.Header))
	if value == "" {
		return "", errMissingKey
	}
	if cfg.Scheme == "" {
		return value, nil
	}
	scheme, key, ok := strings.Cut(value, " ")
	if !ok || !strings.EqualFold(scheme, cfg.Scheme) || strings.TrimSpace(key) == "" {
		return "", errMissingKey
	}
	return strings.TrimSpace(key), nil
}

// authMiddleware rejects requests without a valid API key with 401.
func authMiddleware(cfg config.AuthConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	validator := newKeyValidator(cfg.Keys)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, err := extractKey(r, cfg)
			if err == nil && !validator.valid(key) {
				err = errInvalidKey
			}
			if err != nil {
				logging.FromContext(r.Context(), logger).Warn("request rejected",
					"error", err,
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
				)
				if cfg.Scheme != "" {
					w.Header().Set("WWW-Authenticate", cfg.Scheme)
				}
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
