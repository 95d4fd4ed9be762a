package user

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/config"
)

// GoogleVerifier проверяет Google ID token и возвращает email + имя
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (email, name string, err error)
}

const tokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// HTTPGoogleVerifier валидирует токен через tokeninfo endpoint
type HTTPGoogleVerifier struct {
	clientID string
	client   *http.Client
}

func NewGoogleVerifier(cfg config.GoogleConfig) *HTTPGoogleVerifier {
	return &HTTPGoogleVerifier{
		clientID: cfg.ClientID,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *HTTPGoogleVerifier) Verify(ctx context.Context, idToken string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		tokenInfoURL+"?id_token="+url.QueryEscape(idToken), nil)
	if err != nil {
		return "", "", fmt.Errorf("build tokeninfo request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("call tokeninfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("google token rejected (status %d)", resp.StatusCode)
	}

	var info struct {
		Aud           string `json:"aud"`
		Email         string `json:"email"`
		EmailVerified string `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", "", fmt.Errorf("decode tokeninfo response: %w", err)
	}

	if v.clientID != "" && info.Aud != v.clientID {
		return "", "", fmt.Errorf("google token audience mismatch")
	}
	if info.EmailVerified != "true" {
		return "", "", fmt.Errorf("google email not verified")
	}

	return info.Email, info.Name, nil
}
