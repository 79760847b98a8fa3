package googleauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"gigcity/internal/domain"
)

const tokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

type tokenInfoVerifier struct {
	client   *http.Client
	clientID string
}

// NewTokenInfoVerifier returns a FederatedVerifier that validates Google ID
// tokens against the tokeninfo endpoint and checks the audience.
func NewTokenInfoVerifier(client *http.Client, clientID string) domain.FederatedVerifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &tokenInfoVerifier{client: client, clientID: clientID}
}

type tokenInfoResponse struct {
	Sub           string `json:"sub"`
	Aud           string `json:"aud"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (v *tokenInfoVerifier) Verify(ctx context.Context, idToken string) (*domain.FederatedIdentity, error) {
	u := tokenInfoURL + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call tokeninfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tokeninfo returned status: %d", resp.StatusCode)
	}

	var data tokenInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode tokeninfo response: %w", err)
	}
	if data.Aud != v.clientID {
		return nil, fmt.Errorf("token audience mismatch")
	}
	if data.Sub == "" || data.Email == "" {
		return nil, fmt.Errorf("tokeninfo response missing identity")
	}
	if data.EmailVerified != "true" {
		return nil, fmt.Errorf("email not verified")
	}
	return &domain.FederatedIdentity{
		Subject: data.Sub,
		Email:   data.Email,
		Name:    data.Name,
		Picture: data.Picture,
	}, nil
}
