package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrUserDisabled = errors.New("user disabled")
)

// Servicio que consulta al microservicio externo de autenticación.
type AuthService struct {
	authURL string
	client  *http.Client
}

type AuthUser struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
	Login       string   `json:"login"`
	Enabled     bool     `json:"enabled"`
}

func NewAuthService(authURL string, httpClient *http.Client) *AuthService {
	return &AuthService{authURL: authURL, client: httpClient}
}

// Verifica si el usuario tiene permiso de administrador.
func (a *AuthService) IsAdmin(user *AuthUser) bool {
	return slices.Contains(user.Permissions, "admin")
}

// Valida el token consultando a /users/current del microservicio de auth.
func (a *AuthService) ValidateToken(ctx context.Context, token string) (*AuthUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/users/current", a.authURL), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: auth respondió %d", ErrInvalidToken, resp.StatusCode)
	}

	var user AuthUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode auth user: %w", err)
	}

	if !user.Enabled {
		return nil, ErrUserDisabled
	}

	return &user, nil
}
