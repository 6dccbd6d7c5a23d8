// Package client tiene los clientes HTTP de servicios de terceros: el relay de
// emails y la geolocalización por IP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var ErrRelayRejected = errors.New("el relay de email rechazó el envío")

// LeadNotification son los campos que interpola la plantilla del relay.
type LeadNotification struct {
	Email string
	Name  string
	Phone string
}

// EmailRelay envía notificaciones a través de la API REST de EmailJS.
type EmailRelay struct {
	url        string
	serviceID  string
	templateID string
	publicKey  string
	client     *http.Client
}

func NewEmailRelay(url, serviceID, templateID, publicKey string, httpClient *http.Client) *EmailRelay {
	return &EmailRelay{
		url:        url,
		serviceID:  serviceID,
		templateID: templateID,
		publicKey:  publicKey,
		client:     httpClient,
	}
}

type emailRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// SendLead envía el email con la plantilla fija del formulario.
func (r *EmailRelay) SendLead(ctx context.Context, n LeadNotification) error {
	body, err := json.Marshal(emailRequest{
		ServiceID:  r.serviceID,
		TemplateID: r.templateID,
		UserID:     r.publicKey,
		TemplateParams: map[string]string{
			"from_email": n.Email,
			"name":       n.Name,
			"telefono":   n.Phone,
		},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("email relay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %d %s", ErrRelayRejected, resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
