package service

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"go.uber.org/zap"

	"stats-dashboard-service/internal/client"
	"stats-dashboard-service/internal/model"
)

// Interfaz que debe implementar el repositorio de leads
type LeadRepository interface {
	Insert(ctx context.Context, lead *model.LeadRecord) error
}

type Notifier interface {
	SendLead(ctx context.Context, n client.LeadNotification) error
}

type Locator interface {
	PublicIP(ctx context.Context) (*string, error)
	City(ctx context.Context, ip string) (*string, error)
}

// ErrLeadNotSaved agrupa las fallas del envío del email y del guardado.
// El usuario solo ve un mensaje genérico.
var ErrLeadNotSaved = errors.New("no se pudo registrar el contacto")

// LeadInput son los datos del formulario ya validados más lo que se toma del pedido.
type LeadInput struct {
	Email            string
	Name             string
	Phone            string
	ScreenResolution string
	UserAgent        string
	Language         string
	ClientIP         string
}

type LeadService struct {
	repo     LeadRepository
	notifier Notifier
	locator  Locator
	now      func() time.Time
	log      *zap.Logger
}

func NewLeadService(repo LeadRepository, notifier Notifier, locator Locator, log *zap.Logger) *LeadService {
	return &LeadService{
		repo:     repo,
		notifier: notifier,
		locator:  locator,
		now:      time.Now,
		log:      log,
	}
}

// Submit envía el email y guarda el lead. Solo devuelve nil si ambas cosas salieron bien.
func (s *LeadService) Submit(ctx context.Context, in LeadInput) (*model.LeadRecord, error) {
	err := s.notifier.SendLead(ctx, client.LeadNotification{
		Email: in.Email,
		Name:  in.Name,
		Phone: in.Phone,
	})
	if err != nil {
		s.log.Error("error enviando email del lead", zap.String("email", in.Email), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrLeadNotSaved, err)
	}

	lead := &model.LeadRecord{
		Email: in.Email,
		Name:  in.Name,
		Phone: in.Phone,
		DeviceInfo: model.DeviceInfo{
			UserAgent:        in.UserAgent,
			DeviceType:       DeviceType(in.UserAgent),
			Language:         in.Language,
			ScreenResolution: in.ScreenResolution,
		},
		Timestamp: s.now().UTC(),
	}

	lead.IPAddress = s.resolveIP(ctx, in.ClientIP)
	if lead.IPAddress != nil {
		city, err := s.locator.City(ctx, *lead.IPAddress)
		if err != nil {
			s.log.Warn("no se pudo obtener la localidad", zap.String("ip", *lead.IPAddress), zap.Error(err))
		}
		lead.Location = city
	}

	if err := s.repo.Insert(ctx, lead); err != nil {
		s.log.Error("error guardando lead", zap.String("email", in.Email), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrLeadNotSaved, err)
	}
	return lead, nil
}

// resolveIP usa la IP del cliente si es pública; si no (proxy local, red
// privada) pregunta al servicio externo. nil si nada funcionó.
func (s *LeadService) resolveIP(ctx context.Context, clientIP string) *string {
	if addr, err := netip.ParseAddr(clientIP); err == nil && isPublic(addr) {
		ip := addr.Unmap().String()
		return &ip
	}
	ip, err := s.locator.PublicIP(ctx)
	if err != nil {
		s.log.Warn("no se pudo obtener la ip pública", zap.Error(err))
		return nil
	}
	return ip
}

func isPublic(addr netip.Addr) bool {
	addr = addr.Unmap()
	return addr.IsGlobalUnicast() && !addr.IsPrivate()
}

// DeviceType clasifica el user agent. El orden importa: el UA del iPad
// también dice "mobile".
func DeviceType(ua string) string {
	ua = strings.ToLower(ua)
	switch {
	case strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad"):
		return "Tablet"
	case strings.Contains(ua, "mobile") || strings.Contains(ua, "android") || strings.Contains(ua, "iphone"):
		return "Mobile"
	default:
		return "Desktop"
	}
}
