package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"stats-dashboard-service/internal/dto"
	"stats-dashboard-service/internal/service"
	"stats-dashboard-service/internal/view"
)

const leadSaved = "¡Gracias! Te enviamos la lista de precios por email."

type LeadController struct {
	Service *service.LeadService
	Themes  *Themes
	log     *zap.Logger
}

func NewLeadController(s *service.LeadService, themes *Themes, log *zap.Logger) *LeadController {
	return &LeadController{Service: s, Themes: themes, log: log}
}

// GET / — formulario vacío
func (ctl *LeadController) Form(c *gin.Context) {
	c.HTML(http.StatusOK, view.LeadPageName, view.NewLeadPage(ctl.Themes.Current(c)))
}

// POST / — envío del formulario HTML
func (ctl *LeadController) SubmitForm(c *gin.Context) {
	page := view.NewLeadPage(ctl.Themes.Current(c))

	var req dto.LeadRequest
	if err := c.ShouldBind(&req); err != nil {
		page.Form = req
		page.Errors = fieldErrors(err)
		c.HTML(http.StatusBadRequest, view.LeadPageName, page)
		return
	}
	page.Form = req

	if _, err := ctl.Service.Submit(c.Request.Context(), leadInput(c, req)); err != nil {
		_ = c.Error(err)
		page.Failure = true
		c.HTML(http.StatusBadGateway, view.LeadPageName, page)
		return
	}

	page.Success = true
	c.HTML(http.StatusOK, view.LeadPageName, page)
}

// POST /api/leads
func (ctl *LeadController) Create(c *gin.Context) {
	var req dto.LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "JSON inválido"})
			return
		}
		c.JSON(http.StatusBadRequest, dto.ValidationErrorResponse{
			Error:  "datos inválidos",
			Fields: fieldErrors(err),
		})
		return
	}

	lead, err := ctl.Service.Submit(c.Request.Context(), leadInput(c, req))
	if err != nil {
		_ = c.Error(err)
		if errors.Is(err, service.ErrLeadNotSaved) {
			c.JSON(http.StatusBadGateway, gin.H{"error": service.ErrLeadNotSaved.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error interno"})
		return
	}

	c.JSON(http.StatusCreated, dto.LeadResponse{Message: leadSaved, Location: lead.Location})
}

func leadInput(c *gin.Context, req dto.LeadRequest) service.LeadInput {
	return service.LeadInput{
		Email:            req.Email,
		Name:             req.Name,
		Phone:            req.Phone,
		ScreenResolution: req.ScreenResolution,
		UserAgent:        c.Request.UserAgent(),
		Language:         preferredLanguage(c.GetHeader("Accept-Language")),
		ClientIP:         c.ClientIP(),
	}
}

// preferredLanguage se queda con el primer idioma de Accept-Language ("es-AR").
func preferredLanguage(header string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	return tags[0].String()
}

// Nombre del campo en el formulario para cada campo del struct.
var formFields = map[string]string{
	"Email":            "email",
	"Name":             "name",
	"Phone":            "telefono",
	"ScreenResolution": "screenResolution",
}

// fieldErrors traduce los errores del validator a un mensaje por campo.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["form"] = "No pudimos leer los datos enviados"
		return out
	}
	for _, fe := range verrs {
		field, ok := formFields[fe.Field()]
		if !ok {
			field = fe.Field()
		}
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = fieldMessage(field, fe.Tag())
	}
	return out
}

func fieldMessage(field, tag string) string {
	switch {
	case tag == "required" && field == "email":
		return "El email es obligatorio"
	case tag == "required" && field == "name":
		return "El nombre es obligatorio"
	case tag == "required" && field == "telefono":
		return "El teléfono es obligatorio"
	case tag == "email":
		return "Ingresá un email válido"
	case tag == "numeric":
		return "El teléfono solo puede tener números"
	case tag == "max":
		return "El valor es demasiado largo"
	default:
		return "Valor inválido"
	}
}
