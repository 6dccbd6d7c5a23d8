package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"stats-dashboard-service/internal/dto"
	"stats-dashboard-service/internal/view"
)

const (
	sessionName = "stats_dashboard"
	themeKey    = "theme"
)

// Themes lee y guarda la preferencia claro/oscuro en una cookie firmada.
type Themes struct {
	store sessions.Store
	log   *zap.Logger
}

func NewThemes(store sessions.Store, log *zap.Logger) *Themes {
	return &Themes{store: store, log: log}
}

// Current devuelve el tema guardado; sin cookie (o con una inválida) es "light".
func (t *Themes) Current(c *gin.Context) string {
	// Get devuelve una sesión nueva aunque la cookie no se pueda decodificar
	sess, _ := t.store.Get(c.Request, sessionName)
	if theme, ok := sess.Values[themeKey].(string); ok && theme == view.ThemeDark {
		return view.ThemeDark
	}
	return view.ThemeLight
}

// POST /preferences/theme
func (t *Themes) SetTheme(c *gin.Context) {
	var req dto.ThemeRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "theme debe ser light o dark"})
		return
	}

	sess, _ := t.store.Get(c.Request, sessionName)
	sess.Values[themeKey] = req.Theme
	if err := sess.Save(c.Request, c.Writer); err != nil {
		t.log.Error("error guardando sesión", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudo guardar la preferencia"})
		return
	}

	c.Redirect(http.StatusSeeOther, safeRedirect(c.PostForm("redirect")))
}

// Solo rutas locales: nada de "//otro-host" ni URLs absolutas.
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}
