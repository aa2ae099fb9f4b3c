// Package session lee el token de sesión persistido localmente por el login del backend.
package session

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/jhoicas/Inventario-dashboard/internal/application/ports"
	"github.com/jhoicas/Inventario-dashboard/pkg/config"
	pkgjwt "github.com/jhoicas/Inventario-dashboard/pkg/jwt"
	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
)

var _ ports.SessionStore = (*Store)(nil)

// Store fuente del bearer token: un valor fijo (SESSION_TOKEN) o un archivo que el
// login reescribe. El archivo se relee en cada consulta para ver logins y logouts.
type Store struct {
	static string
	path   string
	now    func() time.Time
	log    *logger.Logger
}

// New construye el store. Token tiene prioridad sobre TokenFile.
func New(cfg config.SessionConfig, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		static: strings.TrimSpace(cfg.Token),
		path:   cfg.TokenFile,
		now:    time.Now,
		log:    log.Named("session"),
	}
}

// WithClock reemplaza el reloj usado para comprobar la expiración (tests).
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Token devuelve el token vigente. ok=false si no hay token o el JWT ya expiró.
// Un token opaco (no JWT) se acepta tal cual: solo el backend puede validarlo.
func (s *Store) Token() (string, bool) {
	token := s.static
	if token == "" {
		token = s.readFile()
	}
	if token == "" {
		return "", false
	}

	if _, err := pkgjwt.Inspect(token, s.now()); err != nil {
		if errors.Is(err, pkgjwt.ErrTokenExpired) {
			s.log.Debug().Msg("token de sesión expirado")
			return "", false
		}
		s.log.Trace().Err(err).Msg("token opaco; se envía sin inspeccionar")
	}
	return token, true
}

func (s *Store) readFile() string {
	if s.path == "" {
		return ""
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("no se pudo leer el token de sesión")
		}
		return ""
	}
	return strings.TrimSpace(string(raw))
}
