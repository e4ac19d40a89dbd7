package web

import (
	"encoding/hex"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	sessionName  = "gradebook"
	requestIDKey = "request_id"
)

func decodeKey(hexKey string, size int) ([]byte, error) {
	if hexKey == "" {
		return securecookie.GenerateRandomKey(size), nil
	}
	return hex.DecodeString(hexKey)
}

// setupSessions installs the cookie store used for flash messages. Missing
// keys are generated, so flashes do not survive a restart in that case.
func setupSessions(s *server, r *gin.Engine) error {
	authKey, err := decodeKey(s.config.Server.Cookies.AuthenticationKey, 64)
	if err != nil {
		return errors.Wrap(err, "Failed to decode hex authenticationKey")
	}
	encryptKey, err := decodeKey(s.config.Server.Cookies.EncryptionKey, 32)
	if err != nil {
		return errors.Wrap(err, "Failed to decode hex encryptionKey")
	}
	store := cookie.NewStore(authKey, encryptKey)
	store.Options(sessions.Options{
		Path:     "/",
		Secure:   s.config.Server.Cookies.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))
	return nil
}

func (s webService) addFlash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	if err := session.Save(); err != nil {
		s.logFor(c).Error("Failed to save session", zap.Error(err))
	}
}

func (s webService) popFlashes(c *gin.Context) []string {
	session := sessions.Default(c)
	flashes := session.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	if err := session.Save(); err != nil {
		s.logFor(c).Error("Failed to save session", zap.Error(err))
	}

	res := make([]string, 0, len(flashes))
	for _, flash := range flashes {
		if msg, ok := flash.(string); ok {
			res = append(res, msg)
		}
	}
	return res
}

func requestID(c *gin.Context) {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = uuid.New().String()
	}
	c.Set(requestIDKey, id)
	c.Header("X-Request-ID", id)
	c.Next()
}
