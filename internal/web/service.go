package web

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bigredeye/gradebook/internal/config"
	lf "github.com/bigredeye/gradebook/internal/logfield"
	"github.com/bigredeye/gradebook/internal/store"
)

type webService struct {
	server *server
	config *config.Config
	store  store.Store
	log    *zap.Logger
}

func newWebService(s *server, module string) webService {
	return webService{s, s.config, s.store, s.logger.With(lf.Module(module))}
}

func (s webService) logFor(c *gin.Context) *zap.Logger {
	return s.log.With(lf.RequestID(c.GetString(requestIDKey)))
}
