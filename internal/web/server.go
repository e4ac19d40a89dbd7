package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	units "github.com/docker/go-units"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bigredeye/gradebook/internal/config"
	"github.com/bigredeye/gradebook/internal/store"
	assets "github.com/bigredeye/gradebook/web"
)

type server struct {
	config *config.Config
	logger *zap.Logger
	store  store.Store

	importLimit int64
}

func newServer(config *config.Config, logger *zap.Logger, store store.Store) (*server, error) {
	limit, err := units.RAMInBytes(config.Import.MaxSize)
	if err != nil {
		return nil, errors.Wrapf(err, "Invalid import size limit %q", config.Import.MaxSize)
	}

	return &server{
		config:      config,
		logger:      logger,
		store:       store,
		importLimit: limit,
	}, nil
}

func buildHTMLTemplates(tfs fs.FS, funcMap template.FuncMap) (*template.Template, error) {
	tmpl := template.New("").Funcs(funcMap)
	err := fs.WalkDir(tfs, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			bytes, err := fs.ReadFile(tfs, path)
			if err != nil {
				return err
			}

			if _, err := tmpl.New("/" + path).Parse(string(bytes)); err != nil {
				return errors.Wrapf(err, "Failed to parse template %s", path)
			}
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "Failed to collect html templates")
	}

	return tmpl, nil
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func (s *server) router() (*gin.Engine, error) {
	funcs := template.FuncMap{
		"inc": func(i int) int {
			return i + 1
		},
		"score": formatScore,
	}
	tmpl, err := buildHTMLTemplates(assets.StaticTemplates, funcs)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to build html templates")
	}

	r := gin.New()

	r.Use(ginzap.Ginzap(s.logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(s.logger, true))
	r.Use(requestID)

	r.SetHTMLTemplate(tmpl)

	if err := setupSessions(s, r); err != nil {
		return nil, err
	}
	setupGradesService(s, r)
	setupSheetService(s, r)
	setupApiService(s, r)

	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong "+fmt.Sprint(time.Now().Unix()))
	})

	r.StaticFS("/static", http.FS(assets.StaticContent))

	return r, nil
}
