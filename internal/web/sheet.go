package web

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	lf "github.com/bigredeye/gradebook/internal/logfield"
	"github.com/bigredeye/gradebook/internal/sheet"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	fieldFile       = "archivo"
)

type sheetService struct {
	webService
	importLimit int64
}

func setupSheetService(server *server, r *gin.Engine) {
	s := sheetService{newWebService(server, "sheet"), server.importLimit}

	r.GET("/exportar", s.export)
	r.POST("/importar", s.upload)
}

func (s sheetService) export(c *gin.Context) {
	keyword := c.Query(paramKeyword)
	grades, err := s.listGrades(c, keyword)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sheet.FileName(keyword)))
	c.Status(http.StatusOK)
	if err := sheet.Export(c.Writer, grades); err != nil {
		s.logFor(c).Error("Failed to export grades", zap.Error(err), lf.Keyword(keyword))
		return
	}
	s.logFor(c).Info("Exported grades", lf.Keyword(keyword), lf.Count(len(grades)))
}

func (s sheetService) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.importLimit)

	header, err := c.FormFile(fieldFile)
	if err != nil {
		s.logFor(c).Info("Missing or oversized upload", zap.Error(err))
		s.addFlash(c, "No se pudo leer el archivo.")
		c.Redirect(http.StatusFound, listingPath)
		return
	}

	file, err := header.Open()
	if err != nil {
		s.fail(c, err)
		return
	}
	defer file.Close()

	grades, rowErrors, err := sheet.Import(file)
	if err != nil {
		s.logFor(c).Info("Rejected upload", zap.Error(err), zap.String("filename", header.Filename))
		s.addFlash(c, "El archivo no es una hoja de cálculo válida.")
		c.Redirect(http.StatusFound, listingPath)
		return
	}
	for _, rowErr := range rowErrors {
		s.logFor(c).Info("Skipped spreadsheet row", zap.Int("row", rowErr.Row), zap.String("reason", rowErr.Message))
	}

	saved := 0
	for i := range grades {
		if _, err := s.store.SaveGrade(c.Request.Context(), &grades[i]); err != nil {
			s.fail(c, err)
			return
		}
		saved++
	}

	s.logFor(c).Info("Imported grades", lf.Count(saved), zap.Int("skipped", len(rowErrors)))
	s.addFlash(c, fmt.Sprintf("Importadas %d calificaciones, %d filas con errores.", saved, len(rowErrors)))
	c.Redirect(http.StatusFound, listingPath)
}
