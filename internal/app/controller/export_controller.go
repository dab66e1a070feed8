package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/wishwall-backend/internal/app/service"
	apperrors "github.com/ikkim/wishwall-backend/internal/errors"
	"github.com/ikkim/wishwall-backend/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportController struct {
	exportService service.ExportService
}

func NewExportController(exportService service.ExportService) *ExportController {
	return &ExportController{
		exportService: exportService,
	}
}

// ExportWishes streams all wishes as an xlsx workbook
// GET /api/v1/admin/wishes/export
func (ctrl *ExportController) ExportWishes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	buf, err := ctrl.exportService.ExportWishes()
	if err != nil {
		log.Error("Failed to export wishes", err, nil)
		apperrors.InternalError(c, "Failed to export wishes")
		return
	}

	filename := fmt.Sprintf("wishes-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
