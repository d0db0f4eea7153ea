package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-admin-api/internal/application/dto"
	"github.com/jhoicas/retail-admin-api/internal/application/reports"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler expone el reporte de ingresos (admin/superuser).
type ReportHandler struct {
	uc *reports.IncomeUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.IncomeUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Income godoc
// @Summary      Reporte de ingresos
// @Description  Ventas, cobrado, deuda, ganancia pura, gastos e ingreso neto por día.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (por defecto inicio del mes)"
// @Param        to    query  string  false  "Hasta, exclusivo"
// @Success      200   {object}  dto.IncomeReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/income [get]
func (h *ReportHandler) Income(c *fiber.Ctx) error {
	from, to, err := periodFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.IncomeReport(c.UserContext(), storeScope(c), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// IncomeExcel godoc
// @Summary      Reporte de ingresos en Excel
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        from  query  string  false  "Desde"
// @Param        to    query  string  false  "Hasta, exclusivo"
// @Success      200   {file}  binary
// @Router       /api/reports/income.xlsx [get]
func (h *ReportHandler) IncomeExcel(c *fiber.Ctx) error {
	from, to, err := periodFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	rep, err := h.uc.IncomeReport(c.UserContext(), storeScope(c), from, to)
	if err != nil {
		return respondError(c, err)
	}
	data, err := reports.IncomeExcel(rep)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="ingresos_%s_%s.xlsx"`,
		from.Format("20060102"), to.Format("20060102")))
	return c.Send(data)
}
