package http

import (
	"fmt"
	"time"

	"github.com/FernandoLelis/multivendas-backend/internal/application/dto"
	"github.com/FernandoLelis/multivendas-backend/internal/application/sales"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/repository"
	"github.com/gofiber/fiber/v2"
)

// SaleHandler ventas de marketplace con costeo FIFO (protegido).
type SaleHandler struct {
	uc        *sales.UseCase
	statement *sales.StatementUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.UseCase, statement *sales.StatementUseCase) *SaleHandler {
	return &SaleHandler{uc: uc, statement: statement}
}

func saleInput(in dto.SaleRequest) sales.SaleInput {
	var soldAt time.Time
	if in.SoldAt != nil {
		soldAt = in.SoldAt.UTC()
	}
	return sales.SaleInput{
		OrderID:                in.OrderID,
		ProductID:              in.ProductID,
		Platform:               in.Platform,
		Quantity:               in.Quantity,
		SoldAt:                 soldAt,
		SellPrice:              in.SellPrice,
		ShippingPaidByCustomer: in.ShippingPaidByCustomer,
		ShippingCost:           in.ShippingCost,
		PlatformFee:            in.PlatformFee,
		OperatingExpenses:      in.OperatingExpenses,
		Notes:                  in.Notes,
	}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Persiste la venta y consume los lotes en orden FIFO en una sola transacción.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaleRequest  true  "Datos de la venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	var in dto.SaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	sale, err := h.uc.Create(c.UserContext(), tenantID, saleInput(in))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToSaleResponse(sale))
}

// Update godoc
// @Summary      Editar venta
// @Description  product_id y quantity no pueden cambiar (409 IMMUTABLE_FIELD).
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "ID de la venta"
// @Param        body  body  dto.SaleRequest  true  "Datos editables"
// @Success      200   {object}  dto.SaleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [put]
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	var in dto.SaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	sale, err := h.uc.Update(c.UserContext(), tenantID, c.Params("id"), saleInput(in))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToSaleResponse(sale))
}

// Delete godoc
// @Summary      Eliminar venta
// @Description  Devuelve las unidades a los lotes de origen y borra los consumos antes que la venta.
// @Tags         sales
// @Security     Bearer
// @Param        id   path  string  true  "ID de la venta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	if err := h.uc.Delete(c.UserContext(), tenantID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	sale, err := h.uc.Get(c.UserContext(), tenantID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToSaleResponse(sale))
}

// GetByOrderID godoc
// @Summary      Buscar venta por número de pedido
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        orderId  path  string  true  "Número de pedido del marketplace"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/order/{orderId} [get]
func (h *SaleHandler) GetByOrderID(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	sale, err := h.uc.GetByOrderID(c.UserContext(), tenantID, c.Params("orderId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToSaleResponse(sale))
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        platform    query  string  false  "AMAZON | MERCADO_LIVRE | SHOPEE"
// @Param        product_id  query  string  false  "Producto"
// @Param        from        query  string  false  "Desde (YYYY-MM-DD o RFC3339)"
// @Param        to          query  string  false  "Hasta inclusive (YYYY-MM-DD o RFC3339)"
// @Param        limit       query  int     false  "Límite"  default(100)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.SaleListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	from, err := parseDay(c.Query("from"), false)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	to, err := parseDay(c.Query("to"), true)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	f := repository.SaleFilter{
		Platform:  c.Query("platform"),
		ProductID: c.Query("product_id"),
		From:      from,
		To:        to,
		Limit:     c.QueryInt("limit", 100),
		Offset:    c.QueryInt("offset", 0),
	}
	list, err := h.uc.List(c.UserContext(), tenantID, f)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, dto.ToSaleResponse(s))
	}
	return c.JSON(dto.SaleListResponse{Items: items, Page: dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: len(items)}})
}

// Calculations godoc
// @Summary      Campos derivados de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.CalculationsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/calculations [get]
func (h *SaleHandler) Calculations(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	f, err := h.uc.Calculations(c.UserContext(), tenantID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CalculationsResponse{
		SaleID:            f.SaleID,
		CostOfGoodsSold:   f.CostOfGoodsSold,
		OperatingExpenses: f.OperatingExpenses,
		FinancialsResponse: dto.FinancialsResponse{
			Revenue:       f.Revenue,
			EffectiveCost: f.EffectiveCost,
			GrossProfit:   f.GrossProfit,
			NetProfit:     f.NetProfit,
			ROI:           f.ROI,
		},
	})
}

// Consumptions godoc
// @Summary      Registros de consumo FIFO de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {array}   dto.ConsumptionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/consumptions [get]
func (h *SaleHandler) Consumptions(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	records, err := h.uc.Consumptions(c.UserContext(), tenantID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToConsumptionResponses(records))
}

// Statement godoc
// @Summary      Demostrativo de costo de la venta (PDF)
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/statement.pdf [get]
func (h *SaleHandler) Statement(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	pdf, filename, err := h.statement.Render(c.UserContext(), tenantID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, filename))
	return c.Send(pdf)
}

// parseDay acepta YYYY-MM-DD o RFC3339. Una fecha sin hora usada como límite superior
// cubre el día completo.
func parseDay(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("fecha inválida %q: use YYYY-MM-DD o RFC3339", raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
