package http

import (
	"time"

	"github.com/FernandoLelis/multivendas-backend/internal/application/dto"
	"github.com/FernandoLelis/multivendas-backend/internal/application/inventory"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/entity"
	"github.com/FernandoLelis/multivendas-backend/internal/domain/repository"
	"github.com/gofiber/fiber/v2"
)

// LotHandler entradas de mercadería (lotes), saldo y simulación de costo (protegido).
type LotHandler struct {
	uc *inventory.LotUseCase
}

// NewLotHandler construye el handler.
func NewLotHandler(uc *inventory.LotUseCase) *LotHandler {
	return &LotHandler{uc: uc}
}

func lotInput(in dto.LotRequest) inventory.LotInput {
	var purchasedAt time.Time
	if in.PurchasedAt != nil {
		purchasedAt = in.PurchasedAt.UTC()
	}
	return inventory.LotInput{
		ProductID:       in.ProductID,
		Quantity:        in.Quantity,
		TotalCost:       in.TotalCost,
		PurchaseOrderID: in.PurchaseOrderID,
		Supplier:        in.Supplier,
		Category:        in.Category,
		Notes:           in.Notes,
		PurchasedAt:     purchasedAt,
	}
}

// Create godoc
// @Summary      Registrar lote (compra)
// @Description  El costo unitario es total_cost / quantity con 2 decimales.
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LotRequest  true  "product_id, quantity, total_cost, purchase_order_id, category"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lots [post]
func (h *LotHandler) Create(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	var in dto.LotRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	lot, err := h.uc.RegisterLot(c.UserContext(), tenantID, lotInput(in))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToLotResponse(lot))
}

// Update godoc
// @Summary      Editar lote intacto
// @Description  Solo si ninguna venta consumió del lote; si no, 409 LOT_LOCKED con saldo y cantidad original.
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string          true  "ID del lote"
// @Param        body  body  dto.LotRequest  true  "Datos completos del lote"
// @Success      200   {object}  dto.LotResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [put]
func (h *LotHandler) Update(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	var in dto.LotRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	lot, err := h.uc.EditLot(c.UserContext(), tenantID, c.Params("id"), lotInput(in))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToLotResponse(lot))
}

// Delete godoc
// @Summary      Eliminar lote intacto
// @Tags         lots
// @Security     Bearer
// @Param        id   path  string  true  "ID del lote"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [delete]
func (h *LotHandler) Delete(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	if err := h.uc.DeleteLot(c.UserContext(), tenantID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Obtener lote
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [get]
func (h *LotHandler) GetByID(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	lot, err := h.uc.GetLot(c.UserContext(), tenantID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToLotResponse(lot))
}

// List godoc
// @Summary      Listar lotes
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "Producto"
// @Param        category     query  string  false  "Categoría exacta"
// @Param        supplier     query  string  false  "Proveedor (coincidencia parcial)"
// @Param        low_balance  query  bool    false  "Solo lotes con 0 < saldo < 5"
// @Param        limit        query  int     false  "Límite"  default(100)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.LotListResponse
// @Router       /api/lots [get]
func (h *LotHandler) List(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	f := repository.LotFilter{
		ProductID:  c.Query("product_id"),
		Category:   c.Query("category"),
		Supplier:   c.Query("supplier"),
		LowBalance: c.QueryBool("low_balance", false),
		Limit:      c.QueryInt("limit", 100),
		Offset:     c.QueryInt("offset", 0),
	}
	lots, err := h.uc.ListLots(c.UserContext(), tenantID, f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(lotList(lots, f.Limit, f.Offset))
}

// ListByProduct godoc
// @Summary      Lotes de un producto en orden FIFO
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.LotListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/product/{productId} [get]
func (h *LotHandler) ListByProduct(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	lots, err := h.uc.ListByProduct(c.UserContext(), tenantID, c.Params("productId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(lotList(lots, 0, 0))
}

// Balance godoc
// @Summary      Saldo disponible del producto
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/balance/{productId} [get]
func (h *LotHandler) Balance(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	productID := c.Params("productId")
	available, err := h.uc.AvailableBalance(c.UserContext(), tenantID, productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.BalanceResponse{ProductID: productID, Available: available})
}

// CostPreview godoc
// @Summary      Simular costo FIFO de una venta
// @Description  Recorre los lotes como lo haría el costeo, sin modificar saldos.
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        productId  path   string  true  "ID del producto"
// @Param        quantity   query  int     true  "Unidades a vender"
// @Success      200  {object}  dto.CostPreviewResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/lots/cost-preview/{productId} [get]
func (h *LotHandler) CostPreview(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	preview, err := h.uc.PreviewCost(c.UserContext(), tenantID, c.Params("productId"), c.QueryInt("quantity", 0))
	if err != nil {
		return respondError(c, err)
	}
	out := dto.CostPreviewResponse{
		ProductID: preview.ProductID,
		Quantity:  preview.Quantity,
		TotalCost: preview.TotalCost,
		UnitCost:  preview.UnitCost,
		Draws:     make([]dto.PreviewDrawEntry, 0, len(preview.Draws)),
	}
	for _, d := range preview.Draws {
		out.Draws = append(out.Draws, dto.PreviewDrawEntry{
			LotID:           d.LotID,
			PurchaseOrderID: d.PurchaseOrderID,
			Quantity:        d.Quantity,
			UnitCost:        d.UnitCost,
		})
	}
	return c.JSON(out)
}

// Alerts godoc
// @Summary      Productos por debajo del stock mínimo
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockAlertResponse
// @Router       /api/lots/alerts [get]
func (h *LotHandler) Alerts(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	alerts, err := h.uc.StockAlerts(c.UserContext(), tenantID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockAlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, dto.StockAlertResponse{
			ProductID:      a.ProductID,
			SKU:            a.SKU,
			Name:           a.Name,
			Available:      a.Available,
			MinimumStock:   a.MinimumStock,
			SuggestedOrder: a.SuggestedOrder,
		})
	}
	return c.JSON(out)
}

// Consumptions godoc
// @Summary      Consumos registrados contra el lote
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {array}   dto.ConsumptionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/consumptions [get]
func (h *LotHandler) Consumptions(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return nil
	}
	records, err := h.uc.LotConsumptions(c.UserContext(), tenantID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToConsumptionResponses(records))
}

func lotList(lots []*entity.Lot, limit, offset int) dto.LotListResponse {
	items := make([]dto.LotResponse, 0, len(lots))
	for _, l := range lots {
		items = append(items, dto.ToLotResponse(l))
	}
	return dto.LotListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset, Total: len(items)}}
}
