package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-ecommerce/internal/application"
	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ecommerce/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/response"
)

type OrderHandler struct {
	Svc    *application.OrderService
	Logger *logrus.Logger
}

func NewOrderHandler(svc *application.OrderService, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{Svc: svc, Logger: logger}
}

type lineItemRequest struct {
	ProductID string `json:"productId" binding:"required,objectid"`
	Quantity  int    `json:"quantity" binding:"required,gte=1"`
}

type createOrderRequest struct {
	UserID   string            `json:"userId" binding:"required,objectid"`
	Products []lineItemRequest `json:"products" binding:"required,min=1,dive"`
}

type updateOrderRequest struct {
	Status string `json:"status" binding:"required,orderstatus"`
}

// List is scoped by the caller's role: admins see every order.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.Svc.GetOrdersForRequester(c.Request.Context(), c.GetString(middleware.CtxUserEmailKey))
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, orders, "", map[string]any{"count": len(orders)})
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	items := make([]entity.LineItem, 0, len(req.Products))
	for _, it := range req.Products {
		items = append(items, entity.LineItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	o, err := h.Svc.CreateOrder(c.Request.Context(), application.CreateOrderInput{UserID: req.UserID, Items: items})
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	if h.Logger != nil {
		h.Logger.WithFields(logrus.Fields{
			"order_id":   o.ID,
			"user_id":    o.UserID,
			"request_id": c.GetString("request_id"),
		}).Info("order created")
	}
	response.Success(c, http.StatusCreated, o, "order created", nil)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	o, err := h.Svc.UpdateOrderStatus(c.Request.Context(), id, entity.OrderStatus(req.Status))
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	if h.Logger != nil {
		h.Logger.WithFields(logrus.Fields{
			"order_id":   o.ID,
			"status":     o.Status,
			"request_id": c.GetString("request_id"),
		}).Info("order status updated")
	}
	response.Success(c, http.StatusOK, o, "order updated", nil)
}
