package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/storefront-backend/internal/services"
)

type CartHandler struct {
	cartService services.CartService
}

func NewCartHandler(cartService services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (ch *CartHandler) GetCart(c *gin.Context) {
	cart, err := ch.cartService.GetActiveCart(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, cart)
}

func (ch *CartHandler) AddItem(c *gin.Context) {
	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "product_not_found", errors.New("product not found"))
		return
	}
	cart, err := ch.cartService.AddItem(c.Request.Context(), productID, req.Quantity)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, cart)
}

func (ch *CartHandler) UpdateItem(c *gin.Context) {
	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "item_not_in_cart", errors.New("product not in cart"))
		return
	}
	cart, err := ch.cartService.UpdateItem(c.Request.Context(), productID, req.Quantity)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, cart)
}

func (ch *CartHandler) RemoveItem(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		RespondError(c, http.StatusNotFound, "item_not_in_cart", errors.New("product not in cart"))
		return
	}
	cart, err := ch.cartService.RemoveItem(c.Request.Context(), productID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, cart)
}

func (ch *CartHandler) ClearCart(c *gin.Context) {
	cart, err := ch.cartService.ClearCart(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, cart)
}

func (ch *CartHandler) Checkout(c *gin.Context) {
	var req struct {
		Address string `json:"address"`
	}
	// an absent body reads as EOF; treat it like {} so a missing address
	// surfaces as address_required, not invalid_body
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	order, err := ch.cartService.Checkout(c.Request.Context(), req.Address)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, order)
}
