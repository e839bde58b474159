package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"orderdesk/internal/core/apperror"
	"orderdesk/internal/domain/catalog"
	"orderdesk/internal/domain/order"
	"orderdesk/internal/domain/party"
	"orderdesk/internal/infrastructure/http/v1/dto"
)

// PartyService answers header lookups.
type PartyService interface {
	ListParties(ctx context.Context) ([]party.Party, error)
	ListDispatches(ctx context.Context) ([]party.Dispatch, error)
	Addresses(ctx context.Context, cardCode string) (party.AddressSet, error)
}

// CatalogView answers cascade queries.
type CatalogView interface {
	Filter(ctx context.Context, q catalog.Query) (catalog.Options, error)
	Products(q catalog.Query) []catalog.Product
}

// OrderService creates and reads orders.
type OrderService interface {
	Submit(ctx context.Context, payload order.CreateOrderPayload) (order.SubmitResult, error)
	GetByNumber(ctx context.Context, orderNumber string) (*order.Order, error)
}

// OrdersHandler serves the order-entry screen.
type OrdersHandler struct {
	*BaseHandler
	parties   PartyService
	catalog   CatalogView
	orders    OrderService
	companies []string
}

// NewOrdersHandler creates the order-entry handler.
func NewOrdersHandler(base *BaseHandler, parties PartyService, cat CatalogView, orders OrderService, companies []string) *OrdersHandler {
	return &OrdersHandler{
		BaseHandler: base,
		parties:     parties,
		catalog:     cat,
		orders:      orders,
		companies:   companies,
	}
}

// RegisterRoutes mounts the handler on rg.
func (h *OrdersHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/parties", h.Parties)
	rg.GET("/dispatches", h.Dispatches)
	rg.GET("/companies", h.Companies)
	rg.GET("/addresses", h.Addresses)
	rg.GET("/product-filters", h.ProductFilters)
	rg.GET("/products", h.Products)
	rg.POST("/create", h.Create)
	rg.GET("/by-number/:number", h.Get)
}

// Parties handles GET /orders/parties.
func (h *OrdersHandler) Parties(c *gin.Context) {
	parties, err := h.parties.ListParties(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.PartyOptions(parties))
}

// Dispatches handles GET /orders/dispatches.
func (h *OrdersHandler) Dispatches(c *gin.Context) {
	dispatches, err := h.parties.ListDispatches(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	if dispatches == nil {
		dispatches = []party.Dispatch{}
	}
	h.OK(c, dispatches)
}

// Companies handles GET /orders/companies.
func (h *OrdersHandler) Companies(c *gin.Context) {
	h.OK(c, dto.Options(h.companies))
}

// Addresses handles GET /orders/addresses?card_code=.
func (h *OrdersHandler) Addresses(c *gin.Context) {
	var q dto.AddressesQuery
	if !h.BindQuery(c, &q) {
		return
	}
	set, err := h.parties.Addresses(c.Request.Context(), q.CardCode)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromAddressSet(set))
}

// ProductFilters handles GET /orders/product-filters. Before the catalog
// is loaded every list is empty.
func (h *OrdersHandler) ProductFilters(c *gin.Context) {
	var q dto.CatalogQuery
	if !h.BindQuery(c, &q) {
		return
	}
	opts, err := h.catalog.Filter(c.Request.Context(), q.ToQuery())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromOptions(opts))
}

// Products handles GET /orders/products. Products are listed only for a
// fully bound query.
func (h *OrdersHandler) Products(c *gin.Context) {
	var q dto.CatalogQuery
	if !h.BindQuery(c, &q) {
		return
	}
	h.OK(c, dto.FromProducts(h.catalog.Products(q.ToQuery())))
}

// Create handles POST /orders/create.
func (h *OrdersHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	res, err := h.orders.Submit(c.Request.Context(), req.ToPayload())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromSubmitResult(res))
}

// Get handles GET /orders/by-number/:number.
func (h *OrdersHandler) Get(c *gin.Context) {
	number := strings.TrimSpace(c.Param("number"))
	if number == "" {
		h.Error(c, apperror.NewFieldRequired("number"))
		return
	}
	o, err := h.orders.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromOrder(o))
}
