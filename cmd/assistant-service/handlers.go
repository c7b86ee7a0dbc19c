package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/beautypizza/order-assistant/internal/httpx"
	"github.com/beautypizza/order-assistant/internal/menu"
	"github.com/beautypizza/order-assistant/internal/order"
	"github.com/beautypizza/order-assistant/internal/session"
)

// newRouter wires every capability the conversational runtime can invoke.
// The core never assumes who the caller is; an LLM tool loop and a plain
// rule engine hit the same endpoints.
func newRouter(lookup *menu.Lookup, sessions *session.Manager, gw *order.Gateway) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	r.GET("/menu", listMenuHandler(lookup))
	r.GET("/menu/prices", menuPricesHandler(lookup))

	s := r.Group("/sessions/:id")
	{
		s.GET("/draft", getDraftHandler(sessions))
		s.POST("/draft/items", addDraftItemHandler(sessions))
		s.PUT("/draft/customer-name", setCustomerNameHandler(sessions))
		s.PUT("/draft/customer-document", setCustomerDocumentHandler(sessions))
		s.PUT("/draft/address", setDraftAddressHandler(sessions))
		s.POST("/draft/submit", submitDraftHandler(sessions, gw))
		s.POST("/reset", resetDraftHandler(sessions))

		s.GET("/orders", findOrdersHandler(sessions, gw))
		s.POST("/orders/:orderID/select", selectOrderHandler(sessions, gw))
		s.GET("/selected-order/items", selectedOrderItemsHandler(sessions))

		s.POST("/updates/items", queueAddItemHandler(sessions))
		s.POST("/updates/removals", queueRemovalHandler(sessions))
		s.PUT("/updates/address", queueAddressHandler(sessions))
		s.POST("/updates/flush", flushUpdatesHandler(sessions, gw))
	}

	return r
}

func listMenuHandler(lookup *menu.Lookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := lookup.Menu(c.Request.Context())
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "sorry, the menu is unavailable right now")
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": entries})
	}
}

func menuPricesHandler(lookup *menu.Lookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		flavor := c.Query("flavor")
		if flavor == "" {
			httpx.Fail(c, http.StatusBadRequest, "flavor query parameter is required")
			return
		}
		entries, err := lookup.Prices(c.Request.Context(), flavor)
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "sorry, the menu is unavailable right now")
			return
		}
		if len(entries) == 0 {
			// no-match is informational, not an error
			c.JSON(http.StatusOK, gin.H{
				"items":   []menu.Entry{},
				"message": "no flavor on the menu matches " + strconv.Quote(flavor),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": entries})
	}
}

type draftItemRequest struct {
	Name      string          `json:"name"`
	Size      string          `json:"size"`
	Crust     string          `json:"crust"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func addDraftItemHandler(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req draftItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid item payload")
			return
		}
		st := sessions.Get(c.Param("id"))
		st.Draft.AddItem(req.Name, req.Size, req.Crust, req.Quantity, req.UnitPrice)
		c.JSON(http.StatusOK, gin.H{"items": st.Draft.Items, "total": st.Draft.Total()})
	}
}

func setCustomerNameHandler(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid payload")
			return
		}
		sessions.Get(c.Param("id")).Draft.SetCustomerName(req.Name)
		c.Status(http.StatusNoContent)
	}
}

func setCustomerDocumentHandler(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Document string `json:"document"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid payload")
			return
		}
		sessions.Get(c.Param("id")).Draft.SetCustomerDocument(req.Document)
		c.Status(http.StatusNoContent)
	}
}

type addressRequest struct {
	StreetName     string `json:"street_name"`
	Number         int    `json:"number"`
	Complement     string `json:"complement"`
	ReferencePoint string `json:"reference_point"`
}

func setDraftAddressHandler(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid address payload")
			return
		}
		sessions.Get(c.Param("id")).Draft.SetAddress(req.StreetName, req.Number, req.ReferencePoint, req.Complement)
		c.Status(http.StatusNoContent)
	}
}

func getDraftHandler(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := sessions.Get(c.Param("id"))
		c.JSON(http.StatusOK, gin.H{"draft": st.Draft, "total": st.Draft.Total()})
	}
}

func submitDraftHandler(sessions *session.Manager, gw *order.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := sessions.Get(c.Param("id"))
		if err := order.Submit(c.Request.Context(), gw, st.Draft); err != nil {
			var verr *order.ValidationError
			if errors.As(err, &verr) {
				httpx.Fail(c, http.StatusUnprocessableEntity, order.UserMessage(err))
				return
			}
			httpx.Fail(c, http.StatusBadGateway, order.UserMessage(err))
			return
		}
		// the draft is consumed exactly once
		st.ResetDraft()
		c.JSON(http.StatusCreated, gin.H{"message": "order sent for confirmation"})
	}
}

func resetDraftHandler(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessions.Get(c.Param("id")).ResetDraft()
		c.JSON(http.StatusOK, gin.H{"message": "draft cleared, ready for a new order"})
	}
}

func findOrdersHandler(sessions *session.Manager, gw *order.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		document := c.Query("client_document")
		if document == "" {
			httpx.Fail(c, http.StatusBadRequest, "client_document query parameter is required")
			return
		}
		st := sessions.Get(c.Param("id"))

		summaries, err := gw.OrdersByDocument(c.Request.Context(), document)
		if err != nil {
			httpx.Fail(c, http.StatusBadGateway, order.UserMessage(err))
			return
		}
		st.FoundOrders = summaries

		if len(summaries) == 0 {
			c.JSON(http.StatusOK, gin.H{
				"orders":  []order.OrderSummary{},
				"message": "no orders found for this document",
			})
			return
		}

		// A single hit is selected right away; with several the caller
		// must pick one explicitly.
		if len(summaries) == 1 {
			full, err := gw.OrderByID(c.Request.Context(), summaries[0].ID)
			if err != nil {
				httpx.Fail(c, http.StatusBadGateway, order.UserMessage(err))
				return
			}
			st.Select(full)
			c.JSON(http.StatusOK, gin.H{"orders": summaries, "selected_order": full})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"orders":  summaries,
			"message": "more than one order found, select one by id",
		})
	}
}

func selectOrderHandler(sessions *session.Manager, gw *order.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.Atoi(c.Param("orderID"))
		if err != nil {
			httpx.Fail(c, http.StatusBadRequest, "order id must be an integer")
			return
		}
		st := sessions.Get(c.Param("id"))

		full, err := gw.OrderByID(c.Request.Context(), orderID)
		if err != nil {
			var aerr *order.APIError
			if errors.As(err, &aerr) && aerr.Category == order.CategoryNotFound {
				httpx.Fail(c, http.StatusNotFound, order.UserMessage(err))
				return
			}
			httpx.Fail(c, http.StatusBadGateway, order.UserMessage(err))
			return
		}
		st.Select(full)
		c.JSON(http.StatusOK, gin.H{"selected_order": full})
	}
}

func selectedOrderItemsHandler(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := sessions.Get(c.Param("id"))
		if st.SelectedOrder == nil {
			c.JSON(http.StatusOK, gin.H{
				"items":   []order.RemoteItem{},
				"message": "no order selected yet",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": st.SelectedOrder.Items})
	}
}

func queueAddItemHandler(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req draftItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid item payload")
			return
		}
		st := sessions.Get(c.Param("id"))
		st.Pending.QueueAddItem(req.Name, req.Size, req.Crust, req.Quantity, req.UnitPrice)
		c.JSON(http.StatusOK, gin.H{"pending": st.Pending})
	}
}

func queueRemovalHandler(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ItemID int `json:"item_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid payload")
			return
		}
		st := sessions.Get(c.Param("id"))
		st.Pending.QueueRemoveItem(req.ItemID)
		c.JSON(http.StatusOK, gin.H{"pending": st.Pending})
	}
}

func queueAddressHandler(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid address payload")
			return
		}
		st := sessions.Get(c.Param("id"))
		st.Pending.QueueAddressChange(order.Address{
			StreetName:     req.StreetName,
			Number:         req.Number,
			Complement:     req.Complement,
			ReferencePoint: req.ReferencePoint,
		})
		c.JSON(http.StatusOK, gin.H{"pending": st.Pending})
	}
}

func flushUpdatesHandler(sessions *session.Manager, gw *order.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := sessions.Get(c.Param("id"))
		if st.SelectedOrderID == 0 {
			httpx.Fail(c, http.StatusConflict, "no order selected, find an order by document or id first")
			return
		}

		rep, err := order.Flush(c.Request.Context(), gw, st.SelectedOrderID, st.Pending)
		if errors.Is(err, order.ErrNothingPending) {
			c.JSON(http.StatusOK, gin.H{"message": "no pending changes to apply"})
			return
		}
		if err != nil {
			httpx.Fail(c, http.StatusBadGateway, order.UserMessage(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": rep.AllOK(), "results": rep.Lines()})
	}
}
