package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"travel-service/internal/gateway"
	"travel-service/internal/service"
	"travel-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	listingService *service.ListingService
	bookingService *service.BookingService
	paymentService *service.PaymentService
	users          UserResolver
}

// NewHandler creates a new HTTP handler
func NewHandler(
	listingService *service.ListingService,
	bookingService *service.BookingService,
	paymentService *service.PaymentService,
	users UserResolver,
) *Handler {
	return &Handler{
		listingService: listingService,
		bookingService: bookingService,
		paymentService: paymentService,
		users:          users,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		// Listing reads are public; writes require a resolved user.
		v1.GET("/listings", h.listListings)
		v1.GET("/listings/:id", h.getListing)

		authed := v1.Group("", UserAuth(h.users))
		{
			authed.POST("/listings", h.createListing)
			authed.PUT("/listings/:id", h.updateListing)
			authed.DELETE("/listings/:id", h.deleteListing)

			authed.POST("/bookings", h.createBooking)
			authed.GET("/bookings", h.listBookings)
			authed.GET("/bookings/:id", h.getBooking)
			authed.PUT("/bookings/:id", h.updateBooking)
			authed.DELETE("/bookings/:id", h.deleteBooking)
			authed.GET("/bookings/:id/payments", h.listBookingPayments)

			authed.POST("/payments/initiate", h.initiatePayment)
			authed.GET("/payments/verify/:tx_ref", h.verifyPayment)
		}
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// respondError maps service errors to HTTP responses. Gateway errors
// keep the provider's status code and body.
func respondError(c *gin.Context, err error, fallback string) {
	var statusErr *gateway.StatusError
	if errors.As(err, &statusErr) {
		c.JSON(statusErr.StatusCode, gin.H{
			"error":   fallback,
			"details": json.RawMessage(statusErr.Body),
		})
		return
	}

	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   fallback,
		"details": err.Error(),
	})
}

// listListings handles listing listings
func (h *Handler) listListings(c *gin.Context) {
	listings, err := h.listingService.ListListings(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list listings")
		return
	}
	c.JSON(http.StatusOK, listings)
}

// getListing handles get listing by ID
func (h *Handler) getListing(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID"})
		return
	}

	listing, err := h.listingService.GetListing(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get listing")
		return
	}
	c.JSON(http.StatusOK, listing)
}

// createListing handles listing creation
func (h *Handler) createListing(c *gin.Context) {
	var req service.ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	listing, err := h.listingService.CreateListing(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create listing")
		return
	}
	c.JSON(http.StatusCreated, listing)
}

// updateListing handles listing updates
func (h *Handler) updateListing(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID"})
		return
	}

	var req service.ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	listing, err := h.listingService.UpdateListing(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update listing")
		return
	}
	c.JSON(http.StatusOK, listing)
}

// deleteListing handles listing deletion
func (h *Handler) deleteListing(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID"})
		return
	}

	if err := h.listingService.DeleteListing(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete listing")
		return
	}
	c.Status(http.StatusNoContent)
}

// createBooking handles booking creation
func (h *Handler) createBooking(c *gin.Context) {
	var req service.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), CurrentUser(c), &req)
	if err != nil {
		respondError(c, err, "Failed to create booking")
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// listBookings handles listing the caller's bookings
func (h *Handler) listBookings(c *gin.Context) {
	bookings, err := h.bookingService.ListBookings(c.Request.Context(), CurrentUser(c).ID)
	if err != nil {
		respondError(c, err, "Failed to list bookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// getBooking handles get booking by ID
func (h *Handler) getBooking(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"), CurrentUser(c).ID)
	if err != nil {
		respondError(c, err, "Failed to get booking")
		return
	}
	c.JSON(http.StatusOK, booking)
}

// updateBooking handles booking updates
func (h *Handler) updateBooking(c *gin.Context) {
	var req service.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	booking, err := h.bookingService.UpdateBooking(c.Request.Context(), c.Param("id"), CurrentUser(c).ID, &req)
	if err != nil {
		respondError(c, err, "Failed to update booking")
		return
	}
	c.JSON(http.StatusOK, booking)
}

// deleteBooking handles booking deletion
func (h *Handler) deleteBooking(c *gin.Context) {
	if err := h.bookingService.DeleteBooking(c.Request.Context(), c.Param("id"), CurrentUser(c).ID); err != nil {
		respondError(c, err, "Failed to delete booking")
		return
	}
	c.Status(http.StatusNoContent)
}

// listBookingPayments handles listing payment attempts for a booking
func (h *Handler) listBookingPayments(c *gin.Context) {
	payments, err := h.paymentService.GetPaymentsForBooking(c.Request.Context(), c.Param("id"), CurrentUser(c).ID)
	if err != nil {
		respondError(c, err, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, payments)
}

// initiatePayment handles payment initiation
func (h *Handler) initiatePayment(c *gin.Context) {
	var req service.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.paymentService.InitiatePayment(c.Request.Context(), CurrentUser(c), &req)
	if err != nil {
		respondError(c, err, "Failed to initiate payment")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// verifyPayment handles payment verification
func (h *Handler) verifyPayment(c *gin.Context) {
	payment, err := h.paymentService.VerifyPayment(c.Request.Context(), c.Param("tx_ref"))
	if err != nil {
		respondError(c, err, "Verification failed")
		return
	}
	c.JSON(http.StatusOK, payment)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
