package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-api/internal/api/metrics"
	"github.com/inkpress/blog-api/internal/core/domain"
	"github.com/inkpress/blog-api/internal/core/ports"
)

type subscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type subscribersEnvelope struct {
	Message     string               `json:"message"`
	Count       int                  `json:"count"`
	Subscribers []*domain.Subscriber `json:"subscribers"`
}

// NewsletterHandler handles the newsletter endpoints.
type NewsletterHandler struct {
	service ports.NewsletterService
}

func NewNewsletterHandler(service ports.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{service: service}
}

// Subscribe adds an email to the newsletter list.
//
// @Summary      Subscribe to newsletter
// @Tags         newsletter
// @Accept       json
// @Produce      json
// @Param        body  body      subscribeRequest  true  "Subscriber email"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/newsletter/subscribe [post]
func (h *NewsletterHandler) Subscribe(c echo.Context) error {
	var req subscribeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.Subscribe(c.Request().Context(), req.Email); err != nil {
		return err
	}

	metrics.NewsletterSubscriptionsTotal.Inc()
	return c.JSON(http.StatusCreated, messageResponse{Message: "subscribed successfully"})
}

// ListSubscribers returns the full subscriber list (admin only).
//
// @Summary      List subscribers
// @Tags         newsletter
// @Produce      json
// @Success      200  {object}  subscribersEnvelope
// @Router       /api/newsletter/subscribers [get]
func (h *NewsletterHandler) ListSubscribers(c echo.Context) error {
	subs, err := h.service.ListSubscribers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, subscribersEnvelope{Message: "subscribers fetched successfully", Count: len(subs), Subscribers: subs})
}
