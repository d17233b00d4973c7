package controllers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/Kariqs/grocery-api/gateway"
	"github.com/Kariqs/grocery-api/initializers"
	"github.com/Kariqs/grocery-api/models"
	"github.com/Kariqs/grocery-api/services"
)

// maxWebhookBody bounds the payload read before its signature is checked.
const maxWebhookBody = 64 << 10

// NewPaymentGateway builds the card payment gateway from configuration.
// It returns nil when no gateway key is configured. Tests replace it.
var NewPaymentGateway = func() services.PaymentGateway {
	cfg := initializers.Config
	if cfg.StripeSecretKey == "" {
		return nil
	}
	return gateway.NewClient(gateway.Config{
		SecretKey: cfg.StripeSecretKey,
		BaseURL:   cfg.StripeAPIURL,
		Timeout:   cfg.StripeTimeout,
	})
}

func checkoutService() *services.CheckoutService {
	cfg := initializers.Config
	frontend := strings.TrimRight(cfg.FrontendURL, "/")
	return services.NewCheckoutService(initializers.DB, NewPaymentGateway(), services.CheckoutOptions{
		Currency:   cfg.Currency,
		SuccessURL: frontend + "/success",
		CancelURL:  frontend + "/cancel",
	})
}

type checkoutBody struct {
	AddressID uint `json:"addressId"`
}

func CashOnDeliveryOrder(ctx *gin.Context) {
	var body checkoutBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	orders, err := checkoutService().CashOnDelivery(ctx.Request.Context(), currentUserID(ctx), services.CheckoutRequest{
		AddressID: body.AddressID,
		Method:    services.PaymentCashOnDelivery,
	})
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	zap.L().Info("Cash on delivery orders placed",
		zap.Uint("userId", currentUserID(ctx)),
		zap.Int("orders", len(orders)),
	)
	sendSuccess(ctx, http.StatusOK, "Order successfully", orders)
}

// PaymentCheckout opens a hosted payment session for the user's cart.
func PaymentCheckout(ctx *gin.Context) {
	var body checkoutBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	userID := currentUserID(ctx)
	user, err := findUserByID(userID)
	if err != nil {
		respondWithServiceError(ctx, services.ErrUnauthenticated)
		return
	}

	session, err := checkoutService().StartGatewaySession(ctx.Request.Context(), userID, user.Email, services.CheckoutRequest{
		AddressID: body.AddressID,
		Method:    services.PaymentMethodGateway,
	})
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"id": session.ID, "url": session.URL})
}

// StripeWebhook verifies and handles gateway notifications. Once the signature
// checks out the delivery is always acknowledged; processing failures are logged.
func StripeWebhook(ctx *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			zap.L().Warn("Rejected oversized webhook", zap.Int64("limit", tooLarge.Limit))
			sendErrorResponse(ctx, http.StatusRequestEntityTooLarge, "Payload too large")
			return
		}
		sendErrorResponse(ctx, http.StatusBadRequest, "Unable to read body")
		return
	}

	event, err := gateway.ConstructEvent(
		payload,
		ctx.GetHeader(gateway.SignatureHeader),
		initializers.Config.StripeWebhookSecret,
		gateway.DefaultTolerance,
	)
	if err != nil {
		zap.L().Warn("Rejected webhook", zap.Error(err))
		sendErrorResponse(ctx, http.StatusBadRequest, "Webhook Error: "+err.Error())
		return
	}

	switch event.Type {
	case gateway.EventCheckoutSessionCompleted:
		handleSessionCompleted(ctx, event)
	default:
		zap.L().Debug("Unhandled webhook event", zap.String("type", event.Type), zap.String("eventId", event.ID))
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"received": true})
}

func handleSessionCompleted(ctx *gin.Context, event *gateway.Event) {
	session, err := event.CompletedSession()
	if err != nil {
		zap.L().Error("Invalid checkout session", zap.String("eventId", event.ID), zap.Error(err))
		return
	}

	orders, err := checkoutService().CompleteGatewaySession(ctx.Request.Context(), *session)
	switch {
	case errors.Is(err, services.ErrSessionProcessed):
		zap.L().Info("Checkout session already processed", zap.String("sessionId", session.ID))
	case err != nil:
		zap.L().Error("Failed to create orders for session",
			zap.String("sessionId", session.ID),
			zap.String("kind", string(services.KindOf(err))),
			zap.Error(err),
		)
	default:
		zap.L().Info("Orders created from checkout session",
			zap.String("sessionId", session.ID),
			zap.Uint("userId", session.Metadata.UserID),
			zap.Int("orders", len(orders)),
		)
	}
}

// GetOrderDetails lists the user's orders, newest first.
func GetOrderDetails(ctx *gin.Context) {
	var orders []models.Order
	err := initializers.DB.
		Preload("DeliveryAddress").
		Where("user_id = ?", currentUserID(ctx)).
		Order("created_at desc").
		Order("id desc").
		Find(&orders).Error
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch orders", err)
		return
	}
	sendSuccess(ctx, http.StatusOK, "order list", orders)
}
