package stripewebhooks

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"pulse/config"
	"pulse/database"
	"pulse/internal/domain/billing"
	"pulse/internal/domain/plans"
	"pulse/internal/infra/logger"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

// POST /webhook
func StripeWebhook(c *gin.Context) {
	endpointSecret := config.STRIPE_WEBHOOK_SECRET
	if endpointSecret == "" {
		logger.Error("STRIPE_WEBHOOK_SECRET not configured")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Webhook not configured"})
		return
	}

	payload, err := readStripeBody(c, 65536)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		endpointSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		logger.Error("stripe signature verification failed", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	switch event.Type {
	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse subscription"})
			return
		}
		if err := syncSubscription(c, string(event.Type), &sub); err != nil {
			// 500 makes Stripe retry
			logger.Error("stripe subscription sync failed", "event", event.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "received"})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	}
}

func syncSubscription(c *gin.Context, eventType string, sub *stripe.Subscription) error {
	st, err := stateFromSubscription(sub)
	if err != nil {
		logger.Info("ignoring stripe subscription event", "event_type", eventType, "reason", err)
		return nil
	}
	if eventType == "customer.subscription.deleted" {
		st.Status = string(stripe.SubscriptionStatusCanceled)
	}

	tiers := plans.NewPriceTiers(config.STRIPE_PRICE_PLUS, config.STRIPE_PRICE_PLUS_YEARLY)
	updated, err := billing.ApplyStripeState(database.DB.WithContext(c.Request.Context()), tiers, st)
	if errors.Is(err, billing.ErrNoSubscription) {
		logger.Info("no subscription for stripe event", "event_type", eventType, "subscription", st.SubscriptionID)
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("subscription synced", "user_id", updated.UserID, "plan", updated.Plan, "status", updated.Status)
	return nil
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
