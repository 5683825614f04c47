package handler

import (
	"context"
	"encoding/json"
	"log"

	"laundry_manager/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

const orderEventsChannel = "orders:events"

// OrderEvent is broadcast to staff dashboards whenever an order is created or
// transitions status/payment status.
type OrderEvent struct {
	Type          string `json:"type"` // created | status | payment
	OrderNumber   string `json:"orderNumber"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

// PublishOrderEvent pushes an event through redis so every server instance
// fans it out to its connected clients. Best effort: a dropped event only
// delays the dashboard until its next full reload.
func PublishOrderEvent(event OrderEvent) {
	if database.Redis == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("order event marshal: %v", err)
		return
	}
	if err := database.Redis.Publish(context.Background(), orderEventsChannel, payload).Err(); err != nil {
		log.Printf("order event publish: %v", err)
	}
}

// OrderFeed streams order events to a staff/admin websocket client. Each
// connection holds its own redis subscription.
func OrderFeed(c *websocket.Conn) {
	sessionID := uuid.New().String()
	defer c.Close()

	pubsub := database.Redis.Subscribe(context.Background(), orderEventsChannel)
	defer pubsub.Close()

	log.Printf("order feed client connected: %s", sessionID)

	// Drain reads so close frames are handled.
	go func() {
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				pubsub.Close()
				return
			}
		}
	}()

	for msg := range pubsub.Channel() {
		if err := c.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
			log.Printf("order feed client %s dropped: %v", sessionID, err)
			return
		}
	}
}
