package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopgram/shopgram_backend/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// clientCommand is what the dashboard sends over the socket
type clientCommand struct {
	Action string `json:"action"`
	ShopID string `json:"shopId"`
}

// HandleWebSocket upgrades the connection and serves the live-sync protocol.
// The browser WebSocket API cannot set headers, so the JWT arrives as a
// query parameter instead.
func HandleWebSocket(c echo.Context, hub *Hub) error {
	token := c.QueryParam("token")
	claims, err := middleware.ParseJWT(token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{
		UserID: userID,
		Conn:   conn,
		send:   make(chan Event, 16),
	}

	hub.register <- client
	go client.writePump()

	client.Enqueue(0, Event{
		Type:    EventConnected,
		Message: "WebSocket connection established",
	})

	go readLoop(hub, client)
	return nil
}

func readLoop(hub *Hub, client *Client) {
	defer func() {
		hub.unregister <- client
	}()

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			break
		}

		var cmd clientCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			client.Enqueue(0, Event{Type: EventError, Message: "malformed command"})
			continue
		}

		switch cmd.Action {
		case "subscribe":
			handleSubscribe(hub, client, cmd.ShopID)
		case "unsubscribe":
			hub.Unsubscribe(client)
			client.Enqueue(0, Event{Type: EventUnsubscribed})
		default:
			client.Enqueue(0, Event{Type: EventError, Message: "unknown action: " + cmd.Action})
		}
	}
}

func handleSubscribe(hub *Hub, client *Client, rawShopID string) {
	shopID, err := primitive.ObjectIDFromHex(rawShopID)
	if err != nil {
		client.Enqueue(0, Event{Type: EventError, Message: "invalid shop id"})
		return
	}

	// Only the shop's owner may watch its data
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := hub.shops.GetOwned(ctx, shopID, client.UserID); err != nil {
		log.Printf("WebSocket subscribe denied for user %s on shop %s: %v", client.UserID.Hex(), rawShopID, err)
		client.Enqueue(0, Event{Type: EventError, Message: "shop not found"})
		return
	}

	hub.Subscribe(client, shopID)
}
