package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// OrderFeedUpgrade rejects non-websocket requests to the order feed route.
func (s *Server) OrderFeedUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// OrderFeedHandler streams live order events for the caller's store. The
// feed is one-way: the dashboard only listens.
func (s *Server) OrderFeedHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		ctx := context.Background()

		// Get userID from context locals (set by AuthRequired middleware)
		userIDVal := conn.Locals("userID")
		if userIDVal == nil {
			log.Printf("order feed: unauthenticated connection attempt")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}
		userID := userIDVal.(uint)

		// The feed ships on by default; FEATURE_FLAGS can turn it off or
		// roll it out to a cohort.
		if s.flags != nil && !s.flags.EnabledDefault("order_feed", userID, true) {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"order feed disabled"}`))
			_ = conn.Close()
			return
		}

		store, err := s.storeRepo.GetByUserID(ctx, userID)
		if err != nil || store == nil {
			log.Printf("order feed: no store for user %d: %v", userID, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"store not found"}`))
			_ = conn.Close()
			return
		}

		if s.orderFeed == nil {
			_ = conn.Close()
			return
		}

		client, err := s.orderFeed.Register(store.ID, conn)
		if err != nil {
			log.Printf("order feed: failed to register store %d: %v", store.ID, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		// ReadPump blocks until the connection closes and unregisters the client.
		client.ReadPump()
	})
}
