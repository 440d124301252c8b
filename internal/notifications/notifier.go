package notifications

import (
	"context"
	"encoding/json"
	"log"
	"runtime/debug"
	"strconv"

	"vendio/internal/models"

	"github.com/redis/go-redis/v9"
)

// Notifier publishes order events into Redis channels. With a nil Redis
// client every publish is a no-op, so single-node deployments without Redis
// simply lose the live feed, nothing else.
type Notifier struct {
	rdb *redis.Client
}

// OrderEvent is the wire shape pushed to dashboard clients.
type OrderEvent struct {
	Type        string  `json:"type"`
	OrderNumber string  `json:"order_number"`
	StoreID     uint    `json:"store_id"`
	Status      string  `json:"status"`
	From        string  `json:"from,omitempty"`
	TotalAmount float64 `json:"total_amount"`
	Currency    string  `json:"currency"`
}

// NewNotifier creates a Notifier using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// StoreChannel derives the Redis channel name for a store's order feed.
func StoreChannel(storeID uint) string {
	return "orders:store:" + strconv.FormatUint(uint64(storeID), 10)
}

func (n *Notifier) publish(ctx context.Context, event OrderEvent) {
	if n == nil || n.rdb == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("order event marshal failed: %v", err)
		return
	}
	if err := n.rdb.Publish(ctx, StoreChannel(event.StoreID), payload).Err(); err != nil {
		log.Printf("order event publish failed: %v", err)
	}
}

// OrderCreated publishes a creation event to the order's store channel.
func (n *Notifier) OrderCreated(ctx context.Context, order *models.Order) {
	n.publish(ctx, OrderEvent{
		Type:        "order_created",
		OrderNumber: order.OrderNumber,
		StoreID:     order.StoreID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Currency:    order.Currency,
	})
}

// OrderStatusChanged publishes a status transition event.
func (n *Notifier) OrderStatusChanged(ctx context.Context, order *models.Order, from string) {
	n.publish(ctx, OrderEvent{
		Type:        "order_status_changed",
		OrderNumber: order.OrderNumber,
		StoreID:     order.StoreID,
		Status:      order.Status,
		From:        from,
		TotalAmount: order.TotalAmount,
		Currency:    order.Currency,
	})
}

// StartOrderSubscriber subscribes to pattern `orders:store:*` and calls
// onMessage for each incoming message.
func (n *Notifier) StartOrderSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "orders:store:*")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in order subscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}
