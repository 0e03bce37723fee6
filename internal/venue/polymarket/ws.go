package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/polydraft/venues/internal/domain"
)

const (
	// writeWait is the time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// pongWait is the time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// pingPeriod sends pings to the peer at this interval. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// reconnectDelay is the base delay before attempting to reconnect.
	reconnectDelay = 2 * time.Second

	// maxReconnectDelay caps the exponential backoff for reconnection.
	maxReconnectDelay = 60 * time.Second

	// healthySession is how long a connection must stay up for the backoff
	// to start over on the next drop.
	healthySession = 5 * time.Minute
)

// PriceUpdateHandler receives live price updates from the feed.
type PriceUpdateHandler func(domain.VenuePriceUpdate)

// wsSubscribeCmd is the JSON payload sent to subscribe on the market channel.
type wsSubscribeCmd struct {
	Type   string   `json:"type"`
	Assets []string `json:"assets_ids"`
}

// wsPriceMessage covers the market-channel frames that carry a price:
// "last_trade_price" and "price_change".
type wsPriceMessage struct {
	EventType string `json:"event_type"`
	AssetID   string `json:"asset_id"`
	Price     string `json:"price"`
	Timestamp string `json:"timestamp"`
}

// PriceFeed streams live token prices from the Polymarket CLOB market
// WebSocket channel and converts them into VenuePriceUpdates. It reconnects
// with exponential backoff until its context is cancelled.
type PriceFeed struct {
	wsURL    string
	assetIDs []string
	handler  PriceUpdateHandler
	logger   *slog.Logger
}

// NewPriceFeed creates a feed for the given asset (token) ids.
//
// wsURL is the market-channel endpoint, e.g.
// "wss://ws-subscriptions-clob.polymarket.com/ws/market".
func NewPriceFeed(wsURL string, assetIDs []string, handler PriceUpdateHandler, logger *slog.Logger) *PriceFeed {
	if logger == nil {
		logger = slog.Default()
	}
	return &PriceFeed{
		wsURL:    wsURL,
		assetIDs: assetIDs,
		handler:  handler,
		logger:   logger.With(slog.String("component", "polymarket_price_feed")),
	}
}

// Run connects, subscribes, and pumps price messages to the handler until
// the context is cancelled. Connection drops trigger reconnection with
// capped exponential backoff.
func (f *PriceFeed) Run(ctx context.Context) error {
	var delay time.Duration

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		err := f.runOnce(ctx)
		delay = nextReconnectDelay(delay, time.Since(start))
		if err != nil && ctx.Err() == nil {
			f.logger.Warn("price feed disconnected, reconnecting",
				slog.String("error", err.Error()),
				slog.Duration("delay", delay),
			)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// nextReconnectDelay implements the reconnect backoff policy: consecutive
// short-lived sessions double the delay up to maxReconnectDelay, and a
// session that stayed up for healthySession starts the backoff over.
func nextReconnectDelay(prev, session time.Duration) time.Duration {
	if prev == 0 || session >= healthySession {
		return reconnectDelay
	}
	next := prev * 2
	if next > maxReconnectDelay {
		return maxReconnectDelay
	}
	return next
}

// runOnce performs a single connect/subscribe/read session.
func (f *PriceFeed) runOnce(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 15 * time.Second}

	conn, _, err := dialer.DialContext(ctx, f.wsURL, nil)
	if err != nil {
		return fmt.Errorf("polymarket/ws: connect: %w", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(wsSubscribeCmd{Type: "market", Assets: f.assetIDs}); err != nil {
		return fmt.Errorf("polymarket/ws: subscribe: %w", err)
	}

	// Close the connection when the context is cancelled so ReadMessage
	// unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				conn.Close()
				return
			case <-done:
				return
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					conn.Close()
					return
				}
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("polymarket/ws: %w: %v", domain.ErrWSDisconnect, err)
		}
		f.dispatch(data)
	}
}

// dispatch parses a frame and forwards any carried price. The market channel
// delivers both single objects and arrays of them.
func (f *PriceFeed) dispatch(data []byte) {
	var msgs []wsPriceMessage
	if err := json.Unmarshal(data, &msgs); err != nil {
		var single wsPriceMessage
		if err := json.Unmarshal(data, &single); err != nil {
			return
		}
		msgs = []wsPriceMessage{single}
	}

	for _, msg := range msgs {
		if msg.AssetID == "" || msg.Price == "" {
			continue
		}
		switch msg.EventType {
		case "last_trade_price", "price_change":
		default:
			continue
		}

		price, err := strconv.ParseFloat(msg.Price, 64)
		if err != nil {
			continue
		}

		ts := time.Now().UTC()
		if unix, err := strconv.ParseInt(msg.Timestamp, 10, 64); err == nil {
			ts = time.UnixMilli(unix).UTC()
		}

		f.handler(domain.VenuePriceUpdate{
			TokenPrices: map[string]float64{msg.AssetID: price},
			Timestamp:   ts,
		})
	}
}
