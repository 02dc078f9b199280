package websocket

import (
	"context"
	"log/slog"
	"time"

	fws "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	snapshotWait = 5 * time.Second
)

// Snapshot returns the current encoded leaderboard of a round. It is sent once when a
// viewer connects so they don't wait for the next score entry.
type Snapshot func(ctx context.Context, roundID string) ([]byte, error)

// RequireUpgrade answers plain HTTP requests on a websocket route with 426 Upgrade Required.
func RequireUpgrade(c *fiber.Ctx) error {
	if fws.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Serve returns the handler for GET /ws/rounds/:id. The connection is write-only from the
// server's side; anything the viewer sends is read and discarded so close frames and
// dropped connections are noticed.
func (h *Hub) Serve(snapshot Snapshot) fiber.Handler {
	return fws.New(func(conn *fws.Conn) {
		roundID := conn.Params("id")
		client := NewClient(roundID)
		if !h.Register(client) {
			_ = conn.Close()
			return
		}
		defer h.Unregister(client)

		ctx, cancel := context.WithTimeout(context.Background(), snapshotWait)
		data, err := snapshot(ctx, roundID)
		cancel()
		if err != nil {
			h.logger.Warn("live leaderboard snapshot failed", slog.String("round_id", roundID), slog.Any("error", err))
		} else if err := write(conn, fws.TextMessage, data); err != nil {
			return
		}

		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ping := time.NewTicker(pingInterval)
		defer ping.Stop()

		for {
			select {
			case data, ok := <-client.Send:
				if !ok {
					// Dropped by the hub or shutting down.
					_ = write(conn, fws.CloseMessage, nil)
					return
				}
				if err := write(conn, fws.TextMessage, data); err != nil {
					return
				}
			case <-ping.C:
				if err := write(conn, fws.PingMessage, nil); err != nil {
					return
				}
			case <-closed:
				return
			}
		}
	})
}

func write(conn *fws.Conn, kind int, data []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(kind, data)
}
