package notify

import (
	"net/http"

	"golang.org/x/net/websocket"
)

// jsonConn adapts a websocket connection to the hub's Conn interface,
// serializing every event as a JSON frame.
type jsonConn struct{ ws *websocket.Conn }

func (c jsonConn) Send(v any) error { return websocket.JSON.Send(c.ws, v) }
func (c jsonConn) Close() error     { return c.ws.Close() }

// Handler returns the HTTP handler that upgrades dashboard connections
// and parks them in the hub.  The read loop only exists to detect the
// client going away; inbound frames are discarded.
func (h *Hub) Handler() http.Handler {
	return websocket.Handler(func(ws *websocket.Conn) {
		conn := jsonConn{ws: ws}
		h.Register(conn)
		defer h.Unregister(conn)
		for {
			var discard string
			if err := websocket.Message.Receive(ws, &discard); err != nil {
				return
			}
		}
	})
}
