package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lintang-b-s/roadsim/pkg/engine/traffic"
)

const (
	MessageTrafficUpdate    = "traffic_update"
	MessageSimulationStatus = "simulation_status"
	MessageStartSimulation  = "start_traffic_simulation"
	MessageStopSimulation   = "stop_traffic_simulation"
	MessageError            = "error"

	wsWriteWait      = 10 * time.Second
	wsSubscribeQueue = 4
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origins are already filtered by the cors middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// TrafficMessage model info
//
//	@Description	message pushed on the traffic websocket
type TrafficMessage struct {
	Type    string              `json:"type"`
	Edges   []traffic.EdgeState `json:"edges,omitempty"`
	Status  string              `json:"status,omitempty"`
	Running *bool               `json:"running,omitempty"`
	Error   string              `json:"error,omitempty"`
}

type clientMessage struct {
	Type string `json:"type"`
}

// TrafficSocket
//
//	@Summary		traffic websocket
//	@Description	pushes {"type":"traffic_update","edges":[...]} after every tick. clients send
//	@Description	{"type":"start_traffic_simulation"} or {"type":"stop_traffic_simulation"} and get a simulation_status reply
//	@Tags			traffic
//	@Router			/ws/traffic [get]
func (h *RoadNetworkHandler) TrafficSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.websocketClients.Inc()
		defer h.metrics.websocketClients.Dec()
	}

	ctx := r.Context()
	updates, unsubscribe := h.svc.SubscribeTraffic(ctx, wsSubscribeQueue)
	defer unsubscribe()

	out := make(chan TrafficMessage, wsSubscribeQueue)
	writerDone := make(chan struct{})
	readerDone := make(chan struct{})

	// gorilla connections allow one concurrent writer, every write goes through this goroutine.
	go func() {
		defer close(writerDone)
		for {
			var msg TrafficMessage
			select {
			case states, ok := <-updates:
				if !ok {
					return
				}
				msg = TrafficMessage{Type: MessageTrafficUpdate, Edges: states}
			case msg = <-out:
			case <-readerDone:
				return
			}

			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(msg); err != nil {
				slog.Debug("websocket write failed", "error", err)
				// unblocks the reader.
				conn.Close()
				return
			}
		}
	}()

	send := func(msg TrafficMessage) bool {
		select {
		case out <- msg:
			return true
		case <-writerDone:
			return false
		}
	}

	if !send(TrafficMessage{Type: MessageTrafficUpdate, Edges: h.svc.TrafficSnapshot(ctx)}) {
		close(readerDone)
		return
	}

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}

		var reply TrafficMessage
		switch msg.Type {
		case MessageStartSimulation:
			status, err := h.svc.StartSimulation(ctx)
			if err != nil {
				reply = TrafficMessage{Type: MessageError, Error: serviceErrorMessage(err)}
				break
			}
			reply = TrafficMessage{Type: MessageSimulationStatus, Status: status.Status, Running: &status.Running}
		case MessageStopSimulation:
			status := h.svc.StopSimulation(ctx)
			reply = TrafficMessage{Type: MessageSimulationStatus, Status: status.Status, Running: &status.Running}
		default:
			reply = TrafficMessage{Type: MessageError, Error: "unknown message type " + msg.Type}
		}
		if !send(reply) {
			break
		}
	}

	close(readerDone)
	<-writerDone
}
