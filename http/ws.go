package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"slicealloc/pipeline"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// wsReply 单次上传的应答
type wsReply struct {
	ID      string                      `json:"id,omitempty"`
	Rows    int                         `json:"rows"`
	Results []pipeline.AllocationResult `json:"results,omitempty"`
	Error   string                      `json:"error,omitempty"`
}

// handleWebSocket 处理WebSocket会话：每条消息是一次CSV上传，
// 失败的上传只返回错误，会话继续
func (h *Handlers) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// 被接管的连接沿用服务器的读写超时，需要清除
	conn.SetReadDeadline(time.Time{})
	conn.SetWriteDeadline(time.Time{})
	if h.maxUpload > 0 {
		conn.SetReadLimit(h.maxUpload)
	}

	requestID := GetRequestID(r.Context())
	h.logger.Info("websocket session opened", zap.String("request_id", requestID))

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read error", zap.String("request_id", requestID), zap.Error(err))
			}
			break
		}

		var reply wsReply
		run, err := h.allocator.Run(message)
		if err != nil {
			reply.Error = "Error during prediction: " + err.Error()
		} else {
			reply = wsReply{ID: run.ID, Rows: len(run.Results), Results: run.Results}
		}

		payload, err := json.Marshal(reply)
		if err != nil {
			h.logger.Error("encode websocket reply", zap.String("request_id", requestID), zap.Error(err))
			payload, _ = json.Marshal(wsReply{Error: "Error during prediction: " + err.Error()})
		}

		conn.SetWriteDeadline(time.Now().Add(30 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Warn("websocket write error", zap.String("request_id", requestID), zap.Error(err))
			break
		}
	}

	h.logger.Info("websocket session closed", zap.String("request_id", requestID))
}
