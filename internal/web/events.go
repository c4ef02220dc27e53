package web

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait 单帧写超时
	writeWait = 10 * time.Second

	// pingPeriod 心跳间隔，需小于客户端读超时
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// handleEvents 以 WebSocket 推送页面事件
//
// 订阅在协议升级之前完成，客户端连接建立后不会错过事件。
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, cancel, err := s.page.Subscribe(r.Context())
	if err != nil {
		http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
		return
	}
	defer cancel()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade 已写入错误响应
		logger.Debug("WebSocket 升级失败", "error", err)
		return
	}
	defer conn.Close()

	// 读循环只用于感知客户端关闭
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case evt, ok := <-events:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "page stopped"),
					time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(evt); err != nil {
				logger.Debug("推送页面事件失败", "event", evt.Event, "error", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
