package webserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nantokaworks/fontbridge/internal/shared/logger"
	"go.uber.org/zap"
)

const (
	defaultLogLimit = 100
	streamBacklog   = 50
	writeWait       = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	// the service is meant for local clients only
	CheckOrigin: func(r *http.Request) bool { return true },
}

// logClient is one websocket subscriber of the log stream.
type logClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
	send chan logger.LogEntry
}

// logStreamer fans new log entries out to every connected client.
type logStreamer struct {
	clients    map[*logClient]bool
	broadcast  chan logger.LogEntry
	register   chan *logClient
	unregister chan *logClient
}

var (
	streamer     *logStreamer
	streamerOnce sync.Once
)

// startLogStreamer runs the broadcast loop and hooks it into the logger.
func startLogStreamer() *logStreamer {
	streamerOnce.Do(func() {
		streamer = &logStreamer{
			clients:    make(map[*logClient]bool),
			broadcast:  make(chan logger.LogEntry, 64),
			register:   make(chan *logClient),
			unregister: make(chan *logClient),
		}
		go streamer.run()
		logger.SetBroadcastCallback(streamer.publish)
	})
	return streamer
}

func (ls *logStreamer) run() {
	for {
		select {
		case client := <-ls.register:
			ls.clients[client] = true

		case client := <-ls.unregister:
			if _, ok := ls.clients[client]; ok {
				delete(ls.clients, client)
				close(client.send)
			}

		case entry := <-ls.broadcast:
			for client := range ls.clients {
				select {
				case client.send <- entry:
				default:
					// 送信が詰まっているクライアントには送らない
				}
			}
		}
	}
}

// publish never blocks the logging call site.
func (ls *logStreamer) publish(entry logger.LogEntry) {
	select {
	case ls.broadcast <- entry:
	default:
	}
}

// handleLogs returns recent logs
func handleLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// クエリパラメータから件数を取得
	limit := defaultLogLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		if l, err := strconv.Atoi(s); err == nil && l > 0 {
			limit = l
		}
	}

	logs := logger.GetLogBuffer().GetRecent(limit)
	response := map[string]interface{}{
		"logs":      logs,
		"count":     len(logs),
		"timestamp": time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleLogsDownload downloads logs as a file
func handleLogsDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// フォーマット指定が無ければ JSON
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	stamp := time.Now().Format("20060102-150405")
	buffer := logger.GetLogBuffer()

	switch format {
	case "json":
		data, err := buffer.ToJSON()
		if err != nil {
			http.Error(w, "Failed to generate JSON", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=fontbridge-logs-%s.json", stamp))
		w.Write(data)

	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=fontbridge-logs-%s.txt", stamp))
		w.Write([]byte(buffer.ToText()))

	default:
		http.Error(w, "Invalid format. Use 'json' or 'text'", http.StatusBadRequest)
	}
}

// handleLogsStream provides real-time log streaming via WebSocket
func handleLogsStream(w http.ResponseWriter, r *http.Request) {
	ls := startLogStreamer()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("Failed to upgrade to WebSocket", zap.Error(err))
		return
	}

	client := &logClient{
		conn: conn,
		send: make(chan logger.LogEntry, 256),
	}
	// 接続直後に最近のログを送る
	for _, entry := range logger.GetLogBuffer().GetRecent(streamBacklog) {
		client.send <- entry
	}
	// クライアントを登録
	ls.register <- client
	logger.Debug("Log stream client connected", zap.String("remote", r.RemoteAddr))

	done := make(chan struct{})
	go func() {
		client.writePump()
		close(done)
	}()

	// drain client frames until the connection goes away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	ls.unregister <- client
	<-done
	conn.Close()
	logger.Debug("Log stream client disconnected", zap.String("remote", r.RemoteAddr))
}

// writePump forwards entries until the send channel is closed or a write fails.
func (c *logClient) writePump() {
	for entry := range c.send {
		c.mu.Lock()
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := c.conn.WriteJSON(entry)
		c.mu.Unlock()
		if err != nil {
			c.conn.Close()
			// keep draining so the streamer never blocks on this client
			for range c.send {
			}
			return
		}
	}
}

// handleLogsClear clears the log buffer
func handleLogsClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	logger.GetLogBuffer().Clear()
	logger.Info("Log buffer cleared")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Log buffer cleared",
	})
}
