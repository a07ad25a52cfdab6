package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS решается на уровне балансировщика
	},
}

// BoardWebSocket подключает клиента к хабу доски продаж
// GET /ws/board
func BoardWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("⚠️ WebSocket: апгрейд не удался: %v", err)
		return
	}

	BoardHub.AddClient(conn)
	log.Printf("📱 WebSocket: подписчик доски подключен (всего: %d)", BoardHub.GetClientsCount())

	// Читаем до закрытия соединения, входящие сообщения игнорируем
	go func() {
		defer BoardHub.RemoveClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
