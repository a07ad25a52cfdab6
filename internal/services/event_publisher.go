package services

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// eventsTopic единый топик событий бэк-офиса
const eventsTopic = "backoffice.events"

// EventPublisher публикует доменные события в Kafka
// (импорт полисов, начисления, движения по доске)
// nil-издатель допустим: события просто не публикуются
type EventPublisher struct {
	writer *kafka.Writer
}

// createKafkaDialer создает dialer для Kafka с поддержкой SASL/PLAIN и TLS (для Aiven)
func createKafkaDialer(username, password, caCert string) *kafka.Dialer {
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}

	if username != "" && password != "" {
		dialer.SASLMechanism = plain.Mechanism{
			Username: username,
			Password: password,
		}
		log.Printf("🔐 Kafka: SASL/PLAIN аутентификация включена (username: %s)", username)
	}

	tlsConfig := &tls.Config{}
	if caCert != "" {
		caCertPool := x509.NewCertPool()
		if ok := caCertPool.AppendCertsFromPEM([]byte(caCert)); ok {
			tlsConfig.RootCAs = caCertPool
			log.Printf("🔒 Kafka: TLS с CA сертификатом включен")
		} else {
			log.Printf("⚠️ Kafka: не удалось распарсить CA сертификат, используем системные сертификаты")
		}
	}

	// SASL всегда требует TLS (Aiven); при указанном CA тоже включаем
	if dialer.SASLMechanism != nil || caCert != "" {
		dialer.TLS = tlsConfig
	}

	return dialer
}

// NewEventPublisher создает издатель событий
// Возвращает nil, если брокеры не настроены — события отключены
func NewEventPublisher(brokers, username, password, caCert string) *EventPublisher {
	if brokers == "" {
		log.Printf("⚠️ Kafka: брокеры не настроены, публикация событий отключена")
		return nil
	}

	brokerList := strings.Split(brokers, ",")
	for i := range brokerList {
		brokerList[i] = strings.TrimSpace(brokerList[i])
	}

	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      brokerList,
		Topic:        eventsTopic,
		Balancer:     &kafka.LeastBytes{},
		Dialer:       createKafkaDialer(username, password, caCert),
		BatchTimeout: 100 * time.Millisecond,
	})

	log.Printf("✅ Kafka: издатель событий инициализирован (топик: %s)", eventsTopic)
	return &EventPublisher{writer: writer}
}

// Publish публикует событие fire-and-forget
// Ошибка публикации логируется и не влияет на основной поток
func (p *EventPublisher) Publish(eventType string, payload interface{}) {
	event := map[string]interface{}{
		"type":      eventType,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"payload":   payload,
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("⚠️ Kafka: не удалось сериализовать событие %s: %v", eventType, err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := p.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(eventType),
			Value: data,
		}); err != nil {
			log.Printf("⚠️ Kafka: не удалось опубликовать событие %s: %v", eventType, err)
		}
	}()
}

// Close закрывает writer
func (p *EventPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
