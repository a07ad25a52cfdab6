package utils

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient обертка над Redis клиентом для удобной работы
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient создает новый Redis клиент
func NewRedisClient(client *redis.Client) *RedisClient {
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
	}
}

// Set сохраняет значение с TTL
func (r *RedisClient) Set(key string, value interface{}, ttl time.Duration) error {
	var data string
	switch v := value.(type) {
	case string:
		data = v
	default:
		jsonData, err := json.Marshal(value)
		if err != nil {
			return err
		}
		data = string(jsonData)
	}

	return r.client.Set(r.ctx, key, data, ttl).Err()
}

// Get получает значение
func (r *RedisClient) Get(key string) (string, error) {
	return r.client.Get(r.ctx, key).Result()
}

// GetJSON получает и парсит JSON значение
func (r *RedisClient) GetJSON(key string, dest interface{}) error {
	data, err := r.client.Get(r.ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

// Delete удаляет ключ
func (r *RedisClient) Delete(key string) error {
	return r.client.Del(r.ctx, key).Err()
}

// AcquireLock берет advisory-лок через SETNX
// Возвращает true, если лок взят этим вызовом
// Используется фоновыми задачами, чтобы два запуска не пересекались
func (r *RedisClient) AcquireLock(key string, ttl time.Duration) bool {
	ok, err := r.client.SetNX(r.ctx, key, "1", ttl).Result()
	if err != nil {
		// Redis недоступен — лок считаем не взятым, решение за вызывающим
		return false
	}
	return ok
}

// ReleaseLock освобождает advisory-лок
func (r *RedisClient) ReleaseLock(key string) {
	r.client.Del(r.ctx, key)
}
