package storage

import (
	"context"
)

// Store абстрагирует бинарное хранилище документов
// Put обязан вернуть ошибку, если объект по пути уже существует —
// молчаливая перезапись запрещена
type Store interface {
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, path string) error
}
