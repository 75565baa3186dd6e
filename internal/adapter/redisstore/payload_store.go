package redisstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"taskflow/internal/core/domain"
)

const reportPayloadPrefix = "taskflow:report:"

// PayloadStore keeps rendered report documents keyed by report id.
type PayloadStore struct {
	client *redis.Client
}

func NewPayloadStore(client *redis.Client) *PayloadStore {
	return &PayloadStore{client: client}
}

func (s *PayloadStore) Put(ctx context.Context, id string, payload []byte) error {
	if err := s.client.Set(ctx, reportPayloadPrefix+id, payload, 0).Err(); err != nil {
		return domain.Unavailable("store report payload", err)
	}
	return nil
}

func (s *PayloadStore) Get(ctx context.Context, id string) ([]byte, error) {
	payload, err := s.client.Get(ctx, reportPayloadPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrReportNotFound
		}
		return nil, domain.Unavailable("read report payload", err)
	}
	return payload, nil
}

// Delete removes the payload. A missing key is not an error.
func (s *PayloadStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, reportPayloadPrefix+id).Err(); err != nil {
		return domain.Unavailable("delete report payload", err)
	}
	return nil
}
