package tenant

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultsKey = "notify:tenant:defaults"

// RedisStore keeps the defaults profile in a Redis hash so multiple gateway
// instances share one tenant profile.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context) (Defaults, error) {
	fields, err := s.client.HGetAll(ctx, defaultsKey).Result()
	if err != nil {
		return Defaults{}, err
	}
	return fromFields(fields), nil
}

func (s *RedisStore) Merge(ctx context.Context, partial Defaults) (Defaults, error) {
	fields := toFields(partial)
	if len(fields) > 0 {
		if err := s.client.HSet(ctx, defaultsKey, fields).Err(); err != nil {
			return Defaults{}, err
		}
	}
	return s.Get(ctx)
}

func toFields(d Defaults) map[string]string {
	fields := make(map[string]string)
	set := func(key, value string) {
		if value != "" {
			fields[key] = value
		}
	}
	set("emailAdapter", d.EmailAdapter)
	set("smsAdapter", d.SMSAdapter)
	set("emailIdentityId", d.EmailIdentityID)
	set("smsIdentityId", d.SMSIdentityID)
	set("renderer", d.Renderer)
	set("priority", d.Priority)
	set("encoding", d.Encoding)
	set("bodyType", d.BodyType)
	set("updatedAt", d.UpdatedAt)
	return fields
}

func fromFields(fields map[string]string) Defaults {
	return Defaults{
		EmailAdapter:    fields["emailAdapter"],
		SMSAdapter:      fields["smsAdapter"],
		EmailIdentityID: fields["emailIdentityId"],
		SMSIdentityID:   fields["smsIdentityId"],
		Renderer:        fields["renderer"],
		Priority:        fields["priority"],
		Encoding:        fields["encoding"],
		BodyType:        fields["bodyType"],
		UpdatedAt:       fields["updatedAt"],
	}
}

// Ping verifies the Redis connection with a short timeout.
func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx).Err()
}
