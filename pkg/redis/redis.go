package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var ErrAudioNotFound = errors.New("audio not cached")

const audioKeyPrefix = "receiving:audio:"

// IRedis caches the last synthesized prompt of each session so the client
// can fetch it after the turn response.
type IRedis interface {
	SetAudio(ctx context.Context, sessionID string, audio []byte, expiration time.Duration) error
	GetAudio(ctx context.Context, sessionID string) ([]byte, error)
	DeleteAudio(ctx context.Context, sessionID string) error
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return NewWithClient(client)
}

func NewWithClient(client *redis.Client) IRedis {
	return &redisClient{client: client}
}

func audioKey(sessionID string) string {
	return audioKeyPrefix + sessionID
}

func (r *redisClient) SetAudio(ctx context.Context, sessionID string, audio []byte, expiration time.Duration) error {
	logrus.Debug(fmt.Sprintf("Caching %d bytes of audio for session %s", len(audio), sessionID))
	if err := r.client.Set(ctx, audioKey(sessionID), audio, expiration).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error caching audio for session %s: %v", sessionID, err))
		return err
	}
	return nil
}

func (r *redisClient) GetAudio(ctx context.Context, sessionID string) ([]byte, error) {
	val, err := r.client.Get(ctx, audioKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		logrus.Debug(fmt.Sprintf("No cached audio for session %s", sessionID))
		return nil, ErrAudioNotFound
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting audio for session %s: %v", sessionID, err))
		return nil, err
	}
	return val, nil
}

func (r *redisClient) DeleteAudio(ctx context.Context, sessionID string) error {
	result, err := r.client.Del(ctx, audioKey(sessionID)).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error deleting audio for session %s: %v", sessionID, err))
		return err
	}

	if result == 0 {
		logrus.Debug(fmt.Sprintf("No cached audio to delete for session %s", sessionID))
	}
	return nil
}
