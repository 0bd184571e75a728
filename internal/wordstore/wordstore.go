package wordstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// ErrInvalidSet reports an empty or malformed set name.
var ErrInvalidSet = errors.New("invalid word set")

// Store keeps named word sets (stopwords, target words) in Redis sets.
type Store struct {
	client *redis.Client
	prefix string
}

// New creates a Store with the provided Redis client.
func New(client *redis.Client) *Store {
	return &Store{client: client, prefix: "textaug:words:"}
}

func (s *Store) key(set string) (string, error) {
	if set == "" || strings.ContainsAny(set, " \t\n") {
		return "", fmt.Errorf("%w: %q", ErrInvalidSet, set)
	}
	return s.prefix + set, nil
}

// Add inserts words into the set.
func (s *Store) Add(ctx context.Context, set string, words ...string) error {
	key, err := s.key(set)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return nil
	}
	members := make([]any, len(words))
	for i, w := range words {
		members[i] = w
	}
	return s.client.SAdd(ctx, key, members...).Err()
}

// Remove deletes a word from the set.
func (s *Store) Remove(ctx context.Context, set, word string) error {
	key, err := s.key(set)
	if err != nil {
		return err
	}
	return s.client.SRem(ctx, key, word).Err()
}

// All returns all words stored in the set. A missing set is empty.
func (s *Store) All(ctx context.Context, set string) ([]string, error) {
	key, err := s.key(set)
	if err != nil {
		return nil, err
	}
	return s.client.SMembers(ctx, key).Result()
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
