// Package valkeykv stores key-value blobs in Valkey (Redis-compatible)
package valkeykv

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"
)

// Store implements kvstore.Store using Valkey GET/SET without expiry
type Store struct {
	client valkey.Client
	prefix string
}

// New connects to the Valkey server at addr, all keys are stored with the
// given prefix
func New(addr, prefix string) (*Store, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}
	return &Store{client: client, prefix: prefix}, nil
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(key)).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	cmd := s.client.Do(ctx, s.client.B().Set().Key(s.key(key)).Value(valkey.BinaryString(value)).Build())
	return cmd.Error()
}

func (s *Store) Close() error {
	s.client.Close()
	return nil
}
