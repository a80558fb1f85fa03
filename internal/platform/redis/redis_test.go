package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"yamdb-api/internal/config"
)

func TestNewUnreachable(t *testing.T) {
	client, err := New(context.Background(), config.RedisConfig{Addr: "localhost:1"})
	assert.Nil(t, client)
	assert.ErrorContains(t, err, "ping redis localhost:1 failed")
}
