package redis_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kislikjeka/warungku/internal/infra/redis"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "report:monthly:2024-07", redis.Key(2024, time.July))
	assert.Equal(t, "report:monthly:2025-12", redis.Key(2025, time.December))
	assert.Equal(t, "report:version:2024-07", redis.VersionKey(2024, time.July))
}
