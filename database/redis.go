package database

import (
	"context"
	"fmt"

	"laundry_manager/config"

	"github.com/redis/go-redis/v9"
)

// Redis backs the OTP session store and the order-event pub/sub channel.
// Shared so multiple server instances see the same OTP state.
var Redis *redis.Client

func ConnectRedis() {
	Redis = redis.NewClient(&redis.Options{
		Addr: config.ConfigOr("REDIS_ADDR", "localhost:6379"),
	})

	if err := Redis.Ping(context.Background()).Err(); err != nil {
		panic("failed to connect redis: " + err.Error())
	}
	fmt.Println("Connection Opened to Redis")
}
