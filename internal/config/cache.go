package config

import (
	"log"
	"os"

	"github.com/go-redis/redis/v8"
)

// Redis backs the trip read-through cache. It is optional: when the client is
// nil every cache lookup falls through to the database.
var Redis *redis.Client

func InitRedis() {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		log.Println("REDIS_URL not set – trip cache disabled, using direct reads")
		return
	}

	Redis = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	log.Println("Redis cache initialized:", addr)
}
