package repository

import (
	"time"

	"bikeshare-go/pkg/logging"

	"github.com/gomodule/redigo/redis"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// RedisPool 视图缓存连接池，未配置 redis.addr 时为 nil
var RedisPool *redis.Pool

func InitRedis() {
	addr := viper.GetString("redis.addr")
	password := viper.GetString("redis.password")
	if addr == "" {
		logging.Logger.Info("redis.addr not set, view cache disabled")
		return
	}

	RedisPool = &redis.Pool{
		MaxIdle:     10,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			conn, err := redis.Dial("tcp", addr,
				redis.DialConnectTimeout(2*time.Second),
				redis.DialReadTimeout(time.Second),
				redis.DialWriteTimeout(time.Second),
			)
			if err != nil {
				logging.Logger.Error("Failed to connect Redis",
					zap.String("addr", addr),
					zap.Error(err),
				)
				return nil, err
			}

			// 如果设置了密码，执行 AUTH
			if password != "" {
				if _, authErr := conn.Do("AUTH", password); authErr != nil {
					if closeErr := conn.Close(); closeErr != nil {
						logging.Logger.Error("Failed to close redis connection after AUTH failure",
							zap.String("addr", addr),
							zap.Error(closeErr),
						)
					}
					logging.Logger.Error("Redis AUTH failed",
						zap.String("addr", addr),
						zap.Error(authErr),
					)
					return nil, authErr
				}
			}

			logging.Logger.Debug("Redis connection established",
				zap.String("addr", addr),
				zap.Bool("auth", password != ""),
			)
			return conn, nil
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) > time.Minute {
				_, err := c.Do("PING")
				if err != nil {
					logging.Logger.Warn("Redis connection health check failed",
						zap.String("addr", addr),
						zap.Error(err),
					)
				}
				return err
			}
			return nil
		},
	}
}

func closeConn(conn redis.Conn) {
	if err := conn.Close(); err != nil {
		logging.Logger.Error("Failed to close Redis connection",
			zap.Error(err),
			zap.String("operation", "close"),
			zap.String("connection_type", "redis"),
		)
	}
}

// CacheGet 读取缓存，未命中或缓存不可用时返回 false
func CacheGet(key string) ([]byte, bool) {
	if RedisPool == nil {
		return nil, false
	}
	conn := RedisPool.Get()
	defer closeConn(conn)

	value, err := redis.Bytes(conn.Do("GET", key))
	if err != nil {
		if err != redis.ErrNil {
			logging.Logger.Warn("Error getting from Redis",
				zap.String("cache_key", key),
				zap.Error(err))
		}
		return nil, false
	}
	return value, true
}

// CacheSet 写入缓存，失败只记录日志
func CacheSet(key string, value []byte, ttl time.Duration) {
	if RedisPool == nil {
		return
	}
	conn := RedisPool.Get()
	defer closeConn(conn)

	seconds := int(ttl / time.Second)
	if seconds <= 0 {
		seconds = 60
	}
	if _, err := conn.Do("SET", key, value, "EX", seconds); err != nil {
		logging.Logger.Error("设置缓存失败",
			zap.String("cache_key", key),
			zap.Error(err),
		)
	}
}

// CloseRedis 关闭连接池
func CloseRedis() {
	if RedisPool == nil {
		return
	}
	if err := RedisPool.Close(); err != nil {
		logging.Logger.Warn("Redis pool close failed", zap.Error(err))
	}
}
