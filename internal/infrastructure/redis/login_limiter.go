package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/practo-cms-api/internal/application/ports"
)

var _ ports.LoginLimiter = (*LoginLimiter)(nil)

// reserveAttempt incrementa el contador y devuelve {n, pttl}. La expiración se fija en el
// primer intento de la ventana, o si la clave quedó sin TTL.
var reserveAttempt = goredis.NewScript(`
local n = redis.call("INCR", KEYS[1])
local ttl = redis.call("PTTL", KEYS[1])
if n == 1 or ttl < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {n, ttl}
`)

// LoginLimiter cuenta intentos de login en Redis con ventana fija.
type LoginLimiter struct {
	client      goredis.UniversalClient
	keyPrefix   string
	maxAttempts int
	window      time.Duration
}

// NewLoginLimiter construye el limitador. keyPrefix por defecto: "login_attempts:".
func NewLoginLimiter(client goredis.UniversalClient, keyPrefix string, maxAttempts int, window time.Duration) *LoginLimiter {
	if keyPrefix == "" {
		keyPrefix = "login_attempts:"
	}
	return &LoginLimiter{client: client, keyPrefix: keyPrefix, maxAttempts: maxAttempts, window: window}
}

func (l *LoginLimiter) key(k string) string {
	return l.keyPrefix + strings.ToLower(strings.TrimSpace(k))
}

// Reserve consume un intento con un único script (INCR + PEXPIRE). Las peticiones
// concurrentes ven contadores distintos, así que a lo sumo maxAttempts pasan por ventana.
func (l *LoginLimiter) Reserve(ctx context.Context, k string) (bool, time.Duration, error) {
	if l.maxAttempts <= 0 {
		return true, 0, nil
	}
	key := l.key(k)
	res, err := reserveAttempt.Run(ctx, l.client, []string{key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("redis reserve %s: %w", key, err)
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("redis reserve %s: respuesta inesperada %v", key, res)
	}
	if res[0] <= int64(l.maxAttempts) {
		return true, 0, nil
	}
	return false, time.Duration(res[1]) * time.Millisecond, nil
}

// Reset borra el contador tras un login exitoso.
func (l *LoginLimiter) Reset(ctx context.Context, k string) error {
	key := l.key(k)
	if err := l.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
