package verification

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/TaskNestApp/TaskNest/internal/pkg/cache"
)

// Phone verification codes live in Redis with a TTL, keyed per user, so any
// instance can verify a code issued by another. Keeping them in a process
// map would break multi-instance deployments.

const (
	codeKeyFormat = "verification:phone:%d"
	codeTTL       = 10 * time.Minute
	codeDigits    = 6
)

var ErrCodeMismatch = errors.New("verification code mismatch or expired")

// IssueCode generates a numeric code for the user and stores it with a TTL.
// Sending the code over WhatsApp/SMS is the notification layer's job.
func IssueCode(userID uint) (string, error) {
	code, err := randomCode(codeDigits)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf(codeKeyFormat, userID)
	if err := cache.Set(key, code, codeTTL); err != nil {
		return "", fmt.Errorf("failed to store verification code: %w", err)
	}
	return code, nil
}

// VerifyCode checks the submitted code against the stored one and consumes
// it on success.
func VerifyCode(userID uint, submitted string) error {
	key := fmt.Sprintf(codeKeyFormat, userID)
	stored, err := cache.Get(key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCodeMismatch
		}
		return err
	}
	if stored == "" || stored != submitted {
		return ErrCodeMismatch
	}
	return cache.Delete(key)
}

func randomCode(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
