package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateID возвращает идентификатор вида prefix_<unix millis>_<hex suffix>.
// Схема устойчива к коллизиям за счёт случайного суффикса, но не претендует
// на криптографическую уникальность.
func GenerateID(prefix string) string {
	suffix := make([]byte, 5)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand на поддерживаемых платформах не возвращает ошибок.
		return fmt.Sprintf("%s_%d_%09d", prefix, time.Now().UnixMilli(), time.Now().UnixNano()%1e9)
	}
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), hex.EncodeToString(suffix)[:9])
}
