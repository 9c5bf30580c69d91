package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FlashMessage is a one-shot notice surfaced to the user on the next page load.
type FlashMessage struct {
	Kind    string `json:"kind"` // "success" or "error"
	Message string `json:"message"`
}

const (
	flashCookieName = "chub_flash"
	flashTTL        = 10 * time.Minute
)

type flashEntry struct {
	messages  []FlashMessage
	expiresAt time.Time
}

var (
	flashFallback   = map[string]*flashEntry{}
	flashFallbackMu sync.Mutex
)

func flashKey(id string) string { return "flash:" + id }

// flashID returns the flash identity cookie, creating it when absent.
func flashID(ctx *gin.Context) string {
	if id, err := ctx.Cookie(flashCookieName); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	ctx.SetCookie(flashCookieName, id, int(flashTTL.Seconds()), "/", "", false, true)
	return id
}

// Flash queues a message for the next request of the same client.
func Flash(ctx *gin.Context, kind, message string) {
	id := flashID(ctx)
	msg := FlashMessage{Kind: kind, Message: message}

	if rc := GetRedis(); rc != nil {
		c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		b, _ := json.Marshal(msg)
		if err := rc.RPush(c, flashKey(id), b).Err(); err == nil {
			_ = rc.Expire(c, flashKey(id), flashTTL).Err()
			return
		}
	}

	flashFallbackMu.Lock()
	entry, ok := flashFallback[id]
	if !ok || time.Now().After(entry.expiresAt) {
		entry = &flashEntry{}
		flashFallback[id] = entry
	}
	entry.messages = append(entry.messages, msg)
	entry.expiresAt = time.Now().Add(flashTTL)
	flashFallbackMu.Unlock()
}

// TakeFlashes returns and clears all queued messages for the client.
func TakeFlashes(ctx *gin.Context) []FlashMessage {
	id, err := ctx.Cookie(flashCookieName)
	if err != nil || id == "" {
		return nil
	}

	if rc := GetRedis(); rc != nil {
		c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		raw, err := rc.LRange(c, flashKey(id), 0, -1).Result()
		if err == nil {
			_ = rc.Del(c, flashKey(id)).Err()
			if len(raw) > 0 {
				out := make([]FlashMessage, 0, len(raw))
				for _, r := range raw {
					var m FlashMessage
					if json.Unmarshal([]byte(r), &m) == nil {
						out = append(out, m)
					}
				}
				return out
			}
		}
	}

	flashFallbackMu.Lock()
	defer flashFallbackMu.Unlock()
	entry, ok := flashFallback[id]
	if !ok {
		return nil
	}
	delete(flashFallback, id)
	if time.Now().After(entry.expiresAt) {
		return nil
	}
	return entry.messages
}

// FlashRedirect queues a message and redirects in one step, the standard
// failure flow for missing records and post-submit navigation.
func FlashRedirect(ctx *gin.Context, kind, message, location string) {
	Flash(ctx, kind, message)
	ctx.Redirect(http.StatusFound, location)
}
