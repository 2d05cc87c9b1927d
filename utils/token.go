package utils

import (
	"sync"
	"time"
)

// Token yang di-logout disimpan per jti sampai masa berlakunya habis.
var (
	revokedTokens = make(map[string]time.Time)
	revokedMutex  sync.RWMutex
)

func RevokeToken(claims *CustomClaims) {
	if claims == nil || claims.ID == "" {
		return
	}
	expiry := time.Now().Add(jwtTTL)
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}

	revokedMutex.Lock()
	defer revokedMutex.Unlock()
	revokedTokens[claims.ID] = expiry
	pruneRevokedLocked(time.Now())
}

func IsTokenRevoked(id string) bool {
	if id == "" {
		return false
	}
	revokedMutex.RLock()
	defer revokedMutex.RUnlock()

	expiry, exists := revokedTokens[id]
	return exists && time.Now().Before(expiry)
}

func pruneRevokedLocked(now time.Time) {
	for id, expiry := range revokedTokens {
		if now.After(expiry) {
			delete(revokedTokens, id)
		}
	}
}
