// Package notice manages the dismissible site announcement. Dismissal is
// remembered per distinct announcement text, keyed by a content hash, so
// an edited announcement re-surfaces while an identical re-fetch stays
// hidden.
package notice

import (
	"crypto/md5"
	"encoding/hex"
	"sync"
	"time"

	"github.com/relayforge/gateway-console/database/model"
	"github.com/relayforge/gateway-console/logger"

	"gorm.io/gorm"
)

// Board tracks announcement dismissals. A nil db keeps dismissals for the
// running session only.
type Board struct {
	mu        sync.Mutex
	db        *gorm.DB
	dismissed map[string]bool
}

// NewBoard creates a board, loading persisted dismissals.
func NewBoard(db *gorm.DB) *Board {
	b := &Board{
		db:        db,
		dismissed: make(map[string]bool),
	}
	if db != nil {
		var rows []model.NoticeDismissal
		if err := db.Find(&rows).Error; err != nil {
			logger.Warning("failed to load notice dismissals:", err)
		} else {
			for _, row := range rows {
				b.dismissed[row.Hash] = true
			}
		}
	}
	return b
}

func hashText(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

// ShouldShow reports whether the announcement text should be surfaced.
// Empty text never shows.
func (b *Board) ShouldShow(text string) bool {
	if text == "" {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.dismissed[hashText(text)]
}

// Dismiss hides the announcement text. Persistence is best-effort: a
// storage failure still dismisses for the running session.
func (b *Board) Dismiss(text string) {
	if text == "" {
		return
	}
	hash := hashText(text)

	b.mu.Lock()
	already := b.dismissed[hash]
	b.dismissed[hash] = true
	b.mu.Unlock()

	if already || b.db == nil {
		return
	}
	row := model.NoticeDismissal{Hash: hash, DismissedAt: time.Now()}
	if err := b.db.Create(&row).Error; err != nil {
		logger.Warning("failed to persist notice dismissal:", err)
	}
}
