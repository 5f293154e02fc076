// Package session wraps the shell's browser cookie: the last logical path
// restored on reload and one-shot flash notices for user-initiated
// actions.
package session

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	lastPathKey = "LAST_PATH"
	flashKey    = "FLASH"
)

// SetLastPath remembers the shell's logical path across reloads.
func SetLastPath(c *gin.Context, path string) error {
	s := sessions.Default(c)
	s.Set(lastPathKey, path)
	return s.Save()
}

// GetLastPath returns the remembered logical path, or "/" when none is set.
func GetLastPath(c *gin.Context) string {
	s := sessions.Default(c)
	if obj := s.Get(lastPathKey); obj != nil {
		if path, ok := obj.(string); ok && path != "" {
			return path
		}
	}
	return "/"
}

// AddFlash queues a one-shot notice for the next state request.
func AddFlash(c *gin.Context, msg string) error {
	s := sessions.Default(c)
	s.AddFlash(msg, flashKey)
	return s.Save()
}

// TakeFlashes returns and clears the queued notices.
func TakeFlashes(c *gin.Context) []string {
	s := sessions.Default(c)
	raw := s.Flashes(flashKey)
	if len(raw) == 0 {
		return nil
	}
	_ = s.Save()
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}

// SetMaxAge configures the shell cookie lifetime in seconds.
func SetMaxAge(c *gin.Context, maxAge int) error {
	s := sessions.Default(c)
	s.Options(sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
	})
	return s.Save()
}
