package job

import (
	"os"

	"github.com/relayforge/gateway-console/logger"
)

// RotateLogJob moves the console log into a .prev file and truncates the
// active one, keeping one generation of history.
type RotateLogJob struct{}

func NewRotateLogJob() *RotateLogJob {
	return new(RotateLogJob)
}

// Run implements cron.Job.
func (j *RotateLogJob) Run() {
	logPath := logger.LogPath()
	prevPath := logPath + ".prev"

	if err := os.Truncate(prevPath, 0); err != nil && !os.IsNotExist(err) {
		logger.Warning("rotate log job err:", err)
	}

	prevFile, err := os.OpenFile(prevPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		logger.Warning("rotate log job err:", err)
		return
	}
	defer prevFile.Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		logger.Warning("rotate log job err:", err)
		return
	}
	if _, err := prevFile.Write(data); err != nil {
		logger.Warning("rotate log job err:", err)
	}

	if err := os.Truncate(logPath, 0); err != nil {
		logger.Warning("rotate log job err:", err)
	}
}
