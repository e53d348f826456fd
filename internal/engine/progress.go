package engine

import (
	"github.com/schollz/progressbar/v3"
)

func (e *Engine) newProgressBar(maxTicks int) *progressbar.ProgressBar {
	if e.config == nil || e.config.progressOutput == nil {
		return nil
	}
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionSetWriter(e.config.progressOutput),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("Loading price history..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
