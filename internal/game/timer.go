package game

import "fmt"

// FormatTime renders whole seconds as zero padded "mm:ss". Minutes are not
// wrapped, so an hour reads "60:00".
func FormatTime(seconds int) string {
	seconds = max(seconds, 0)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
