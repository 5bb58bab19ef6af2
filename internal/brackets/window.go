package brackets

import "time"

// Window is a half-open UTC day [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// DayWindow returns the UTC day offset days from now. Offset 0 is today,
// 1 is tomorrow and negative offsets look back.
func DayWindow(now time.Time, offset int) Window {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), now.Day()+offset, 0, 0, 0, 0, time.UTC)
	return Window{
		Start: start,
		End:   start.AddDate(0, 0, 1),
	}
}

// MinCloseTS is the inclusive lower close-time bound in Unix seconds.
func (w Window) MinCloseTS() int64 {
	return w.Start.Unix()
}

// MaxCloseTS is the inclusive upper close-time bound in Unix seconds.
func (w Window) MaxCloseTS() int64 {
	return w.End.Unix() - 1
}

// Date formats the window's day as YYYY-MM-DD.
func (w Window) Date() string {
	return w.Start.Format(time.DateOnly)
}
