package model

// ScreenTimeUsageEntry is one app's estimated daily usage recovered from a
// usage-summary screenshot.
type ScreenTimeUsageEntry struct {
	AppName       string  `json:"appName"`
	MinutesPerDay float64 `json:"minutesPerDay"`
	Confidence    float64 `json:"confidence"`
}
