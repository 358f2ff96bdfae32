package canonical

// DefaultVocabulary returns the built-in alias table and known-app list.
// Keys and alias targets are in canonical form (lower case, folded).
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Aliases: map[string]string{
			"fb":        "facebook",
			"insta":     "instagram",
			"ig":        "instagram",
			"yt":        "youtube",
			"gmaps":     "google maps",
			"whats app": "whatsapp",
			"g mail":    "gmail",
			"tik tok":   "tiktok",
			"face time": "facetime",
			"app store": "app store",
			"x":         "twitter",
		},
		KnownApps: []string{
			"App Store", "Books", "Calculator", "Calendar", "Camera",
			"Clock", "Contacts", "FaceTime", "Files", "Find My", "Fitness",
			"Health", "Home", "Mail", "Maps", "Messages", "Music", "News",
			"Notes", "Phone", "Photos", "Podcasts", "Reminders", "Safari",
			"Settings", "Shortcuts", "Stocks", "Translate", "TV", "Voice Memos",
			"Wallet", "Watch", "Weather",
			"Amazon", "Discord", "Dropbox", "Duolingo", "Facebook", "Gmail",
			"Google", "Google Drive", "Google Maps", "Instagram", "Netflix",
			"Outlook", "Pinterest", "Reddit", "Signal", "Slack", "Snapchat",
			"Spotify", "Teams", "Telegram", "TikTok", "Twitch", "Twitter",
			"Uber", "WhatsApp", "YouTube", "Zoom",
		},
	}
}
