package models

// Persisted keys. Values are JSON encoded.
const (
	KeyAPIKey = "geminiApiKey"
	KeyResume = "resumeText"
	KeyLinks  = "scholarshipLinks"
)
