package models

// MessageTypeExtractedLinks tags the message the link extractor emits.
const MessageTypeExtractedLinks = "EXTRACTED_LINKS"

// ExtractedLinks is the message sent from the extractor to the dashboard.
type ExtractedLinks struct {
	Type  string   `json:"type"`
	Links []string `json:"links"`
}

// NewExtractedLinks wraps links in an EXTRACTED_LINKS message.
func NewExtractedLinks(links []string) ExtractedLinks {
	if links == nil {
		links = []string{}
	}
	return ExtractedLinks{Type: MessageTypeExtractedLinks, Links: links}
}
