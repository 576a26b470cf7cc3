package models

// Page is the rendered text of a loaded page.
type Page struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Truncate returns at most limit runes of the page text.
func (p *Page) Truncate(limit int) string {
	if limit <= 0 {
		return p.Text
	}
	runes := []rune(p.Text)
	if len(runes) <= limit {
		return p.Text
	}
	return string(runes[:limit])
}
