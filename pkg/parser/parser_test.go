package parser

import (
	"strings"
	"testing"
)

const scholarshipHTML = `<!doctype html>
<html>
<head><title>  Future Leaders   Scholarship </title><style>.x{color:red}</style></head>
<body>
  <nav><a href="/">Home</a></nav>
  <script>var hidden = "do not include";</script>
  <h1>Future Leaders Scholarship</h1>
  <p>Applications are <b>open</b> until   May 1.</p>
  <div hidden>secret text</div>
  <div style="display: none">also hidden</div>
  <ul><li>Award: $5,000</li><li>Eligibility: any accredited college</li></ul>
</body>
</html>`

func TestParse_BodyText(t *testing.T) {
	p := &Parser{}
	page, err := p.Parse("https://a.edu/s1", []byte(scholarshipHTML))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if page.Title != "Future Leaders Scholarship" {
		t.Errorf("Title = %q", page.Title)
	}

	want := strings.Join([]string{
		"Home",
		"Future Leaders Scholarship",
		"Applications are open until May 1.",
		"Award: $5,000",
		"Eligibility: any accredited college",
	}, "\n")
	if page.Text != want {
		t.Errorf("Text =\n%s\nwant\n%s", page.Text, want)
	}

	for _, hidden := range []string{"do not include", "secret text", "also hidden", "color:red"} {
		if strings.Contains(page.Text, hidden) {
			t.Errorf("Text contains hidden content %q", hidden)
		}
	}
}

func TestParse_MainContentFallsBack(t *testing.T) {
	p := &Parser{Mode: ModeMainContent}
	page, err := p.Parse("https://a.edu/s1", []byte(`<html><body><p>tiny</p></body></html>`))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if !strings.Contains(page.Text, "tiny") {
		t.Errorf("Text = %q, want body text", page.Text)
	}
}

func TestParse_MainContentArticle(t *testing.T) {
	para := "<p>The Future Leaders Scholarship awards five thousand dollars to students " +
		"who show leadership in their communities, and applications are reviewed every spring " +
		"by a committee of alumni, faculty, and local business owners from across the state.</p>"
	html := `<html><head><title>Future Leaders</title></head><body>
<div class="sidebar" id="menu">Sponsored menu entry</div>
<article>` + strings.Repeat(para, 6) + `</article>
</body></html>`

	p := &Parser{Mode: ModeMainContent}
	page, err := p.Parse("https://a.edu/s1", []byte(html))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if !strings.Contains(page.Text, "Future Leaders Scholarship awards") {
		t.Errorf("Text = %q, want article text", page.Text)
	}
	if strings.Contains(page.Text, "Sponsored menu entry") {
		t.Errorf("Text = %q, want sidebar dropped", page.Text)
	}
}

func TestNormalizeLines(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  a  b \n\n\n c ", "a b\nc"},
		{"\t\n", ""},
	}
	for _, tt := range tests {
		if got := normalizeLines(tt.in); got != tt.want {
			t.Errorf("normalizeLines(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
