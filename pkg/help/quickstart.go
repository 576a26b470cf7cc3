package help

const QuickstartYAML = `# scholarship-tracker Quick Start

setup:
  set_key: |
    scholarship-tracker settings set-key "$GEMINI_API_KEY"
    # or put GEMINI_API_KEY in .env and run without an argument
    scholarship-tracker settings set-key
  check_key: |
    scholarship-tracker settings show
  resume: |
    scholarship-tracker settings set-resume --file resume.txt

collect:
  search: |
    # prints the Google results URL for a query
    scholarship-tracker search "nursing scholarships 2026"
  search_and_import: |
    scholarship-tracker search "nursing scholarships 2026" --import
  import_saved_page: |
    # results page saved from a browser (Ctrl+S)
    scholarship-tracker import --file results.html --base-url "https://www.google.com/search?q=nursing"
  add_one: |
    scholarship-tracker links add "https://example.org/scholarship"

manage:
  list: "scholarship-tracker links list"
  save: "scholarship-tracker links toggle-saved 3"
  remove: "scholarship-tracker links remove 3"
  export: "scholarship-tracker links export --out links.yaml"

review:
  one: "scholarship-tracker review one 2"
  all: "scholarship-tracker review all --delay 2.5s"
  history: "scholarship-tracker review history --url https://example.org/scholarship"
  schedule: "scholarship-tracker review schedule --cron '0 8 * * *'"

statuses:
  open: "Application appears to be open"
  closed: "Past its due date"
  not found: "No place to apply was found"
  ad: "Advert, or limited to one college or university"

notes:
  - "Link numbers start at 1 and match the # column of 'links list'"
  - "Reviews run one at a time with a pause between pages"
  - "A failed review leaves the link's status unchanged"
  - "Every review attempt is kept in the review history"
  - "Global flags: --db, --config, --quiet"
`
