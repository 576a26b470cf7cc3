package classifier

// Prompt is the fixed instruction sent ahead of the page text.
const Prompt = "Classify this page as a scholarship opportunity (open) if the application seems to be open, " +
	"closed if you see the scholarship is past its due date, " +
	"not found if you can't find a place to apply for the scholarship, or ad. " +
	"If the scholarship is only available to students of a specific college or university, classify it as an ad. " +
	"Respond with only one of: open, closed, not found, ad."

// BuildPrompt joins the instruction and the page text.
func BuildPrompt(pageText string) string {
	return Prompt + "\n\n" + pageText
}
