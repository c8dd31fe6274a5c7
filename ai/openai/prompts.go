package openai

import "fmt"

// explanationSystemPrompt instructs the model to justify a match briefly.
const explanationSystemPrompt = "Explain why this campfire is similar to the search criteria. " +
	"Give me a 2 short sentence description"

const explanationPromptTemplate = `You are a helpful assistant. A user entered the following input:

%q

You matched it with this initiative:

%q

Explain in one sentence why this is a relevant match.
`

// buildExplanationPrompt creates the user prompt for a single match.
func buildExplanationPrompt(query, description string) string {
	return fmt.Sprintf(explanationPromptTemplate, query, description)
}
