package assistant

import "github.com/sashabaranov/go-openai"

// FallbackAnswer is shown when the assistant produced no usable reply
const FallbackAnswer = "Maaf, sepertinya materi yang kamu tanyakan tidak ada pada mata kuliah ini."

// ExtractAnswer returns the text of the first content block of the first
// message, verbatim. messages must be the ascending list of messages created
// after the user's question.
func ExtractAnswer(messages []openai.Message) string {
	if len(messages) == 0 || len(messages[0].Content) == 0 {
		return FallbackAnswer
	}

	text := messages[0].Content[0].Text
	if text == nil || text.Value == "" {
		return FallbackAnswer
	}

	return text.Value
}
