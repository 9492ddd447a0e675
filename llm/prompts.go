package llm

import (
	"fmt"
	"strings"

	"echonotes/ai-backend/config"
	"echonotes/ai-backend/types"
)

// SourcesSeparator delimits the natural-language answer from the trailing JSON
// citation array in grounded-only responses. The parser splits on it byte
// exact, so it must never change while stored transcripts matter.
const SourcesSeparator = "%%SOURCES_JSON%%"

// NoAnswerFallback is what the model is told to return when the notes hold
// nothing relevant.
const NoAnswerFallback = "I couldn't find an answer to that in the selected notes."

func formatNotesBlock(notes []types.Note) string {
	var b strings.Builder
	for _, note := range notes {
		fmt.Fprintf(&b, "[note id: %s]\n%s\n\n", note.ID, note.RefinedText)
	}
	return b.String()
}

func formatHistoryBlock(history []types.ChatMessage) string {
	if len(history) > config.MaxHistoryMessages {
		history = history[len(history)-config.MaxHistoryMessages:]
	}
	var b strings.Builder
	for _, msg := range history {
		if msg.Sender == types.SenderUser {
			b.WriteString("THEM: ")
		} else {
			b.WriteString("YOU: ")
		}
		b.WriteString(msg.Text)
		b.WriteString("\n\n")
	}
	return b.String()
}

// BuildGroundedPrompt instructs the model to answer strictly from the supplied
// notes and to append the citation payload after the separator token.
func BuildGroundedPrompt(notes []types.Note, history []types.ChatMessage, question string) string {
	systemInstructions := fmt.Sprintf(`You are an assistant answering questions about a user's personal voice notes.

Answer ONLY from the notes below. Do not use outside knowledge. If the notes do not contain the answer, reply with exactly this sentence and nothing else:
%s

When you do find an answer, write it in natural language first. Then, on a new line, output the literal marker %s followed by a JSON array of the note passages that support the answer, in this exact shape:
[{"noteId": "<id of the note>", "snippet": "<short quote from that note>"}]

Output nothing after the JSON array. Do not wrap the array in a code block.`, NoAnswerFallback, SourcesSeparator)

	sections := []string{systemInstructions}

	sections = append(sections, "NOTES:\n"+formatNotesBlock(notes))

	if len(history) > 0 {
		sections = append(sections, "CONVERSATION SO FAR:\n"+formatHistoryBlock(history))
	}

	sections = append(sections, "THEIR QUESTION:\n"+question)

	return strings.Join(sections, "\n\n")
}

// BuildSearchPrompt instructs the model to lean on live web search, with the
// notes and history as secondary context. No separator convention here: web
// citations come back as grounding metadata on the stream.
func BuildSearchPrompt(notes []types.Note, history []types.ChatMessage, question string) string {
	systemInstructions := `You are an assistant answering questions for a user who keeps personal voice notes.

Prioritize current information from web search when answering. The user's notes below are secondary context; mention them only where they are relevant. Answer in natural language.`

	sections := []string{systemInstructions}

	if len(notes) > 0 {
		sections = append(sections, "THEIR NOTES (secondary context):\n"+formatNotesBlock(notes))
	}

	if len(history) > 0 {
		sections = append(sections, "CONVERSATION SO FAR:\n"+formatHistoryBlock(history))
	}

	sections = append(sections, "THEIR QUESTION:\n"+question)

	return strings.Join(sections, "\n\n")
}

// BuildTranscriptPrompt asks for the structured note shape. localDate anchors
// relative phrases like "tomorrow" to the caller's calendar.
func BuildTranscriptPrompt(transcript, localDate string) string {
	return fmt.Sprintf(`You are processing the raw transcript of a spoken voice note.

Today's date for the speaker is %s. Resolve relative dates ("tomorrow", "next Friday") against it.

Produce:
- refined_text: the transcript cleaned up into well-formed prose, preserving the speaker's meaning and tone
- emotion_summary: one sentence describing the speaker's emotional state
- emotions: a short list of single-word emotion labels
- action_items: every task or commitment mentioned, each with its text and a due_date in YYYY-MM-DD format, or an empty string when no date was given

TRANSCRIPT:
%s`, localDate, transcript)
}
