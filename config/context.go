package config

// Tunables for the ask pipeline.
const (
	// SessionTitleMaxLen caps the title derived from the first question.
	SessionTitleMaxLen = 50

	// MaxHistoryMessages bounds how many prior turns are replayed into the
	// prompt.
	MaxHistoryMessages = 10

	// StreamChunkBuffer is the channel depth between the SSE reader and the
	// event consumer.
	StreamChunkBuffer = 16
)
