package ollama

import "strings"

// splitSentences slices every complete sentence off the front of buffer. A
// sentence ends at the earliest of '.', '!' or '?'; the terminator stays with
// the sentence. rest holds whatever trails the last terminator.
func splitSentences(buffer string) (sentences []string, rest string) {
	for {
		i := strings.IndexAny(buffer, ".!?")
		if i < 0 {
			return sentences, buffer
		}
		sentences = append(sentences, buffer[:i+1])
		buffer = buffer[i+1:]
	}
}
