package photomaker

import (
	"context"
	"hash/fnv"
	"regexp"
	"strings"
)

// DefaultTriggerWord is the subject token PhotoMaker binds identity to.
const DefaultTriggerWord = "img"

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+|[^\s\p{L}\p{N}]`)

// WordTokenizer is an offline tokenizer that splits on words and
// punctuation. It is used when no pipeline is reachable, e.g. to validate a
// prompt from the CLI, and agrees with the pipeline tokenizer on whether the
// trigger word stands alone.
type WordTokenizer struct {
	trigger string
}

// NewWordTokenizer returns a tokenizer using trigger as the subject token.
func NewWordTokenizer(trigger string) *WordTokenizer {
	trigger = strings.ToLower(strings.TrimSpace(trigger))
	if trigger == "" {
		trigger = DefaultTriggerWord
	}
	return &WordTokenizer{trigger: trigger}
}

// Encode returns one id per word or punctuation mark.
func (t *WordTokenizer) Encode(_ context.Context, text string) ([]int, error) {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	ids := make([]int, 0, len(words))
	for _, w := range words {
		ids = append(ids, tokenID(w))
	}
	return ids, nil
}

// TriggerTokenID returns the id of the trigger word.
func (t *WordTokenizer) TriggerTokenID(context.Context) (int, error) {
	return tokenID(t.trigger), nil
}

func tokenID(word string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(word))
	return int(h.Sum32() & 0x7fffffff)
}
