package tokens

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const charsPerToken = 4

// Tokenizer names a token counting strategy. Besides the constants below any
// tiktoken encoding ("cl100k_base") or model name ("gpt-4o") is accepted.
type Tokenizer string

const (
	TokenizerEstimate Tokenizer = "estimate"
	TokenizerDefault            = TokenizerEstimate
)

// Counter counts tokens in text.
type Counter interface {
	Count(text string) int
}

// NewCounter returns the Counter for tokenizer. Tiktoken encodings are loaded
// lazily on first use and may need network access to fetch their BPE ranks.
func NewCounter(tokenizer Tokenizer) (Counter, error) {
	switch t := Tokenizer(strings.TrimSpace(string(tokenizer))); t {
	case "", TokenizerEstimate:
		return &estimatingCounter{}, nil
	default:
		return newTiktokenCounter(string(t))
	}
}

// EstimatingCounter approximates token count as ~4 characters per token.
type EstimatingCounter = estimatingCounter

type estimatingCounter struct{}

func NewEstimatingCounter() *EstimatingCounter {
	return &estimatingCounter{}
}

func (*estimatingCounter) Count(text string) int {
	return Estimate(text)
}

func Estimate(text string) int {
	return int(math.Ceil(float64(len(text)) / float64(charsPerToken)))
}

type tiktokenCounter struct {
	name string

	once sync.Once
	enc  *tiktoken.Tiktoken
	err  error
}

// encodings are the tiktoken encoding names; anything else is resolved as a model.
var encodings = map[string]bool{
	"o200k_base":  true,
	"cl100k_base": true,
	"p50k_base":   true,
	"p50k_edit":   true,
	"r50k_base":   true,
}

func newTiktokenCounter(name string) (*tiktokenCounter, error) {
	if strings.ContainsAny(name, " \t/") {
		return nil, fmt.Errorf("unknown tokenizer %q", name)
	}
	return &tiktokenCounter{name: name}, nil
}

func (c *tiktokenCounter) load() {
	if encodings[c.name] {
		c.enc, c.err = tiktoken.GetEncoding(c.name)
		return
	}
	c.enc, c.err = tiktoken.EncodingForModel(c.name)
}

// Err reports why the encoding could not be loaded, forcing the load if needed.
func (c *tiktokenCounter) Err() error {
	c.once.Do(c.load)
	return c.err
}

// Count falls back to Estimate when the encoding cannot be loaded.
func (c *tiktokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	c.once.Do(c.load)
	if c.err != nil {
		return Estimate(text)
	}
	return len(c.enc.Encode(text, nil, nil))
}
