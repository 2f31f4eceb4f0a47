package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/stankin-rag/priem"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// DefaultContextChunks is how many search results go into a prompt.
const DefaultContextChunks = 5

// Ensure Asker implements priem.Asker at compile time.
var _ priem.Asker = (*Asker)(nil)

// Asker answers applicants' questions from the indexed site content.
type Asker struct {
	client   *genai.Client
	embedder priem.Embedder
	chunks   priem.ChunkService
	search   priem.SearchOptions
}

// NewAsker creates a new Asker. The embedder must produce query vectors
// comparable to the indexed ones.
func NewAsker(client *genai.Client, embedder priem.Embedder, chunks priem.ChunkService, search priem.SearchOptions) *Asker {
	if search.Limit <= 0 {
		search.Limit = DefaultContextChunks
	}
	return &Asker{client: client, embedder: embedder, chunks: chunks, search: search}
}

// Ask retrieves the chunks nearest to question and has Gemini answer from
// them.
func (a *Asker) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", priem.Errorf(priem.EINVALID, "question required")
	}

	vectors, err := a.embedder.Embed(ctx, []string{question})
	if err != nil {
		return "", fmt.Errorf("embedding question: %w", err)
	}
	if len(vectors) != 1 {
		return "", priem.Errorf(priem.EINTERNAL, "expected one question embedding, got %d", len(vectors))
	}

	results, err := a.chunks.Search(ctx, vectors[0], a.search)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", priem.Errorf(priem.ENOTFOUND, "no indexed content matches the question")
	}

	result, err := a.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: BuildUserPrompt(results, question)}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", priem.Errorf(priem.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "Ты консультант приёмной комиссии университета. Отвечай на русском языке только на основе приведённых фрагментов сайта и интервью. " +
					"Называй точные цифры: баллы, количество мест, стоимость. Если ответа во фрагментах нет, так и скажи.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt from search results and the question.
func BuildUserPrompt(results []priem.SearchResult, question string) string {
	var sb strings.Builder
	sb.WriteString("<context>\n")
	sb.WriteString(priem.FormatResults(results))
	sb.WriteString("\n</context>\n\n")
	fmt.Fprintf(&sb, "Вопрос: %s", question)
	return sb.String()
}
