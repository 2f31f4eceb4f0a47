package priem

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Podcast segment types.
const (
	SegmentSummary  = "summary"
	SegmentDialogue = "dialogue"
)

// Podcast is a transcribed interview about one program.
type Podcast struct {
	ProgramCode string           `json:"program_code"`
	ProgramName string           `json:"program_name"`
	Speaker     string           `json:"speaker"`
	Role        string           `json:"role"`
	URL         string           `json:"url"`
	Segments    []PodcastSegment `json:"segments"`
}

// PodcastSegment is one topical piece of a transcript.
type PodcastSegment struct {
	Text        string   `json:"text"`
	Keywords    Keywords `json:"keywords"`
	SegmentType string   `json:"segment_type"`
}

// Keywords accepts either a JSON list of strings or a single string.
type Keywords []string

// UnmarshalJSON implements json.Unmarshaler.
func (k *Keywords) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*k = list
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case nil:
		*k = nil
	case string:
		*k = Keywords{v}
	default:
		*k = Keywords{fmt.Sprint(v)}
	}
	return nil
}

// String joins the keywords with ", ".
func (k Keywords) String() string {
	return strings.Join(k, ", ")
}

// setDefaults fills the fields transcripts commonly omit.
func (p *Podcast) setDefaults() {
	if p.ProgramCode == "" {
		p.ProgramCode = "global"
	}
	if p.ProgramName == "" {
		p.ProgramName = "Неизвестно"
	}
	if p.Speaker == "" {
		p.Speaker = "Эксперт"
	}
	if p.Role == "" {
		p.Role = "Сотрудник вуза"
	}
}

// NewPodcastDocuments converts each non-empty segment into a document.
// The program and speaker are written into the text so that a single
// retrieved segment still carries its context.
func NewPodcastDocuments(p Podcast) []*Document {
	p.setDefaults()

	var docs []*Document
	for _, seg := range p.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segType := seg.SegmentType
		if segType == "" {
			segType = SegmentDialogue
		}
		kind := "Детали и ответы на вопросы"
		if segType == SegmentSummary {
			kind = "Обзор направления"
		}

		content := fmt.Sprintf("Источник: Подкаст о направлении %s \"%s\".\n"+
			"Спикер: %s (%s).\n"+
			"Тип информации: %s\n"+
			"Ключевые темы: %s\n"+
			"Текст:\n%s",
			p.ProgramCode, p.ProgramName, p.Speaker, p.Role, kind, seg.Keywords, text)

		docs = append(docs, &Document{
			SourceURL:  p.URL,
			SourceType: SourcePodcast,
			Title:      p.ProgramName,
			Content:    content,
			Metadata: Metadata{
				"source_type":  SourcePodcast,
				"program_code": p.ProgramCode,
				"speaker":      p.Speaker,
				"role":         p.Role,
				"segment_type": segType,
				"keywords":     seg.Keywords.String(),
				"url":          p.URL,
			},
		})
	}
	return docs
}
