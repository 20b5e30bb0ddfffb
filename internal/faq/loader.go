package faq

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

var ErrEmptyDocument = errors.New("faq document has no topics")

type Entry struct {
	Question string
	Answer   string
}

type rawEntry struct {
	Question string          `json:"question"`
	Answer   json.RawMessage `json:"answer"`
}

// Parse reads a FAQ document. The document is an object of topics, each
// holding either {"FAQs": [...]} or the list of entries directly. Topics are
// read in name order. Answers may be a string or a list of strings joined
// with spaces.
func Parse(data []byte) ([]Entry, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode faq document: %w", err)
	}
	if len(doc) == 0 {
		return nil, ErrEmptyDocument
	}

	topics := make([]string, 0, len(doc))
	for topic := range doc {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	var entries []Entry
	for _, topic := range topics {
		raw, err := topicEntries(doc[topic])
		if err != nil {
			return nil, fmt.Errorf("topic %q: %w", topic, err)
		}
		for i, r := range raw {
			answer, err := decodeAnswer(r.Answer)
			if err != nil {
				return nil, fmt.Errorf("topic %q entry %d: %w", topic, i, err)
			}
			entries = append(entries, Entry{Question: r.Question, Answer: answer})
		}
	}
	return entries, nil
}

func ParseFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func topicEntries(body json.RawMessage) ([]rawEntry, error) {
	var wrapped struct {
		FAQs []rawEntry `json:"FAQs"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.FAQs != nil {
		return wrapped.FAQs, nil
	}

	var list []rawEntry
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("expected a FAQs object or a list of entries: %w", err)
	}
	return list, nil
}

func decodeAnswer(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var parts []string
	if err := json.Unmarshal(raw, &parts); err != nil {
		return "", fmt.Errorf("answer must be a string or a list of strings")
	}
	return strings.Join(parts, " "), nil
}
