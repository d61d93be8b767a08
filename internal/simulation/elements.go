package simulation

import (
	"fmt"
	"math/rand"
	"strings"
)

// The interaction taxonomy maps a lesson's content category to the UI
// elements a student could plausibly touch. Descriptors are plain data
// records, including the metadata rules, so the whole registry can be
// inspected and tested without executing anything.

type contentCategory string

const (
	categoryVideo      contentCategory = "video"
	categoryText       contentCategory = "text"
	categoryPDF        contentCategory = "pdf"
	categoryNavigation contentCategory = "navigation"
)

type metadataRuleKind int

const (
	ruleStringChoice metadataRuleKind = iota
	ruleIntRange
	ruleSuffixedIntRange
	ruleIntChoice
	ruleBool
	ruleConst
)

// metadataRule declares how one metadata key is generated.
type metadataRule struct {
	key     string
	kind    metadataRuleKind
	choices []string
	ints    []int
	min     int
	max     int
	prefix  string
	suffix  string
	value   string
}

func (m metadataRule) generate(r *rand.Rand) any {
	switch m.kind {
	case ruleStringChoice:
		return pick(r, m.choices)
	case ruleIntRange:
		return randInt(r, m.min, m.max)
	case ruleSuffixedIntRange:
		return fmt.Sprintf("%s%d%s", m.prefix, randInt(r, m.min, m.max), m.suffix)
	case ruleIntChoice:
		return pick(r, m.ints)
	case ruleBool:
		return chance(r, 0.5)
	default:
		return m.value
	}
}

// elementDef describes one interactive element of the lesson UI.
type elementDef struct {
	key          string
	name         string
	uiType       string
	context      string
	interactions []string
	extras       []metadataRule
}

var elementRegistry = map[contentCategory][]elementDef{
	categoryVideo: {
		{
			key: "video_player_play", name: "Play Button", uiType: "button", context: "video_control",
			interactions: []string{"click"},
			extras:       []metadataRule{{key: "position", kind: ruleStringChoice, choices: []string{"start", "middle", "end"}}},
		},
		{
			key: "video_player_pause", name: "Pause Button", uiType: "button", context: "video_control",
			interactions: []string{"click"},
			extras:       []metadataRule{{key: "timestamp", kind: ruleSuffixedIntRange, min: 0, max: 300, suffix: "s"}},
		},
		{
			key: "video_player_seek", name: "Video Seekbar", uiType: "slider", context: "video_control",
			interactions: []string{"drag", "click"},
			extras:       []metadataRule{{key: "seek_to", kind: ruleSuffixedIntRange, min: 0, max: 100, suffix: "%"}},
		},
		{
			key: "video_volume", name: "Volume Control", uiType: "slider", context: "video_control",
			interactions: []string{"drag", "click"},
			extras:       []metadataRule{{key: "volume_level", kind: ruleIntRange, min: 0, max: 100}},
		},
		{
			key: "video_fullscreen", name: "Fullscreen Button", uiType: "button", context: "video_control",
			interactions: []string{"click"},
			extras:       []metadataRule{{key: "fullscreen", kind: ruleBool}},
		},
		{
			key: "video_speed", name: "Playback Speed", uiType: "dropdown", context: "video_control",
			interactions: []string{"click"},
			extras:       []metadataRule{{key: "speed", kind: ruleStringChoice, choices: []string{"0.5x", "0.75x", "1x", "1.25x", "1.5x", "2x"}}},
		},
	},
	categoryText: {
		{
			key: "text_area_scroll", name: "Main Content Area", uiType: "container", context: "content_view",
			interactions: []string{"scroll"},
			extras:       []metadataRule{{key: "scroll_depth", kind: ruleIntRange, min: 10, max: 100}},
		},
		{
			key: "heading_click", name: "Section Heading", uiType: "heading", context: "navigation",
			interactions: []string{"click"},
			extras:       []metadataRule{{key: "section", kind: ruleSuffixedIntRange, prefix: "section_", min: 1, max: 5}},
		},
		{
			key: "highlight_text", name: "Text Selection", uiType: "text", context: "annotation",
			interactions: []string{"highlight", "select"},
			extras:       []metadataRule{{key: "text_length", kind: ruleIntRange, min: 10, max: 100}},
		},
		{
			key: "code_block", name: "Code Example", uiType: "code_block", context: "content_view",
			interactions: []string{"click", "copy"},
			extras:       []metadataRule{{key: "language", kind: ruleStringChoice, choices: []string{"python", "javascript", "sql"}}},
		},
		{
			key: "image_zoom", name: "Image Viewer", uiType: "image", context: "media_view",
			interactions: []string{"click", "zoom"},
			extras:       []metadataRule{{key: "zoom_level", kind: ruleIntChoice, ints: []int{100, 150, 200}}},
		},
		{
			key: "note_button", name: "Take Notes Button", uiType: "button", context: "annotation",
			interactions: []string{"click"},
			extras:       []metadataRule{{key: "note_position", kind: ruleIntRange, min: 0, max: 100}},
		},
	},
	categoryPDF: {
		{
			key: "pdf_scroll", name: "PDF Viewer", uiType: "container", context: "document_view",
			interactions: []string{"scroll"},
			extras:       []metadataRule{{key: "page_number", kind: ruleIntRange, min: 1, max: 20}},
		},
		{
			key: "pdf_zoom", name: "Zoom Control", uiType: "button", context: "document_control",
			interactions: []string{"click"},
			extras:       []metadataRule{{key: "zoom_level", kind: ruleIntChoice, ints: []int{75, 100, 125, 150, 200}}},
		},
		{
			key: "pdf_download", name: "Download PDF Button", uiType: "button", context: "document_control",
			interactions: []string{"click"},
			extras:       []metadataRule{{key: "file_size", kind: ruleSuffixedIntRange, min: 100, max: 5000, suffix: "KB"}},
		},
		{
			key: "pdf_print", name: "Print Button", uiType: "button", context: "document_control",
			interactions: []string{"click"},
			extras:       []metadataRule{{key: "pages_to_print", kind: ruleIntRange, min: 1, max: 10}},
		},
	},
	categoryNavigation: {
		{
			key: "nav_next", name: "Next Lesson Button", uiType: "button", context: "navigation",
			interactions: []string{"click"},
			extras:       []metadataRule{{key: "direction", kind: ruleConst, value: "forward"}},
		},
		{
			key: "nav_prev", name: "Previous Lesson Button", uiType: "button", context: "navigation",
			interactions: []string{"click"},
			extras:       []metadataRule{{key: "direction", kind: ruleConst, value: "backward"}},
		},
		{
			key: "nav_menu", name: "Course Menu", uiType: "menu", context: "navigation",
			interactions: []string{"click", "hover"},
			extras:       []metadataRule{{key: "menu_section", kind: ruleStringChoice, choices: []string{"courses", "lessons", "quizzes"}}},
		},
		{
			key: "bookmark", name: "Bookmark Button", uiType: "button", context: "annotation",
			interactions: []string{"click"},
			extras:       []metadataRule{{key: "bookmarked", kind: ruleBool}},
		},
	},
}

var deviceTypes = []string{"desktop", "mobile", "tablet"}

// lessonCategory infers the lesson's content category from title keywords,
// falling back to probabilistic assignment.
func lessonCategory(r *rand.Rand, title string) contentCategory {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "video") || chance(r, 0.2):
		return categoryVideo
	case strings.Contains(lower, "pdf") || strings.Contains(lower, "document") || chance(r, 0.1):
		return categoryPDF
	default:
		return categoryText
	}
}

// interactionElement picks an element for a lesson of the given category.
// Text lessons mix content and navigation elements.
func interactionElement(r *rand.Rand, category contentCategory) elementDef {
	lookup := category
	if category == categoryText {
		lookup = pick(r, []contentCategory{categoryText, categoryNavigation})
	}
	defs, ok := elementRegistry[lookup]
	if !ok {
		defs = elementRegistry[categoryText]
	}
	return pick(r, defs)
}

// interactionMetadata expands an element descriptor into the metadata map
// recorded with an interaction log entry.
func interactionMetadata(r *rand.Rand, def elementDef) map[string]any {
	meta := map[string]any{
		"name":    def.name,
		"type":    def.uiType,
		"context": def.context,
	}
	for _, rule := range def.extras {
		meta[rule.key] = rule.generate(r)
	}
	meta["interaction_count"] = randInt(r, 1, 5)
	meta["device_type"] = pick(r, deviceTypes)
	return meta
}

func elementID(r *rand.Rand, def elementDef) string {
	return fmt.Sprintf("element_%s_%02d", def.key, randInt(r, 1, 99))
}
