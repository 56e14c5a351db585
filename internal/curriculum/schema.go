package curriculum

import "github.com/abhisek/skilltrail/internal/llm"

func object(required []any, props map[string]any) map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

func str(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func array(items map[string]any, desc string) map[string]any {
	return map[string]any{"type": "array", "items": items, "description": desc}
}

var resourceSchema = object([]any{"title", "url"}, map[string]any{
	"title": str("Short label of the free resource"),
	"url":   str("Absolute https URL"),
})

var skillSchema = object([]any{"id", "name", "description", "resources"}, map[string]any{
	"id":          str("Unique kebab-case slug, e.g. arrays-strings"),
	"name":        str("Skill name"),
	"description": str("One or two sentences on what mastery means"),
	"resources":   array(resourceSchema, "One to three of the best free resources"),
})

var trackSchema = object([]any{"category", "skills"}, map[string]any{
	"category": str("Track name: DSA, Core Skills, Projects or Interview Signals"),
	"skills":   array(skillSchema, "Skills in study order"),
})

var levelSchema = object([]any{"name", "description", "tracks"}, map[string]any{
	"name":        str("Beginner, Intermediate or Advanced, with a short qualifier"),
	"description": str("What this level unlocks"),
	"tracks":      array(trackSchema, "Parallel tracks at this level"),
})

// RoadmapSchema is the structured output requested from the model.
var RoadmapSchema = &llm.Schema{
	Name:        "career-roadmap",
	Description: "A tiered, skill-based interview preparation roadmap",
	Definition: object([]any{"title", "description", "levels"}, map[string]any{
		"title":       str("Roadmap title naming the role"),
		"description": str("One sentence summary"),
		"levels": map[string]any{
			"type":     "array",
			"items":    levelSchema,
			"minItems": 1,
		},
	}),
}
