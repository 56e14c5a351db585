package curriculum

import (
	"fmt"

	"github.com/abhisek/skilltrail/internal/roadmap"
)

const notStarted = "Not Started"

func skill(id, name, desc string, res ...roadmap.Resource) roadmap.Skill {
	return roadmap.Skill{ID: id, Name: name, Description: desc, Status: notStarted, Resources: res}
}

// Simulated returns the built-in roadmap served when no model is
// available. Weak topics, if any, become a Focus Areas track in the
// Beginner level.
func Simulated(role string, days int, weakTopics []string) *roadmap.Document {
	beginner := roadmap.Level{
		Name:        "Beginner (Foundational)",
		Description: "Building the bedrock. Interviews are not cleared without this.",
		Tracks: []roadmap.Track{
			{Category: "DSA", Skills: []roadmap.Skill{
				skill("arrays-strings", "Arrays & Strings", "Memory layout, iteration and in-place modification.",
					roadmap.Resource{Title: "NeetCode Roadmap", URL: "https://neetcode.io/roadmap"}),
				skill("linked-lists", "Linked Lists", "Pointer manipulation and node chaining.",
					roadmap.Resource{Title: "VisuAlgo Linked List", URL: "https://visualgo.net/en/list"}),
			}},
			{Category: "Core Skills", Skills: []roadmap.Skill{
				skill("language-mastery", "Language Mastery", "Depth in your primary language: types, collections, error handling."),
			}},
		},
	}
	if len(weakTopics) > 0 {
		focus := roadmap.Track{Category: "Focus Areas"}
		for _, t := range weakTopics {
			focus.Skills = append(focus.Skills, skill("focus-"+roadmap.Slug(t), t, "Focus Area: drill this until it is routine."))
		}
		beginner.Tracks = append(beginner.Tracks, focus)
	}

	doc := &roadmap.Document{
		Title:        fmt.Sprintf("%s Mastery Roadmap (Simulated)", role),
		Description:  "A skill-based, tiered roadmap to get you interview-ready. Generated offline without a model.",
		DurationDays: days,
		IsSimulated:  true,
		Levels: []roadmap.Level{
			beginner,
			{
				Name:        "Intermediate (Interview-Ready)",
				Description: "The bar at most product companies.",
				Tracks: []roadmap.Track{
					{Category: "DSA", Skills: []roadmap.Skill{
						skill("trees-graphs", "Trees & Graphs", "BFS, DFS and recursive traversals."),
						skill("dynamic-programming", "Dynamic Programming", "Turning recursion into cached subproblems."),
					}},
					{Category: "Projects", Skills: []roadmap.Skill{
						skill("full-stack-app", "Full Stack App", "A CRUD application with authentication and a database."),
					}},
				},
			},
			{
				Name:        "Advanced (Top-Tier)",
				Description: "System design and harder problem solving.",
				Tracks: []roadmap.Track{
					{Category: "DSA", Skills: []roadmap.Skill{
						skill("advanced-graphs", "Advanced Graphs", "Dijkstra, union-find and topological sort."),
					}},
					{Category: "System Design", Skills: []roadmap.Skill{
						skill("scalability", "Scalability", "Load balancing, caching and sharding."),
					}},
				},
			},
		},
	}
	roadmap.EnsureSkillIDs(doc)
	return doc
}
