package roadmapview

import (
	"github.com/abhisek/skilltrail/internal/acquire"
	"github.com/abhisek/skilltrail/internal/bookmark"
	"github.com/abhisek/skilltrail/internal/optimistic"
	"github.com/abhisek/skilltrail/internal/roadmap"
)

type loadedMsg struct {
	res acquire.Result
	err error
}

type generatedMsg struct {
	doc *roadmap.Document
	err error
}

type savedMsg struct {
	saved bool
	err   error
}

type bookmarkMsg struct {
	bm    *bookmark.Controller
	m     optimistic.Mutation[bool]
	value bool
	err   error
}
