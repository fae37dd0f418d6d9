// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package placement computes where to splice secondary images into assembled
// prose. The plan is cheap to recompute and depends only on the current body
// and image set, so it is never cached.
package placement

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/article-engine/pkg/types"
)

// paragraphSplit matches blank-line boundaries between paragraphs.
var paragraphSplit = regexp.MustCompile(`\n[ \t]*\n+`)

// minStep is the smallest spacing used when filling in evenly spaced
// candidates beyond the heading-based ones.
const minStep = 5

// Insertion pairs a paragraph index with the image to insert there. Index is
// the position in the original paragraph list, before any insertion shifts.
type Insertion struct {
	// Index is the paragraph index the image is inserted at.
	Index int

	// Image is the image to splice in.
	Image types.ImageRef
}

// Plan is the ordered list of insertions for one assembly. It is consumed
// exactly once by the markdown assembler.
type Plan struct {
	// Insertions lists the planned splices in ascending paragraph order.
	Insertions []Insertion

	// Requested is the number of in-body images the caller supplied
	// (excluding the reserved header image). When Placed() is smaller,
	// the body had too few usable positions.
	Requested int
}

// Placed returns the number of images the plan actually places.
func (p Plan) Placed() int {
	return len(p.Insertions)
}

// SplitParagraphs splits a markdown body into paragraphs on blank-line
// boundaries. Leading and trailing blank lines produce no empty paragraphs.
func SplitParagraphs(body string) []string {
	var out []string
	for _, p := range paragraphSplit.Split(body, -1) {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// isHeading reports whether a paragraph is a markdown heading.
func isHeading(paragraph string) bool {
	return strings.HasPrefix(strings.TrimSpace(paragraph), "#")
}

// Compute builds the placement plan for body and images. images[0] is
// reserved for the document header and never placed in-body.
//
// Candidate positions are the paragraph indices immediately following each
// heading except the first (the title). When headings alone cannot host
// every image, additional candidates are generated on an even spacing of
// max(5, paragraphs/(remaining+1)). Candidates are sorted ascending and
// paired, in order, with images[1:].
func Compute(body string, images []types.ImageRef) Plan {
	paragraphs := SplitParagraphs(body)
	return computeFromParagraphs(paragraphs, images)
}

func computeFromParagraphs(paragraphs []string, images []types.ImageRef) Plan {
	if len(images) <= 1 {
		return Plan{}
	}
	needed := len(images) - 1
	plan := Plan{Requested: needed}

	chosen := make(map[int]bool)
	var candidates []int

	// Heading-based candidates, skipping the first heading.
	seenHeading := false
	for i, p := range paragraphs {
		if !isHeading(p) {
			continue
		}
		if !seenHeading {
			seenHeading = true
			continue
		}
		idx := i + 1
		if idx <= len(paragraphs) && !chosen[idx] {
			chosen[idx] = true
			candidates = append(candidates, idx)
		}
	}

	// Evenly spaced fill when headings alone cannot host every image.
	if len(candidates) < needed {
		remaining := needed - len(candidates)
		step := len(paragraphs) / (remaining + 1)
		if step < minStep {
			step = minStep
		}
		for idx := step; idx < len(paragraphs) && len(candidates) < needed; idx += step {
			if chosen[idx] {
				continue
			}
			chosen[idx] = true
			candidates = append(candidates, idx)
		}
	}

	sort.Ints(candidates)
	if len(candidates) > needed {
		candidates = candidates[:needed]
	}

	for i, idx := range candidates {
		plan.Insertions = append(plan.Insertions, Insertion{
			Index: idx,
			Image: images[i+1],
		})
	}
	return plan
}

// Apply splices the planned images into body and returns the result. Each
// insertion shifts the positions of all later insertions by one; Apply
// accounts for that cumulative shift.
func (p Plan) Apply(body string) string {
	if len(p.Insertions) == 0 {
		return body
	}

	paragraphs := SplitParagraphs(body)
	out := make([]string, 0, len(paragraphs)+len(p.Insertions))
	out = append(out, paragraphs...)

	for shift, ins := range p.Insertions {
		pos := ins.Index + shift
		if pos > len(out) {
			pos = len(out)
		}
		block := imageMarkdown(ins.Image)
		out = append(out[:pos], append([]string{block}, out[pos:]...)...)
	}

	return strings.Join(out, "\n\n")
}

// imageMarkdown renders an image reference as a standalone markdown
// paragraph.
func imageMarkdown(img types.ImageRef) string {
	return fmt.Sprintf("![%s](%s)", img.Prompt, img.URL)
}
