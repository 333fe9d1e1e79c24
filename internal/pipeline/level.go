// Package pipeline orders composed skill pipelines into dependency waves
// and tracks their execution. A step's target may refer back to the output
// of an earlier step as "$N" or "step N"; a step runs one wave after the
// latest step it refers to.
package pipeline

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/canvas-engine/pkg/types"
)

// ErrUnresolvedReference is wrapped by UnresolvedError.
var ErrUnresolvedReference = errors.New("unresolved step reference")

var (
	dollarRefRe = regexp.MustCompile(`\$([1-9]\d*)`)
	stepRefRe   = regexp.MustCompile(`(?i)\bsteps?\s+(\d+(?:\s*(?:-|–|to\b|through\b)\s*\d+)?(?:\s*(?:,\s*(?:and\s+)?|\band\b|&)\s*\d+(?:\s*(?:-|–|to\b|through\b)\s*\d+)?)*)`)
	stepItemRe  = regexp.MustCompile(`(?i)(\d+)(?:\s*(?:-|–|to\b|through\b)\s*(\d+))?`)
)

// maxRangeSpan bounds how many steps a "steps N-M" range expands to.
// Wider ranges contribute only their endpoints.
const maxRangeSpan = 64

// UnresolvedError lists steps whose references never resolve: a
// reference to itself, to a later step, to a step that does not exist, or
// to another unresolved step.
type UnresolvedError struct {
	// Steps holds 1-based step numbers.
	Steps []int
}

func (e *UnresolvedError) Error() string {
	nums := make([]string, len(e.Steps))
	for i, s := range e.Steps {
		nums[i] = strconv.Itoa(s)
	}
	return fmt.Sprintf("%v: step %s", ErrUnresolvedReference, strings.Join(nums, ", "))
}

func (e *UnresolvedError) Unwrap() error {
	return ErrUnresolvedReference
}

// References returns the 1-based step numbers target refers to, sorted and
// without duplicates.
func References(target string) []int {
	seen := make(map[int]bool)
	for _, m := range dollarRefRe.FindAllStringSubmatch(target, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			seen[n] = true
		}
	}
	for _, m := range stepRefRe.FindAllStringSubmatch(target, -1) {
		for _, item := range stepItemRe.FindAllStringSubmatch(m[1], -1) {
			lo, err := strconv.Atoi(item[1])
			if err != nil {
				continue
			}
			seen[lo] = true
			if item[2] == "" {
				continue
			}
			hi, err := strconv.Atoi(item[2])
			if err != nil {
				continue
			}
			seen[hi] = true
			if hi > lo && hi-lo <= maxRangeSpan {
				for n := lo + 1; n < hi; n++ {
					seen[n] = true
				}
			}
		}
	}
	refs := make([]int, 0, len(seen))
	for n := range seen {
		refs = append(refs, n)
	}
	sort.Ints(refs)
	return refs
}

// Levels assigns each step its wave: 0 with no references, otherwise one
// more than the highest wave it references. It iterates to a fixed point,
// at most len(steps)+1 passes. Steps that never resolve get -1 and are
// reported in an *UnresolvedError; the resolved levels are still returned.
func Levels(steps []types.PipelineStep) ([]int, error) {
	n := len(steps)
	levels := make([]int, n)
	refs := make([][]int, n)
	for i, s := range steps {
		levels[i] = -1
		refs[i] = References(s.Target)
	}

	for pass := 0; pass <= n; pass++ {
		changed := false
		for i := range steps {
			if levels[i] >= 0 {
				continue
			}
			if lvl, ok := resolve(i, refs[i], levels); ok {
				levels[i] = lvl
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	var unresolved []int
	for i, l := range levels {
		if l < 0 {
			unresolved = append(unresolved, i+1)
		}
	}
	if len(unresolved) > 0 {
		return levels, &UnresolvedError{Steps: unresolved}
	}
	return levels, nil
}

// resolve computes the level of step i if every reference is to an
// earlier, already resolved step.
func resolve(i int, refs []int, levels []int) (int, bool) {
	lvl := 0
	for _, r := range refs {
		j := r - 1
		if j < 0 || j >= i {
			return 0, false
		}
		if levels[j] < 0 {
			return 0, false
		}
		if levels[j]+1 > lvl {
			lvl = levels[j] + 1
		}
	}
	return lvl, true
}

// Waves groups 0-based step indices by level, lowest level first. Steps
// with a negative level are left out.
func Waves(levels []int) [][]int {
	maxLevel := -1
	for _, l := range levels {
		if l > maxLevel {
			maxLevel = l
		}
	}
	if maxLevel < 0 {
		return nil
	}
	waves := make([][]int, maxLevel+1)
	for i, l := range levels {
		if l >= 0 {
			waves[l] = append(waves[l], i)
		}
	}
	return waves
}
