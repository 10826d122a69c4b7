package doctree

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is a heading rank. H1 is the highest.
type Level int

const (
	H1 Level = iota + 1
	H2
	H3
	H4
)

// MaxLevel is the deepest level an outline may carry.
const MaxLevel = H4

// LevelFromDepth clamps a 1-based nesting depth into H1..H4.
func LevelFromDepth(depth int) Level {
	switch {
	case depth <= 1:
		return H1
	case depth >= int(MaxLevel):
		return MaxLevel
	}
	return Level(depth)
}

func (l Level) String() string {
	return "H" + strconv.Itoa(int(l))
}

func (l Level) MarshalText() ([]byte, error) {
	if l < H1 || l > MaxLevel {
		return nil, fmt.Errorf("heading level out of range: %d", int(l))
	}
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(b []byte) error {
	s := strings.TrimPrefix(strings.ToUpper(string(b)), "H")
	n, err := strconv.Atoi(s)
	if err != nil || n < int(H1) || n > int(MaxLevel) {
		return fmt.Errorf("invalid heading level %q", string(b))
	}
	*l = Level(n)
	return nil
}

// Entry is one line of the final outline.
type Entry struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"` // 0-indexed
}

// Summary is the per-document result record.
type Summary struct {
	Title   string  `json:"title"`
	Outline []Entry `json:"outline"`
}

// Empty returns the result reported for documents that cannot be read.
func Empty() Summary {
	return Summary{Outline: []Entry{}}
}

// Node is a nested view of an outline, used for rendering.
type Node struct {
	Entry    Entry
	Children []*Node
}

// Tree nests a flat outline under its nearest shallower predecessor.
func Tree(entries []Entry) []*Node {
	type frame struct {
		node  *Node
		level Level
	}
	root := &Node{}
	stack := []frame{{node: root, level: 0}}

	for _, e := range entries {
		n := &Node{Entry: e}
		for len(stack) > 1 && stack[len(stack)-1].level >= e.Level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].node
		parent.Children = append(parent.Children, n)
		stack = append(stack, frame{node: n, level: e.Level})
	}
	return root.Children
}
