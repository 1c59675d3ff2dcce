// Package tree reconstructs a hierarchy from flat records and renders it
// with branch drawing. The tree path bypasses column extraction entirely:
// it consumes raw records plus a designated parent field, since hierarchy
// is relational data that a flattened row cannot carry.
package tree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtree "github.com/charmbracelet/lipgloss/tree"

	"listpipe/internal/record"
)

// Sentinel errors for forest construction.
var (
	ErrCycle        = errors.New("cycle detected in parent references")
	ErrMissingKey   = errors.New("record has no key field")
	ErrDuplicateKey = errors.New("duplicate record key")
)

// Node is one record in the reconstructed hierarchy.
type Node struct {
	Label    string
	Children []*Node
}

type entry struct {
	key    string
	parent string
	node   *Node
}

// Build reconstructs a forest. Each record is identified by keyField;
// parentField holds the key of the record's parent. Records with an
// empty or unresolvable parent become roots; sibling order follows the
// input record order. A cycle in the parent references is malformed
// provenance data and fails construction.
func Build(records record.Set, keyField, parentField string) ([]*Node, error) {
	entries := make([]*entry, 0, len(records))
	byKey := make(map[string]*entry, len(records))

	for i, rec := range records {
		key := record.GetString(rec, keyField)
		if key == "" {
			return nil, fmt.Errorf("%w: record #%d, field %q", ErrMissingKey, i, keyField)
		}
		if _, exists := byKey[key]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}

		e := &entry{
			key:    key,
			parent: record.GetString(rec, parentField),
			node:   &Node{Label: key},
		}
		entries = append(entries, e)
		byKey[key] = e
	}

	if err := checkCycles(entries, byKey); err != nil {
		return nil, err
	}

	var roots []*Node
	for _, e := range entries {
		parent, ok := byKey[e.parent]
		if e.parent == "" || !ok {
			roots = append(roots, e.node)
			continue
		}
		parent.node.Children = append(parent.node.Children, e.node)
	}

	return roots, nil
}

// checkCycles walks every parent chain. Chains either terminate in a
// record without a resolvable parent or revisit a record, which is a
// cycle. Resolved entries are memoized so the walk is linear overall.
func checkCycles(entries []*entry, byKey map[string]*entry) error {
	resolved := make(map[string]bool, len(entries))

	for _, e := range entries {
		onChain := make(map[string]bool)
		var chain []string

		current := e
		for {
			if resolved[current.key] {
				break
			}
			if onChain[current.key] {
				chain = append(chain, current.key)
				return fmt.Errorf("%w: %s", ErrCycle, strings.Join(chain, " -> "))
			}
			onChain[current.key] = true
			chain = append(chain, current.key)

			parent, ok := byKey[current.parent]
			if current.parent == "" || !ok {
				break
			}
			current = parent
		}

		for _, key := range chain {
			resolved[key] = true
		}
	}
	return nil
}

// Render draws the forest depth-first with branch characters, one root
// after another.
func Render(roots []*Node) string {
	branchStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	var sb strings.Builder
	for _, root := range roots {
		t := lgtree.New().
			Root(root.Label).
			EnumeratorStyle(branchStyle)
		addChildren(t, root)
		sb.WriteString(t.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func addChildren(t *lgtree.Tree, node *Node) {
	for _, child := range node.Children {
		if len(child.Children) == 0 {
			t.Child(child.Label)
			continue
		}
		sub := lgtree.New().Root(child.Label)
		addChildren(sub, child)
		t.Child(sub)
	}
}
