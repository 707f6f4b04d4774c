package solution

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/willibrandon/goslm/settings"
)

// NodeKind tells folders and projects apart in a Tree
type NodeKind int

const (
	// RootNode is the solution itself
	RootNode NodeKind = iota
	// FolderNode is a solution folder
	FolderNode
	// ProjectNode is a project, always a leaf
	ProjectNode
)

// Node is one entry of the solution tree
type Node struct {
	Kind     NodeKind
	Name     string
	ID       uuid.UUID
	Project  *Project             // Set for ProjectNode
	Priority settings.LoadPriority // Resolved priority, ProjectNode only
	Children []*Node
}

// BuildTree arranges the solution's folders and projects the way the IDE
// shows them: folders first, then projects, each sorted by name. Projects
// take their priority from priorities, DemandLoad when absent. Items whose
// parent folder is unknown or nested in a cycle are placed at the top level.
func BuildTree(sol *Solution, priorities map[uuid.UUID]settings.LoadPriority) *Node {
	root := &Node{Kind: RootNode, Name: strings.TrimSuffix(baseName(sol.FilePath), ".sln")}

	folders := make(map[uuid.UUID]*Node, len(sol.Folders))
	for _, f := range sol.Folders {
		folders[f.ID] = &Node{Kind: FolderNode, Name: f.Name, ID: f.ID}
	}

	parentOf := func(child, parent uuid.UUID) *Node {
		if parent == uuid.Nil || nestsInto(sol, child, parent) {
			return root
		}
		if node, ok := folders[parent]; ok {
			return node
		}
		return root
	}

	for _, f := range sol.Folders {
		parent := parentOf(f.ID, f.ParentID)
		parent.Children = append(parent.Children, folders[f.ID])
	}

	for i := range sol.Projects {
		p := &sol.Projects[i]
		priority, ok := priorities[p.ID]
		if !ok {
			priority = settings.DemandLoad
		}
		parent := parentOf(p.ID, p.ParentID)
		parent.Children = append(parent.Children, &Node{
			Kind:     ProjectNode,
			Name:     p.Name,
			ID:       p.ID,
			Project:  p,
			Priority: priority,
		})
	}

	sortChildren(root)
	return root
}

// Walk visits n and its descendants depth first, parents before children.
// depth is 0 for n. A non-nil error from fn stops the walk.
func (n *Node) Walk(fn func(node *Node, depth int) error) error {
	return n.walk(fn, 0)
}

func (n *Node) walk(fn func(node *Node, depth int) error, depth int) error {
	if err := fn(n, depth); err != nil {
		return err
	}
	for _, child := range n.Children {
		if err := child.walk(fn, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Projects returns every project node below n in walk order
func (n *Node) Projects() []*Node {
	var projects []*Node
	_ = n.Walk(func(node *Node, _ int) error {
		if node.Kind == ProjectNode {
			projects = append(projects, node)
		}
		return nil
	})
	return projects
}

// nestsInto reports whether following parent links from parent leads back
// to child, which would make the tree a cycle.
func nestsInto(sol *Solution, child, parent uuid.UUID) bool {
	seen := map[uuid.UUID]bool{}
	for id := parent; id != uuid.Nil && !seen[id]; {
		if id == child {
			return true
		}
		seen[id] = true

		next := uuid.Nil
		for _, f := range sol.Folders {
			if f.ID == id {
				next = f.ParentID
				break
			}
		}
		id = next
	}
	return false
}

func sortChildren(n *Node) {
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.Kind != b.Kind {
			return a.Kind == FolderNode
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	for _, child := range n.Children {
		sortChildren(child)
	}
}

func baseName(path string) string {
	return path[strings.LastIndexAny(path, `/\`)+1:]
}
