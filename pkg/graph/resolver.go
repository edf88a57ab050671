// Package graph orders the executable nodes of a workflow graph.
package graph

import "github.com/dukex/leadflow/pkg/models"

// FindTrigger returns the first trigger node in node order, or nil.
func FindTrigger(nodes []*models.GraphNode) *models.GraphNode {
	for _, node := range nodes {
		if node.Kind == models.NodeKindTrigger {
			return node
		}
	}

	return nil
}

// OrderedActions walks the graph breadth-first from the trigger's direct
// successors and returns every reachable action and condition node in
// visitation order. A node reached by several paths, or through a cycle,
// appears once. Without a trigger the result is empty.
//
// The order depends only on the order of nodes and edges, never on map
// iteration.
func OrderedActions(nodes []*models.GraphNode, edges []models.Edge) []*models.GraphNode {
	trigger := FindTrigger(nodes)
	if trigger == nil {
		return nil
	}

	byID := make(map[string]*models.GraphNode, len(nodes))
	for _, node := range nodes {
		if _, exists := byID[node.ID]; !exists {
			byID[node.ID] = node
		}
	}

	adjacency := make(map[string][]string, len(edges))
	for _, edge := range edges {
		adjacency[edge.Source] = append(adjacency[edge.Source], edge.Target)
	}

	visited := map[string]bool{trigger.ID: true}
	queue := make([]string, 0, len(nodes))

	for _, target := range adjacency[trigger.ID] {
		if !visited[target] {
			visited[target] = true
			queue = append(queue, target)
		}
	}

	var ordered []*models.GraphNode

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node, ok := byID[current]
		if !ok {
			// Dangling edge target.
			continue
		}

		if node.Kind == models.NodeKindAction || node.Kind == models.NodeKindCondition {
			ordered = append(ordered, node)
		}

		for _, target := range adjacency[current] {
			if !visited[target] {
				visited[target] = true
				queue = append(queue, target)
			}
		}
	}

	return ordered
}
