package dataroom

// Tree navigation primitives.
//
// All traversals are iterative with an explicit work list so pathological
// hierarchies cannot exhaust the goroutine stack. The functions operate on
// full in-memory slices fetched by the orchestrators; none of them touch
// storage or define an ordering contract (callers sort as needed).

// childrenByParent indexes containers by their parent id. Root-level
// containers (nil parent) are keyed by the empty string, which can never be a
// container id.
func childrenByParent(containers []Container) map[string][]string {
	index := make(map[string][]string, len(containers))
	for i := range containers {
		key := ""
		if containers[i].ParentID != nil {
			key = *containers[i].ParentID
		}
		index[key] = append(index[key], containers[i].ID)
	}
	return index
}

// DescendantContainerIDs collects every container whose parent chain passes
// through id. The target itself is not included. Returns an empty set for an
// unknown id or a container with no children.
func DescendantContainerIDs(id string, containers []Container) map[string]struct{} {
	index := childrenByParent(containers)

	descendants := make(map[string]struct{})
	frontier := []string{id}

	for len(frontier) > 0 {
		current := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]

		for _, childID := range index[current] {
			if _, seen := descendants[childID]; seen {
				// guards against corrupt parent links forming a loop
				continue
			}
			descendants[childID] = struct{}{}
			frontier = append(frontier, childID)
		}
	}

	return descendants
}

// CountDescendants returns the deletion impact of removing the container with
// the given id: the container itself plus every descendant container, and
// every leaf parented at any of them.
func CountDescendants(id string, containers []Container, leaves []Leaf) Impact {
	affected := DescendantContainerIDs(id, containers)
	affected[id] = struct{}{}

	leafCount := 0
	for i := range leaves {
		if leaves[i].ParentID == nil {
			continue
		}
		if _, ok := affected[*leaves[i].ParentID]; ok {
			leafCount++
		}
	}

	return Impact{Containers: len(affected), Leaves: leafCount}
}

// DetectCycle reports whether moving movingID under candidateParentID would
// make the container its own ancestor. Moving to the room root (nil parent)
// never cycles.
func DetectCycle(movingID string, candidateParentID *string, containers []Container) bool {
	if candidateParentID == nil {
		return false
	}
	if *candidateParentID == movingID {
		return true
	}
	_, inSubtree := DescendantContainerIDs(movingID, containers)[*candidateParentID]
	return inSubtree
}

// AncestorPath walks parent links from containerID up to a nil parent and
// returns the chain in root-to-target order, ready for breadcrumb rendering
// (callers prefix the owning room themselves). An unknown id yields an empty
// path; a broken or cyclic parent chain terminates at the breakage.
func AncestorPath(containerID string, containers []Container) []Container {
	byID := make(map[string]*Container, len(containers))
	for i := range containers {
		byID[containers[i].ID] = &containers[i]
	}

	var path []Container
	visited := make(map[string]struct{})

	current := containerID
	for {
		node, ok := byID[current]
		if !ok {
			break
		}
		if _, seen := visited[current]; seen {
			break
		}
		visited[current] = struct{}{}

		path = append(path, *node)
		if node.ParentID == nil {
			break
		}
		current = *node.ParentID
	}

	// collected target-to-root; reverse in place
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path
}

// TotalSize sums the byte size of every leaf directly owned by containerID or
// by any of its descendant containers.
func TotalSize(containerID string, containers []Container, leaves []Leaf) uint64 {
	affected := DescendantContainerIDs(containerID, containers)
	affected[containerID] = struct{}{}

	var total uint64
	for i := range leaves {
		if leaves[i].ParentID == nil {
			continue
		}
		if _, ok := affected[*leaves[i].ParentID]; ok {
			total += leaves[i].Size
		}
	}

	return total
}
