package crawler

// frontierEntry is one unit of BFS work: a URL and its distance from the root.
type frontierEntry struct {
	url   string
	depth int
}

// frontier owns the BFS queue and visited-URL set for a single site crawl.
// It is never shared between crawls, so no locking is needed. Termination is
// guaranteed by the visited check plus the visited-page cap.
type frontier struct {
	queue      []frontierEntry
	visited    map[string]bool
	maxVisited int
}

func newFrontier(rootURL string, maxVisited int) *frontier {
	return &frontier{
		queue:      []frontierEntry{{url: rootURL, depth: 0}},
		visited:    make(map[string]bool),
		maxVisited: maxVisited,
	}
}

// next pops the first unvisited entry and marks it visited. It reports false
// once the queue drains or the visited-page cap is reached.
func (f *frontier) next() (frontierEntry, bool) {
	for len(f.queue) > 0 {
		if len(f.visited) >= f.maxVisited {
			return frontierEntry{}, false
		}
		e := f.queue[0]
		f.queue = f.queue[1:]
		if f.visited[e.url] {
			continue
		}
		f.visited[e.url] = true
		return e, true
	}
	return frontierEntry{}, false
}

// enqueue adds a pending page unless it was already visited. Duplicates in
// the queue are tolerated; next skips them.
func (f *frontier) enqueue(url string, depth int) {
	if !f.visited[url] {
		f.queue = append(f.queue, frontierEntry{url: url, depth: depth})
	}
}
