/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ucs

import "sync"

// Gate bounds the number of polls in flight per (node, kind) pair. Counts
// start at zero and entries are dropped once they return to zero.
type Gate struct {
	mu            sync.Mutex
	maxConcurrent int
	inFlight      map[string]map[string]int
}

// NewGate returns a gate admitting at most maxConcurrent polls per pair.
// Values below one are treated as one.
func NewGate(maxConcurrent int) *Gate {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	return &Gate{
		maxConcurrent: maxConcurrent,
		inFlight:      make(map[string]map[string]int),
	}
}

// MaxConcurrent returns the per-pair limit.
func (g *Gate) MaxConcurrent() int {
	return g.maxConcurrent
}

// TryAdmit claims a slot for (node, kind). It reports false without side
// effects when the pair is already at the limit.
func (g *Gate) TryAdmit(node, kind string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	kinds := g.inFlight[node]
	if kinds[kind] >= g.maxConcurrent {
		return false
	}

	if kinds == nil {
		kinds = make(map[string]int)
		g.inFlight[node] = kinds
	}

	kinds[kind]++

	return true
}

// Release returns a slot claimed by TryAdmit. Releasing a pair with nothing
// in flight is a no-op.
func (g *Gate) Release(node, kind string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	kinds, ok := g.inFlight[node]
	if !ok || kinds[kind] <= 0 {
		return
	}

	kinds[kind]--
	if kinds[kind] == 0 {
		delete(kinds, kind)
	}

	if len(kinds) == 0 {
		delete(g.inFlight, node)
	}
}

// InFlight returns the current count for (node, kind).
func (g *Gate) InFlight(node, kind string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.inFlight[node][kind]
}

// Total returns the number of polls in flight across all pairs.
func (g *Gate) Total() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	total := 0

	for _, kinds := range g.inFlight {
		for _, n := range kinds {
			total += n
		}
	}

	return total
}

func (g *Gate) trackedNodes() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.inFlight)
}
