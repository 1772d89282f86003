// Package topo defines the vertex store and edge graph that every path
// preparation algorithm in strata reads and writes.
//
// An EdgeGraph is an ordered sequence of slots holding vertex ids. Slots come
// in pairs: pair i occupies slots 2i and 2i+1 and is one undirected edge. A
// position is a slot index; even positions traverse their edge A to B, odd
// positions traverse it B to A. Next walks an insertion-ordered chain forward
// from even positions and backward from odd ones, so a loop can be walked in
// either sense with the same call.
package topo
