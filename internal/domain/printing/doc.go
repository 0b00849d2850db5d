// Package printing models the print shop: print orders moving through a
// fixed production pipeline and the materials they consume.
package printing
